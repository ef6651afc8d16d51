// user_service.go
//
// Multi-tenant practice management service for chartered accountant firms
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of practice-portal.
// practice-portal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// practice-portal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with practice-portal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"fmt"
	"strings"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// UserInput is the body of a staff user create request
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ProfileInput is the body of a self profile update
type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func viewsOf(users []models.User) []UserView {
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = NewUserView(&users[i])
	}
	return views
}

// ListFirmUsers lists the users of the caller's firm, optionally by role
func ListFirmUsers(db *gorm.DB, caller access.Caller, role string) ([]UserView, error) {
	return listUsersInFirm(scoped(db, caller), caller.FirmID, role)
}

func listUsersInFirm(db *gorm.DB, firmID, role string) ([]UserView, error) {
	q := db.Where("firm_id = ?", firmID)
	if role != "" {
		r := models.Role(strings.ToUpper(role))
		if !r.Valid() {
			return nil, types.Validation(fmt.Sprintf("Invalid role %q", role))
		}
		q = q.Where("role = ?", r)
	}
	var users []models.User
	if err := q.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return viewsOf(users), nil
}

// CreateFirmUser adds a CA_ADMIN or CA_STAFF user to the caller's firm
func CreateFirmUser(db *gorm.DB, caller access.Caller, in UserInput) (*UserView, error) {
	return createUserInFirm(db, caller.FirmID, in)
}

func createUserInFirm(db *gorm.DB, firmID string, in UserInput) (*UserView, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, types.Validation("name, email, password and role are required")
	}
	role := models.Role(strings.ToUpper(in.Role))
	if role != models.RoleCAAdmin && role != models.RoleCAStaff {
		return nil, types.Validation("role must be CA_ADMIN or CA_STAFF")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, types.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirmID:       &firmID,
	}
	if err := db.Create(user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, types.Conflict("Email already exists")
		}
		return nil, err
	}
	view := NewUserView(user)
	return &view, nil
}

// UpdatePermissions changes the flags of a CA_STAFF user in the caller's firm
func UpdatePermissions(db *gorm.DB, caller access.Caller, id string, patch models.PermissionsPatch) (*UserView, error) {
	var user models.User
	if err := firstOrNotFound(scoped(db, caller).Where("id = ? AND firm_id = ?", id, caller.FirmID), &user, "User not found"); err != nil {
		return nil, err
	}
	if user.Role != models.RoleCAStaff {
		return nil, types.Validation("Permissions can only be changed for CA_STAFF users")
	}
	return applyPermissions(db, &user, patch)
}

func applyPermissions(db *gorm.DB, user *models.User, patch models.PermissionsPatch) (*UserView, error) {
	p := patch.Apply(user.Permissions)
	err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"can_view_clients":     p.CanViewClients,
		"can_edit_clients":     p.CanEditClients,
		"can_access_documents": p.CanAccessDocuments,
		"can_access_tasks":     p.CanAccessTasks,
		"can_access_calendar":  p.CanAccessCalendar,
		"can_access_chat":      p.CanAccessChat,
	}).Error
	if err != nil {
		return nil, err
	}
	user.Permissions = p
	view := NewUserView(user)
	return &view, nil
}

// UpdateProfile changes the caller's own name or email
func UpdateProfile(db *gorm.DB, caller access.Caller, id string, in ProfileInput) (*UserView, error) {
	if id != caller.UserID {
		return nil, types.Forbidden("You can only update your own profile")
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, types.Validation("name must not be empty")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, types.Validation("email must not be empty")
		}
		updates["email"] = email
	}
	if len(updates) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", caller.UserID).Updates(updates).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return nil, types.Conflict("Email already exists")
			}
			return nil, err
		}
	}
	return CurrentUser(db, caller)
}
