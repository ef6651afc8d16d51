// admin_service.go
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
	"time"

	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// FirmView is a firm with its CA_ADMIN users
type FirmView struct {
	models.Firm
	Admins []models.UserRef `json:"admins"`
}

// FirmInput is the body of a firm create request
type FirmInput struct {
	Name    string  `json:"name"`
	GSTIN   *string `json:"gstin"`
	Address string  `json:"address"`
}

// ListFirms returns every firm with its admins, newest first
func ListFirms(db *gorm.DB) ([]FirmView, error) {
	var firms []models.Firm
	if err := db.Order("created_at DESC").Find(&firms).Error; err != nil {
		return nil, err
	}
	views := make([]FirmView, len(firms))
	if len(firms) == 0 {
		return views, nil
	}

	ids := make([]string, len(firms))
	for i, f := range firms {
		ids[i] = f.ID
	}
	var admins []models.User
	err := db.Where("firm_id IN ? AND role = ?", ids, models.RoleCAAdmin).Order("name ASC").Find(&admins).Error
	if err != nil {
		return nil, err
	}
	byFirm := make(map[string][]models.UserRef)
	for _, a := range admins {
		byFirm[*a.FirmID] = append(byFirm[*a.FirmID], models.UserRef{ID: a.ID, Name: a.Name, Email: a.Email})
	}

	for i, f := range firms {
		list := byFirm[f.ID]
		if list == nil {
			list = []models.UserRef{}
		}
		views[i] = FirmView{Firm: f, Admins: list}
	}
	return views, nil
}

// CreateFirm registers a new tenant
func CreateFirm(db *gorm.DB, in FirmInput) (*models.Firm, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Validation("name is required")
	}
	firm := &models.Firm{Name: name, GSTIN: upperOptional(in.GSTIN), Address: strings.TrimSpace(in.Address)}
	if err := db.Create(firm).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, types.Conflict("GSTIN already exists")
		}
		return nil, err
	}
	return firm, nil
}

func requireFirm(db *gorm.DB, firmID string) error {
	var count int64
	if err := db.Model(&models.Firm{}).Where("id = ?", firmID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return types.NotFound("Firm not found")
	}
	return nil
}

// ListUsersInFirm lists the users of any firm
func ListUsersInFirm(db *gorm.DB, firmID string) ([]UserView, error) {
	if err := requireFirm(db, firmID); err != nil {
		return nil, err
	}
	return listUsersInFirm(db, firmID, "")
}

// CreateUserInFirm adds a CA user to any firm
func CreateUserInFirm(db *gorm.DB, firmID string, in UserInput) (*UserView, error) {
	if err := requireFirm(db, firmID); err != nil {
		return nil, err
	}
	return createUserInFirm(db, firmID, in)
}

func loadUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := firstOrNotFound(db.Where("id = ?", id), &user, "User not found"); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUpdatePermissions changes the flags of any firm user
func AdminUpdatePermissions(db *gorm.DB, id string, patch models.PermissionsPatch) (*UserView, error) {
	user, err := loadUser(db, id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleSuperAdmin {
		return nil, types.Validation("SUPER_ADMIN users carry no capability flags")
	}
	if user.Role == models.RoleCAAdmin {
		return nil, types.Validation("CA_ADMIN users always hold every capability")
	}
	return applyPermissions(db, user, patch)
}

// ResetPassword sets a new password for any user
func ResetPassword(db *gorm.DB, id, password string) error {
	if password == "" {
		return types.Validation("Password is required")
	}
	if len(password) < MinPasswordLength {
		return types.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	user, err := loadUser(db, id)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}).Error
}

// SetUserStatus enables or disables a user. Disabled users fail authentication on their next request.
func SetUserStatus(db *gorm.DB, id, status string) (*UserView, error) {
	next := models.UserStatus(strings.ToUpper(strings.TrimSpace(status)))
	if next != models.UserStatusActive && next != models.UserStatusDisabled {
		return nil, types.Validation("status must be ACTIVE or DISABLED")
	}
	user, err := loadUser(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", next).Error; err != nil {
		return nil, err
	}
	user.Status = next
	view := NewUserView(user)
	return &view, nil
}
