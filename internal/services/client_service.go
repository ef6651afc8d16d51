// client_service.go
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
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// ClientInput is the body of client create and update requests.
// On update every field is optional.
type ClientInput struct {
	DisplayName  *string `json:"displayName"`
	Type         *string `json:"type"`
	PAN          *string `json:"pan"`
	GSTIN        *string `json:"gstin"`
	CIN          *string `json:"cin"`
	ContactName  *string `json:"contactName"`
	ContactEmail *string `json:"contactEmail"`
}

func (in ClientInput) value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// ListClients returns the clients visible to the caller
func ListClients(db *gorm.DB, caller access.Caller) ([]models.Client, error) {
	clients := []models.Client{}
	err := tenantClientQuery(db, caller).
		Preload("PrimaryUser", userRefColumns).
		Order("display_name ASC").
		Find(&clients).Error
	return clients, err
}

// GetClient returns one client in the caller's scope
func GetClient(db *gorm.DB, caller access.Caller, id string) (*models.Client, error) {
	var client models.Client
	err := firstOrNotFound(
		tenantClientQuery(db, caller).Preload("PrimaryUser", userRefColumns).Where("id = ?", id),
		&client, "Client not found")
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient creates the client's login user and the client in one transaction
func CreateClient(db *gorm.DB, caller access.Caller, in ClientInput) (*models.Client, error) {
	displayName := in.value(in.DisplayName)
	clientType := models.ClientType(strings.ToUpper(in.value(in.Type)))
	contactName := in.value(in.ContactName)
	contactEmail := normalizeEmail(in.value(in.ContactEmail))

	if displayName == "" || clientType == "" || contactName == "" || contactEmail == "" {
		return nil, types.Validation("displayName, type, contactName and contactEmail are required")
	}
	if !clientType.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid client type %q", clientType))
	}

	hash, err := HashPassword(temporaryPassword())
	if err != nil {
		return nil, err
	}

	var clientID string
	err = db.Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Name:         contactName,
			Email:        contactEmail,
			PasswordHash: hash,
			Role:         models.RoleClient,
			FirmID:       &caller.FirmID,
		}
		if err := tx.Create(user).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return types.Conflict("Email already exists")
			}
			return err
		}

		client := &models.Client{
			FirmID:        caller.FirmID,
			PrimaryUserID: user.ID,
			DisplayName:   displayName,
			Type:          clientType,
			PAN:           upperOptional(in.PAN),
			GSTIN:         upperOptional(in.GSTIN),
			CIN:           upperOptional(in.CIN),
		}
		if err := tx.Create(client).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return types.Conflict("PAN already exists")
			}
			return err
		}
		clientID = client.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetClient(db, caller, clientID)
}

// UpdateClient applies a partial update to a client and its primary contact
func UpdateClient(db *gorm.DB, caller access.Caller, id string, in ClientInput) (*models.Client, error) {
	existing, err := GetClient(db, caller, id)
	if err != nil {
		return nil, err
	}

	clientUpdates := map[string]interface{}{}
	if v := in.value(in.DisplayName); v != "" {
		clientUpdates["display_name"] = v
	}
	if v := in.value(in.Type); v != "" {
		clientType := models.ClientType(strings.ToUpper(v))
		if !clientType.Valid() {
			return nil, types.Validation(fmt.Sprintf("Invalid client type %q", v))
		}
		clientUpdates["type"] = clientType
	}
	if in.PAN != nil {
		clientUpdates["pan"] = upperOptional(in.PAN)
	}
	if in.GSTIN != nil {
		clientUpdates["gstin"] = upperOptional(in.GSTIN)
	}
	if in.CIN != nil {
		clientUpdates["cin"] = upperOptional(in.CIN)
	}

	userUpdates := map[string]interface{}{}
	if v := in.value(in.ContactName); v != "" {
		userUpdates["name"] = v
	}
	if v := normalizeEmail(in.value(in.ContactEmail)); v != "" {
		userUpdates["email"] = v
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(clientUpdates) > 0 {
			if err := tx.Model(&models.Client{}).Where("id = ?", existing.ID).Updates(clientUpdates).Error; err != nil {
				if database.IsDuplicateKey(err) {
					return types.Conflict("PAN already exists")
				}
				return err
			}
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", existing.PrimaryUserID).Updates(userUpdates).Error; err != nil {
				if database.IsDuplicateKey(err) {
					return types.Conflict("Email already exists")
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetClient(db, caller, existing.ID)
}

func upperOptional(s *string) *string {
	v := optionalString(s)
	if v == nil {
		return nil
	}
	up := strings.ToUpper(*v)
	return &up
}

// temporaryPassword is never shown; the client sets a password through a reset
func temporaryPassword() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
