// seed.go
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
	"encoding/json"
	"fmt"

	"github.com/localnerve/practice-portal/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// complianceTypeSeed is one entry of the embedded catalog
type complianceTypeSeed struct {
	Code        string                 `json:"code"`
	DisplayName string                 `json:"displayName"`
	Frequency   models.Frequency       `json:"frequency"`
	Meta        map[string]interface{} `json:"meta"`
}

// SeedAccount is an optional login created by the seed
type SeedAccount struct {
	Name     string
	Email    string
	Password string
}

// SeedOptions selects what the seed creates beyond the compliance catalog
type SeedOptions struct {
	FirmName   string
	FirmGSTIN  string
	FirmAdmin  *SeedAccount
	SuperAdmin *SeedAccount
}

// SeedComplianceTypes upserts the catalog by code and returns the number of entries
func SeedComplianceTypes(db *gorm.DB, catalog []byte) (int, error) {
	var entries []complianceTypeSeed
	if err := json.Unmarshal(catalog, &entries); err != nil {
		return 0, fmt.Errorf("invalid compliance type catalog: %w", err)
	}

	for _, e := range entries {
		meta, err := models.NewJSON(e.Meta)
		if err != nil {
			return 0, err
		}
		ct := &models.ComplianceType{Code: e.Code, DisplayName: e.DisplayName, Frequency: e.Frequency, Meta: meta}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "frequency", "meta", "updated_at"}),
		}).Create(ct).Error
		if err != nil {
			return 0, fmt.Errorf("failed to seed %s: %w", e.Code, err)
		}
	}
	log.Info().Int("count", len(entries)).Msg("seeded compliance types")
	return len(entries), nil
}

// Seed loads the catalog and the optional demo firm and platform accounts
func Seed(db *gorm.DB, catalog []byte, opts SeedOptions) error {
	if _, err := SeedComplianceTypes(db, catalog); err != nil {
		return err
	}

	if opts.FirmAdmin != nil {
		firm, err := seedFirm(db, opts.FirmName, opts.FirmGSTIN)
		if err != nil {
			return err
		}
		if err := seedUser(db, opts.FirmAdmin, models.RoleCAAdmin, &firm.ID); err != nil {
			return err
		}
	}

	if opts.SuperAdmin != nil {
		if err := seedUser(db, opts.SuperAdmin, models.RoleSuperAdmin, nil); err != nil {
			return err
		}
	}
	return nil
}

func seedFirm(db *gorm.DB, name, gstin string) (*models.Firm, error) {
	var firm models.Firm
	err := db.Where(models.Firm{GSTIN: &gstin}).
		Attrs(models.Firm{Name: name, Address: "Test Address"}).
		FirstOrCreate(&firm).Error
	if err != nil {
		return nil, fmt.Errorf("failed to seed firm: %w", err)
	}
	log.Info().Str("firm", firm.Name).Msg("seeded firm")
	return &firm, nil
}

func seedUser(db *gorm.DB, account *SeedAccount, role models.Role, firmID *string) error {
	hash, err := HashPassword(account.Password)
	if err != nil {
		return err
	}
	user := models.User{
		Name:         account.Name,
		Email:        normalizeEmail(account.Email),
		PasswordHash: hash,
		Role:         role,
		FirmID:       firmID,
		Status:       models.UserStatusActive,
	}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "password_hash", "role", "firm_id", "status",
			"can_view_clients", "can_edit_clients", "can_access_documents",
			"can_access_tasks", "can_access_calendar", "can_access_chat", "updated_at",
		}),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", account.Email, err)
	}
	log.Info().Str("email", user.Email).Str("role", string(role)).Msg("seeded user")
	return nil
}
