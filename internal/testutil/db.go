// db.go
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

// Package testutil provides databases, fixtures and containers for tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPassword is the password of every fixture user
const DefaultPassword = "password123"

// NewTestDB opens a migrated in-memory SQLite database.
// A single connection keeps every statement on the same in-memory database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateFirm inserts a firm
func CreateFirm(t testing.TB, db *gorm.DB, name string) *models.Firm {
	t.Helper()
	firm := &models.Firm{Name: name}
	if err := db.Create(firm).Error; err != nil {
		t.Fatalf("Failed to create firm: %v", err)
	}
	return firm
}

// CreateUser inserts a user with DefaultPassword. firm may be nil for SUPER_ADMIN.
func CreateUser(t testing.TB, db *gorm.DB, firm *models.Firm, role models.Role, email string, perms models.Permissions) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  perms,
	}
	if firm != nil {
		user.FirmID = &firm.ID
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// CreateClient inserts a client with its CLIENT primary user
func CreateClient(t testing.TB, db *gorm.DB, firm *models.Firm, name, email string) (*models.Client, *models.User) {
	t.Helper()
	user := CreateUser(t, db, firm, models.RoleClient, email, models.Permissions{})
	client := &models.Client{
		FirmID:        firm.ID,
		PrimaryUserID: user.ID,
		DisplayName:   name,
		Type:          models.ClientTypeIndividual,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client, user
}

// CreateComplianceType inserts a compliance type
func CreateComplianceType(t testing.TB, db *gorm.DB, code string) *models.ComplianceType {
	t.Helper()
	ct := &models.ComplianceType{Code: code, DisplayName: code, Frequency: models.FrequencyAnnual}
	if err := db.Create(ct).Error; err != nil {
		t.Fatalf("Failed to create compliance type: %v", err)
	}
	return ct
}
