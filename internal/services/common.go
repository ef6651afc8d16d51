// common.go
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
	"errors"
	"strings"
	"time"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// scoped tags tenant queries with the firm id so database logs attribute them
func scoped(db *gorm.DB, caller access.Caller) *gorm.DB {
	return db.Clauses(hints.CommentBefore("select", "tenant:"+caller.FirmID))
}

// tenantWhere restricts a query on a table with firm_id and client_id columns to the caller's scope
func tenantWhere(db *gorm.DB, caller access.Caller) *gorm.DB {
	q := scoped(db, caller).Where("firm_id = ?", caller.FirmID)
	if caller.IsClient() {
		q = q.Where("client_id = ?", caller.ClientID)
	}
	return q
}

// firstOrNotFound maps a missing row onto a NotFound error
func firstOrNotFound(q *gorm.DB, dest interface{}, message string) error {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound(message)
	}
	return err
}

// userRefColumns selects the public user projection for preloads
func userRefColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

// clientRefColumns selects the public client projection for preloads
func clientRefColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "display_name")
}

// requireClientInFirm loads a client of the caller's firm; CLIENT callers may only name their own
func requireClientInFirm(db *gorm.DB, caller access.Caller, clientID string) (*models.Client, error) {
	var client models.Client
	if err := firstOrNotFound(
		tenantClientQuery(db, caller).Where("id = ?", clientID),
		&client, "Client not found"); err != nil {
		return nil, err
	}
	return &client, nil
}

// tenantClientQuery scopes the clients table, whose own id is the client id
func tenantClientQuery(db *gorm.DB, caller access.Caller) *gorm.DB {
	q := scoped(db, caller).Model(&models.Client{}).Where("firm_id = ?", caller.FirmID)
	if caller.IsClient() {
		q = q.Where("id = ?", caller.ClientID)
	}
	return q
}

// normalizeEmail lower-cases and trims an email address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optionalString trims s and returns nil when empty
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func now() time.Time {
	return time.Now().UTC()
}
