// base.go
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

package models

import (
	"github.com/google/uuid"
)

// newID returns a fresh primary key
func newID() string {
	return uuid.NewString()
}

// UserRef is the public projection of a user embedded in other resources
type UserRef struct {
	ID    string `gorm:"type:char(36);primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;not null" json:"email,omitempty"`
}

// TableName maps UserRef onto the users table
func (UserRef) TableName() string {
	return "users"
}

// ClientRef is the public projection of a client embedded in other resources
type ClientRef struct {
	ID          string `gorm:"type:char(36);primaryKey" json:"id"`
	DisplayName string `gorm:"size:255;not null" json:"displayName"`
}

// TableName maps ClientRef onto the clients table
func (ClientRef) TableName() string {
	return "clients"
}
