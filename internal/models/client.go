// client.go
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
	"time"

	"gorm.io/gorm"
)

// ClientType distinguishes individual and business clients
type ClientType string

const (
	ClientTypeIndividual ClientType = "INDIVIDUAL"
	ClientTypeBusiness   ClientType = "BUSINESS"
)

// Valid reports whether t is a known client type
func (t ClientType) Valid() bool {
	return t == ClientTypeIndividual || t == ClientTypeBusiness
}

// Client belongs to exactly one firm and logs in through its primary user
type Client struct {
	ID            string     `gorm:"type:char(36);primaryKey" json:"id"`
	FirmID        string     `gorm:"type:char(36);not null;index;uniqueIndex:idx_client_firm_pan,priority:1" json:"firmId"`
	PrimaryUserID string     `gorm:"type:char(36);not null;uniqueIndex" json:"primaryUserId"`
	DisplayName   string     `gorm:"size:255;not null" json:"displayName"`
	Type          ClientType `gorm:"size:16;not null" json:"type"`
	PAN           *string    `gorm:"column:pan;size:16;uniqueIndex:idx_client_firm_pan,priority:2,where:pan IS NOT NULL" json:"pan,omitempty"`
	GSTIN         *string    `gorm:"column:gstin;size:32" json:"gstin,omitempty"`
	CIN           *string    `gorm:"column:cin;size:32" json:"cin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	PrimaryUser *UserRef `gorm:"foreignKey:PrimaryUserID;-:migration" json:"primaryUser,omitempty"`
}

// BeforeCreate assigns the primary key
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}

// TableName overrides the table name for Client
func (Client) TableName() string {
	return "clients"
}
