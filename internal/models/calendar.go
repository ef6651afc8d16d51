// calendar.go
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

// EventSource tells user-created events from generated ones
type EventSource string

const (
	EventManual EventSource = "MANUAL"
	EventSystem EventSource = "SYSTEM"
)

// CalendarEvent is a dated entry on a firm's calendar
type CalendarEvent struct {
	ID            string      `gorm:"type:char(36);primaryKey" json:"id"`
	FirmID        string      `gorm:"type:char(36);not null;index" json:"firmId"`
	ClientID      *string     `gorm:"type:char(36);index" json:"clientId"`
	Title         string      `gorm:"size:255;not null" json:"title"`
	Description   string      `gorm:"type:text" json:"description,omitempty"`
	StartAt       time.Time   `gorm:"not null;index" json:"startAt"`
	EndAt         time.Time   `gorm:"not null" json:"endAt"`
	Source        EventSource `gorm:"size:16;not null;default:MANUAL" json:"source"`
	RelatedTaskID *string     `gorm:"type:char(36);index" json:"relatedTaskId"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`

	Client *ClientRef `gorm:"foreignKey:ClientID;-:migration" json:"client,omitempty"`
}

// BeforeCreate assigns the primary key
func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Source == "" {
		e.Source = EventManual
	}
	return nil
}

// TableName overrides the table name for CalendarEvent
func (CalendarEvent) TableName() string {
	return "calendar_events"
}
