// notification.go
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

// NotificationType names what a notification is about
type NotificationType string

const (
	NotifyDeadlineReminder NotificationType = "DEADLINE_REMINDER"
	NotifyDocumentUploaded NotificationType = "DOCUMENT_UPLOADED"
	NotifyFilingCompleted  NotificationType = "FILING_COMPLETED"
	NotifyTaskAssigned     NotificationType = "TASK_ASSIGNED"
)

// Notification is a per-user message; ReadAt is nil while unread
type Notification struct {
	ID        string           `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string           `gorm:"type:char(36);not null;index:idx_notification_user,priority:1" json:"userId"`
	Type      NotificationType `gorm:"size:32;not null" json:"type"`
	Payload   JSON             `json:"payload"`
	CreatedAt time.Time        `gorm:"index:idx_notification_user,priority:2" json:"createdAt"`
	ReadAt    *time.Time       `json:"readAt"`
}

// BeforeCreate assigns the primary key
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = newID()
	}
	return nil
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
