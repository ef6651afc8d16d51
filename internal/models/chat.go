// chat.go
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

// ConversationType tells firm-internal threads from client-facing ones
type ConversationType string

const (
	ConversationInternal ConversationType = "INTERNAL"
	ConversationCAClient ConversationType = "CA_CLIENT"
)

// Valid reports whether t is a known conversation type
func (t ConversationType) Valid() bool {
	return t == ConversationInternal || t == ConversationCAClient
}

// Conversation is a thread between a firm and one of its clients.
// RelatedDocumentKey and RelatedTaskKey hold the related ids or "" so the
// correlation tuple is a plain unique index.
type Conversation struct {
	ID                 string           `gorm:"type:char(36);primaryKey" json:"id"`
	FirmID             string           `gorm:"type:char(36);not null;uniqueIndex:idx_conversation_correlation,priority:1" json:"firmId"`
	ClientID           string           `gorm:"type:char(36);not null;uniqueIndex:idx_conversation_correlation,priority:2;index" json:"clientId"`
	RelatedDocumentKey string           `gorm:"size:36;not null;default:'';uniqueIndex:idx_conversation_correlation,priority:3" json:"-"`
	RelatedTaskKey     string           `gorm:"size:36;not null;default:'';uniqueIndex:idx_conversation_correlation,priority:4" json:"-"`
	Type               ConversationType `gorm:"size:16;not null" json:"type"`
	RelatedDocumentID  *string          `gorm:"type:char(36)" json:"relatedDocumentId"`
	RelatedTaskID      *string          `gorm:"type:char(36)" json:"relatedTaskId"`
	CreatedByUserID    string           `gorm:"type:char(36);not null" json:"createdByUserId"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`

	Client *ClientRef `gorm:"foreignKey:ClientID;-:migration" json:"client,omitempty"`
}

// BeforeCreate assigns the primary key and correlation keys
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	c.RelatedDocumentKey = keyOf(c.RelatedDocumentID)
	c.RelatedTaskKey = keyOf(c.RelatedTaskID)
	return nil
}

// TableName overrides the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

func keyOf(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// CorrelationKeys returns the stored keys for a related document and task
func CorrelationKeys(documentID, taskID *string) (string, string) {
	return keyOf(documentID), keyOf(taskID)
}

// Message is an append-only entry in a conversation
type Message struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	ConversationID string    `gorm:"type:char(36);not null;index:idx_message_conversation,priority:1" json:"conversationId"`
	SenderUserID   string    `gorm:"type:char(36);not null" json:"senderUserId"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	CreatedAt      time.Time `gorm:"index:idx_message_conversation,priority:2" json:"createdAt"`

	Sender *UserRef `gorm:"foreignKey:SenderUserID;-:migration" json:"sender,omitempty"`
}

// BeforeCreate assigns the primary key
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	return nil
}

// TableName overrides the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageRead records that one user has read one message
type MessageRead struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	MessageID string    `gorm:"type:char(36);not null;uniqueIndex:idx_message_read,priority:1" json:"messageId"`
	UserID    string    `gorm:"type:char(36);not null;uniqueIndex:idx_message_read,priority:2;index" json:"userId"`
	ReadAt    time.Time `gorm:"not null" json:"readAt"`
}

// BeforeCreate assigns the primary key and read time
func (r *MessageRead) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.ReadAt.IsZero() {
		r.ReadAt = time.Now().UTC()
	}
	return nil
}

// TableName overrides the table name for MessageRead
func (MessageRead) TableName() string {
	return "message_reads"
}
