// chat_service.go
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
	"strings"
	"time"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationInput is the body of a conversation upsert request
type ConversationInput struct {
	ClientID          string  `json:"clientId"`
	Type              string  `json:"type"`
	RelatedDocumentID *string `json:"relatedDocumentId"`
	RelatedTaskID     *string `json:"relatedTaskId"`
}

// ConversationView is a conversation summary for the caller
type ConversationView struct {
	ID                string                  `json:"id"`
	ClientID          string                  `json:"clientId"`
	ClientName        string                  `json:"clientName"`
	Type              models.ConversationType `json:"type"`
	RelatedDocumentID *string                 `json:"relatedDocumentId"`
	RelatedTaskID     *string                 `json:"relatedTaskId"`
	LastMessage       *string                 `json:"lastMessage"`
	LastMessageAt     *time.Time              `json:"lastMessageAt"`
	UnreadCount       int64                   `json:"unreadCount"`
	CreatedAt         time.Time               `json:"createdAt"`
}

// MessageView is a message with the caller's read state
type MessageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Body           string    `json:"body"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	CreatedAt      time.Time `json:"createdAt"`
	Read           bool      `json:"read"`
}

func newMessageView(m *models.Message, read bool) MessageView {
	v := MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Body:           m.Body,
		SenderID:       m.SenderUserID,
		CreatedAt:      m.CreatedAt,
		Read:           read,
	}
	if m.Sender != nil {
		v.SenderName = m.Sender.Name
	}
	return v
}

// ListConversations returns the caller's conversations with per-caller unread counts
func ListConversations(db *gorm.DB, caller access.Caller) ([]ConversationView, error) {
	var conversations []models.Conversation
	err := tenantWhere(db, caller).Preload("Client", clientRefColumns).
		Order("created_at DESC").Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, len(conversations))
	if len(conversations) == 0 {
		return views, nil
	}

	ids := make([]string, len(conversations))
	for i, c := range conversations {
		ids[i] = c.ID
	}
	unread, err := countBy(unreadMessages(db, caller.UserID).Where("conversation_id IN ?", ids), "conversation_id")
	if err != nil {
		return nil, err
	}
	latest, err := latestMessages(db, ids)
	if err != nil {
		return nil, err
	}

	for i := range conversations {
		c := &conversations[i]
		view := ConversationView{
			ID:                c.ID,
			ClientID:          c.ClientID,
			Type:              c.Type,
			RelatedDocumentID: c.RelatedDocumentID,
			RelatedTaskID:     c.RelatedTaskID,
			UnreadCount:       unread[c.ID],
			CreatedAt:         c.CreatedAt,
		}
		if c.Client != nil {
			view.ClientName = c.Client.DisplayName
		}

		if last, ok := latest[c.ID]; ok {
			view.LastMessage = &last.Body
			view.LastMessageAt = &last.CreatedAt
		}
		views[i] = view
	}
	return views, nil
}

// latestMessages loads the newest message of each conversation in one query
func latestMessages(db *gorm.DB, conversationIDs []string) (map[string]models.Message, error) {
	var rows []models.Message
	err := db.Where("conversation_id IN ?", conversationIDs).
		Where("created_at = (SELECT MAX(m.created_at) FROM messages m WHERE m.conversation_id = messages.conversation_id)").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	latest := make(map[string]models.Message, len(rows))
	for _, m := range rows {
		if _, ok := latest[m.ConversationID]; !ok {
			latest[m.ConversationID] = m
		}
	}
	return latest, nil
}

// unreadMessages selects messages that userID has no read row for
func unreadMessages(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.Message{}).
		Where("NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = messages.id AND r.user_id = ?)", userID)
}

// EnsureConversation finds or creates the conversation for a correlation tuple
func EnsureConversation(db *gorm.DB, caller access.Caller, in ConversationInput) (*models.Conversation, bool, error) {
	clientID := caller.ClientScope(strings.TrimSpace(in.ClientID))
	if clientID == "" {
		return nil, false, types.Validation("clientId is required")
	}
	client, err := requireClientInFirm(db, caller, clientID)
	if err != nil {
		return nil, false, err
	}

	kind := models.ConversationInternal
	switch {
	case caller.IsClient():
		kind = models.ConversationCAClient
	case in.Type != "":
		kind = models.ConversationType(strings.ToUpper(in.Type))
		if !kind.Valid() {
			return nil, false, types.Validation("Invalid conversation type")
		}
	}

	docID := optionalString(in.RelatedDocumentID)
	if docID != nil {
		if err := requireRelated(db, &models.Document{}, *docID, caller.FirmID, client.ID, "Document not found"); err != nil {
			return nil, false, err
		}
	}
	taskID := optionalString(in.RelatedTaskID)
	if taskID != nil {
		if err := requireRelated(db, &models.ComplianceTask{}, *taskID, caller.FirmID, client.ID, "Task not found"); err != nil {
			return nil, false, err
		}
	}

	conversation := &models.Conversation{
		FirmID:            caller.FirmID,
		ClientID:          client.ID,
		Type:              kind,
		RelatedDocumentID: docID,
		RelatedTaskID:     taskID,
		CreatedByUserID:   caller.UserID,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(conversation)
	if res.Error != nil && !database.IsDuplicateKey(res.Error) {
		return nil, false, res.Error
	}
	created := res.Error == nil && res.RowsAffected == 1

	docKey, taskKey := models.CorrelationKeys(docID, taskID)
	var stored models.Conversation
	err = db.Where("firm_id = ? AND client_id = ? AND related_document_key = ? AND related_task_key = ?",
		caller.FirmID, client.ID, docKey, taskKey).First(&stored).Error
	if err != nil {
		return nil, false, err
	}
	return &stored, created, nil
}

func requireRelated(db *gorm.DB, model interface{}, id, firmID, clientID, message string) error {
	var count int64
	err := db.Model(model).Where("id = ? AND firm_id = ? AND client_id = ?", id, firmID, clientID).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return types.NotFound(message)
	}
	return nil
}

func requireConversation(db *gorm.DB, caller access.Caller, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := firstOrNotFound(tenantWhere(db, caller).Where("id = ?", id), &conversation, "Conversation not found"); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListMessages returns a conversation's messages oldest first with the caller's read state
func ListMessages(db *gorm.DB, caller access.Caller, conversationID string) ([]MessageView, error) {
	conversation, err := requireConversation(db, caller, conversationID)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	err = db.Preload("Sender", userRefColumns).
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, len(messages))
	if len(messages) == 0 {
		return views, nil
	}

	ids := make([]string, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	var readIDs []string
	err = db.Model(&models.MessageRead{}).
		Where("user_id = ? AND message_id IN ?", caller.UserID, ids).
		Pluck("message_id", &readIDs).Error
	if err != nil {
		return nil, err
	}
	read := make(map[string]struct{}, len(readIDs))
	for _, id := range readIDs {
		read[id] = struct{}{}
	}

	for i := range messages {
		_, ok := read[messages[i].ID]
		views[i] = newMessageView(&messages[i], ok)
	}
	return views, nil
}

// SendMessage appends a message; the sender's own read row is recorded with it
func SendMessage(db *gorm.DB, caller access.Caller, conversationID, body string) (*MessageView, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, types.Validation("Message body is required")
	}
	conversation, err := requireConversation(db, caller, conversationID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{ConversationID: conversation.ID, SenderUserID: caller.UserID, Body: body}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Create(&models.MessageRead{MessageID: message.ID, UserID: caller.UserID}).Error
	})
	if err != nil {
		return nil, err
	}

	message.Sender = &models.UserRef{ID: caller.UserID, Name: caller.Name, Email: caller.Email}
	view := newMessageView(message, true)
	return &view, nil
}

// MarkMessageRead records that the caller has read a message in their scope. Repeat calls are no-ops.
func MarkMessageRead(db *gorm.DB, caller access.Caller, messageID string) error {
	q := scoped(db, caller).Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("messages.id = ? AND conversations.firm_id = ?", messageID, caller.FirmID)
	if caller.IsClient() {
		q = q.Where("conversations.client_id = ?", caller.ClientID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return types.NotFound("Message not found")
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.MessageRead{MessageID: messageID, UserID: caller.UserID}).Error
	if err != nil && !database.IsDuplicateKey(err) {
		return err
	}
	return nil
}
