// chat_service_test.go
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

package services_test

import (
	"net/http"
	"testing"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/localnerve/practice-portal/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func unreadFor(t *testing.T, db *gorm.DB, caller access.Caller, conversationID string) int64 {
	t.Helper()
	list, err := services.ListConversations(db, caller)
	require.NoError(t, err)
	for _, c := range list {
		if c.ID == conversationID {
			return c.UnreadCount
		}
	}
	t.Fatalf("conversation %s not listed", conversationID)
	return 0
}

func TestEnsureConversationIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")

	first, created, err := services.EnsureConversation(db, ten.adminCaller(), services.ConversationInput{ClientID: ten.client.ID})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, models.ConversationInternal, first.Type)

	again, created, err := services.EnsureConversation(db, ten.adminCaller(), services.ConversationInput{ClientID: ten.client.ID})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, again.ID)

	fromClient, created, err := services.EnsureConversation(db, ten.clientCaller(), services.ConversationInput{})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, fromClient.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestEnsureConversationPerCorrelation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	ct := testutil.CreateComplianceType(t, db, "GSTR3B")
	task, err := services.CreateTask(db, ten.adminCaller(), taskInput(t, ten.client.ID, ct.ID))
	require.NoError(t, err)

	general, _, err := services.EnsureConversation(db, ten.adminCaller(), services.ConversationInput{ClientID: ten.client.ID})
	require.NoError(t, err)

	byTask, created, err := services.EnsureConversation(db, ten.clientCaller(), services.ConversationInput{
		Type:          "INTERNAL",
		RelatedTaskID: strPtr(task.ID),
	})
	require.NoError(t, err)
	require.True(t, created)
	require.NotEqual(t, general.ID, byTask.ID)
	require.Equal(t, models.ConversationCAClient, byTask.Type)
	require.Equal(t, task.ID, *byTask.RelatedTaskID)
}

func TestEnsureConversationValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	alpha := newTenant(t, db, "alpha")
	beta := newTenant(t, db, "beta")

	_, _, err := services.EnsureConversation(db, alpha.adminCaller(), services.ConversationInput{})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	_, _, err = services.EnsureConversation(db, alpha.adminCaller(), services.ConversationInput{ClientID: alpha.client.ID, Type: "PUBLIC"})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	_, _, err = services.EnsureConversation(db, alpha.adminCaller(), services.ConversationInput{ClientID: beta.client.ID})
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	_, _, err = services.EnsureConversation(db, alpha.adminCaller(), services.ConversationInput{
		ClientID:          alpha.client.ID,
		RelatedDocumentID: strPtr("missing-document"),
	})
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)
}

func TestMessagesReadStateIsPerUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")

	conversation, _, err := services.EnsureConversation(db, ten.adminCaller(), services.ConversationInput{ClientID: ten.client.ID})
	require.NoError(t, err)

	sent, err := services.SendMessage(db, ten.adminCaller(), conversation.ID, "  Please upload Form 16  ")
	require.NoError(t, err)
	require.Equal(t, "Please upload Form 16", sent.Body)
	require.True(t, sent.Read)
	require.Equal(t, ten.admin.Name, sent.SenderName)

	require.Equal(t, int64(0), unreadFor(t, db, ten.adminCaller(), conversation.ID))
	require.Equal(t, int64(1), unreadFor(t, db, ten.clientCaller(), conversation.ID))
	require.Equal(t, int64(1), unreadFor(t, db, ten.staffCaller(), conversation.ID))

	require.NoError(t, services.MarkMessageRead(db, ten.clientCaller(), sent.ID))
	require.NoError(t, services.MarkMessageRead(db, ten.clientCaller(), sent.ID))

	require.Equal(t, int64(0), unreadFor(t, db, ten.clientCaller(), conversation.ID))
	require.Equal(t, int64(1), unreadFor(t, db, ten.staffCaller(), conversation.ID))

	var reads int64
	require.NoError(t, db.Model(&models.MessageRead{}).Where("message_id = ?", sent.ID).Count(&reads).Error)
	require.Equal(t, int64(2), reads)

	messages, err := services.ListMessages(db, ten.staffCaller(), conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.False(t, messages[0].Read)

	list, err := services.ListConversations(db, ten.clientCaller())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LastMessage)
	require.Equal(t, "Please upload Form 16", *list[0].LastMessage)
	require.Equal(t, ten.client.DisplayName, list[0].ClientName)
}

func TestMessagesAreTenantScoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	alpha := newTenant(t, db, "alpha")
	beta := newTenant(t, db, "beta")

	conversation, _, err := services.EnsureConversation(db, alpha.adminCaller(), services.ConversationInput{ClientID: alpha.client.ID})
	require.NoError(t, err)
	sent, err := services.SendMessage(db, alpha.adminCaller(), conversation.ID, "hello")
	require.NoError(t, err)

	_, err = services.SendMessage(db, alpha.adminCaller(), conversation.ID, "   ")
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	_, err = services.SendMessage(db, beta.adminCaller(), conversation.ID, "intrusion")
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	_, err = services.ListMessages(db, beta.clientCaller(), conversation.ID)
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	err = services.MarkMessageRead(db, beta.adminCaller(), sent.ID)
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	list, err := services.ListConversations(db, beta.adminCaller())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestListConversationsShowsLatestMessageOfEach(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	ct := testutil.CreateComplianceType(t, db, "GSTR1")
	task, err := services.CreateTask(db, ten.adminCaller(), taskInput(t, ten.client.ID, ct.ID))
	require.NoError(t, err)

	general, _, err := services.EnsureConversation(db, ten.adminCaller(), services.ConversationInput{ClientID: ten.client.ID})
	require.NoError(t, err)
	byTask, _, err := services.EnsureConversation(db, ten.adminCaller(), services.ConversationInput{
		ClientID:      ten.client.ID,
		RelatedTaskID: strPtr(task.ID),
	})
	require.NoError(t, err)
	otherTask, err := services.CreateTask(db, ten.adminCaller(), taskInput(t, ten.client.ID, ct.ID))
	require.NoError(t, err)
	quiet, _, err := services.EnsureConversation(db, ten.clientCaller(), services.ConversationInput{RelatedTaskID: strPtr(otherTask.ID)})
	require.NoError(t, err)

	for _, body := range []string{"one", "two", "three"} {
		_, err := services.SendMessage(db, ten.adminCaller(), general.ID, body)
		require.NoError(t, err)
	}
	_, err = services.SendMessage(db, ten.clientCaller(), byTask.ID, "task first")
	require.NoError(t, err)
	_, err = services.SendMessage(db, ten.adminCaller(), byTask.ID, "task reply")
	require.NoError(t, err)

	list, err := services.ListConversations(db, ten.adminCaller())
	require.NoError(t, err)
	last := map[string]*string{}
	for _, c := range list {
		last[c.ID] = c.LastMessage
	}
	require.Len(t, last, 3)
	require.NotNil(t, last[general.ID])
	require.Equal(t, "three", *last[general.ID])
	require.NotNil(t, last[byTask.ID])
	require.Equal(t, "task reply", *last[byTask.ID])
	require.Nil(t, last[quiet.ID])
}
