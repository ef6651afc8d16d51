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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/practice-portal/internal/middleware"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/utils"
	"gorm.io/gorm"
)

// ChatHandler handles conversation and message routes
type ChatHandler struct {
	DB *gorm.DB
}

// MessageRequest carries a message body
type MessageRequest struct {
	Body string `json:"body"`
}

// ListConversations handles GET /api/chat/conversations
// @Summary List conversations
// @Description Conversations with the caller's own unread count
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.ConversationView
// @Router /chat/conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	list, err := services.ListConversations(h.DB, middleware.CallerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// EnsureConversation handles POST /api/chat/conversations
// @Summary Open a conversation
// @Description Returns the existing conversation for the same client and related records
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ConversationInput true "Conversation"
// @Success 200 {object} models.Conversation
// @Success 201 {object} models.Conversation
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chat/conversations [post]
func (h *ChatHandler) EnsureConversation(c *fiber.Ctx) error {
	var in services.ConversationInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	conv, created, err := services.EnsureConversation(h.DB, middleware.CallerFrom(c), in)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(conv)
}

// ListMessages handles GET /api/chat/conversations/:id/messages
// @Summary List messages
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {array} services.MessageView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chat/conversations/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := services.ListMessages(h.DB, middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// SendMessage handles POST /api/chat/conversations/:id/messages
// @Summary Send a message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param body body MessageRequest true "Message"
// @Success 201 {object} services.MessageView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chat/conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req MessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	msg, err := services.SendMessage(h.DB, middleware.CallerFrom(c), c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkRead handles POST /api/chat/messages/:id/read
// @Summary Mark a message read for the caller
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chat/messages/{id}/read [post]
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	if err := services.MarkMessageRead(h.DB, middleware.CallerFrom(c), c.Params("id")); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Marked as read")
}
