// notifications.go
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

// NotificationHandler handles the caller's notification inbox
type NotificationHandler struct {
	DB *gorm.DB
}

// List handles GET /api/notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := services.ListNotifications(h.DB, middleware.CallerFrom(c), c.QueryBool("unreadOnly"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// MarkRead handles POST /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := services.MarkNotificationRead(h.DB, middleware.CallerFrom(c), c.Params("id")); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Marked as read")
}

// MarkAllRead handles POST /api/notifications/read-all
// @Summary Mark every notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.MessageResponseStruct
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	count, err := services.MarkAllNotificationsRead(h.DB, middleware.CallerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(utils.MessageResponseStruct{Message: "All marked as read", Ok: true, Count: &count})
}
