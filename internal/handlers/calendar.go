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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/practice-portal/internal/middleware"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// CalendarHandler handles calendar routes
type CalendarHandler struct {
	DB *gorm.DB
}

func queryTime(c *fiber.Ctx, key string) (types.FlexTime, error) {
	raw := c.Query(key)
	if raw == "" {
		return types.FlexTime{}, nil
	}
	t, err := types.ParseFlexTime(raw)
	if err != nil {
		return types.FlexTime{}, types.Validation("Invalid " + key)
	}
	return types.FlexTime(t), nil
}

// ListEvents handles GET /api/calendar/events
// @Summary List calendar events
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Earliest start"
// @Param endDate query string false "Latest start"
// @Param clientId query string false "Client filter"
// @Success 200 {array} models.CalendarEvent
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /calendar/events [get]
func (h *CalendarHandler) ListEvents(c *fiber.Ctx) error {
	start, err := queryTime(c, "startDate")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "endDate")
	if err != nil {
		return err
	}
	events, err := services.ListEvents(h.DB, middleware.CallerFrom(c), services.EventFilter{
		StartDate: start,
		EndDate:   end,
		ClientID:  c.Query("clientId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(events)
}

// CreateEvent handles POST /api/calendar/events
// @Summary Create a manual event
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.EventInput true "Event"
// @Success 201 {object} models.CalendarEvent
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /calendar/events [post]
func (h *CalendarHandler) CreateEvent(c *fiber.Ctx) error {
	var in services.EventInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	event, err := services.CreateEvent(h.DB, middleware.CallerFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// DeleteEvent handles DELETE /api/calendar/events/:id
// @Summary Delete a manual event
// @Description System events generated from task due dates cannot be deleted
// @Tags Calendar
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /calendar/events/{id} [delete]
func (h *CalendarHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := services.DeleteEvent(h.DB, middleware.CallerFrom(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
