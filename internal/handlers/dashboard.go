// dashboard.go
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
	"gorm.io/gorm"
)

// DashboardHandler handles the landing page summaries
type DashboardHandler struct {
	DB *gorm.DB
}

// Firm handles GET /api/dashboard
// @Summary Firm dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.FirmDashboard
// @Router /dashboard [get]
func (h *DashboardHandler) Firm(c *fiber.Ctx) error {
	board, err := services.GetFirmDashboard(h.DB, middleware.CallerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(board)
}

// Client handles GET /api/dashboard/client
// @Summary Client dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.ClientDashboard
// @Router /dashboard/client [get]
func (h *DashboardHandler) Client(c *fiber.Ctx) error {
	board, err := services.GetClientDashboard(h.DB, middleware.CallerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(board)
}
