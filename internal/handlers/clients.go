// clients.go
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

// ClientHandler handles client routes
type ClientHandler struct {
	DB *gorm.DB
}

// List handles GET /api/clients
// @Summary List clients
// @Description Clients of the caller's firm. A client user sees only its own record.
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Client
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := services.ListClients(h.DB, middleware.CallerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(clients)
}

// Get handles GET /api/clients/:id
// @Summary Get a client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} models.Client
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	client, err := services.GetClient(h.DB, middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// Create handles POST /api/clients
// @Summary Create a client
// @Description Creates the client and its login user in one transaction
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ClientInput true "Client"
// @Success 201 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in services.ClientInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	client, err := services.CreateClient(h.DB, middleware.CallerFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// Update handles PUT /api/clients/:id
// @Summary Update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param body body services.ClientInput true "Fields to change"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in services.ClientInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	client, err := services.UpdateClient(h.DB, middleware.CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(client)
}
