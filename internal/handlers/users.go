// users.go
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
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"gorm.io/gorm"
)

// UserHandler handles firm user routes
type UserHandler struct {
	DB *gorm.DB
}

// List handles GET /api/users
// @Summary List firm users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter"
// @Success 200 {array} services.UserView
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := services.ListFirmUsers(h.DB, middleware.CallerFrom(c), c.Query("role"))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// Create handles POST /api/users
// @Summary Create a firm user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UserInput true "User"
// @Success 201 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := services.CreateFirmUser(h.DB, middleware.CallerFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdatePermissions handles PATCH /api/users/:id/permissions
// @Summary Change a staff member's capability flags
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body models.PermissionsPatch true "Flags to change"
// @Success 200 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id}/permissions [patch]
func (h *UserHandler) UpdatePermissions(c *fiber.Ctx) error {
	var patch models.PermissionsPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	user, err := services.UpdatePermissions(h.DB, middleware.CallerFrom(c), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/users/:id
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body services.ProfileInput true "Profile"
// @Success 200 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /users/{id} [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in services.ProfileInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := services.UpdateProfile(h.DB, middleware.CallerFrom(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
