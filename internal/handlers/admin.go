// admin.go
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
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"gorm.io/gorm"
)

// AdminHandler handles platform administration routes
type AdminHandler struct {
	DB *gorm.DB
}

// PasswordRequest carries a replacement password
type PasswordRequest struct {
	Password string `json:"password"`
}

// ListFirms handles GET /api/admin/firms
// @Summary List firms with their admins
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.FirmView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/firms [get]
func (h *AdminHandler) ListFirms(c *fiber.Ctx) error {
	firms, err := services.ListFirms(h.DB)
	if err != nil {
		return err
	}
	return c.JSON(firms)
}

// CreateFirm handles POST /api/admin/firms
// @Summary Create a firm
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FirmInput true "Firm"
// @Success 201 {object} models.Firm
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /admin/firms [post]
func (h *AdminHandler) CreateFirm(c *fiber.Ctx) error {
	var in services.FirmInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	firm, err := services.CreateFirm(h.DB, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(firm)
}

// ListUsers handles GET /api/admin/firms/:firmId/users
// @Summary List users of a firm
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param firmId path string true "Firm ID"
// @Success 200 {array} services.UserView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/firms/{firmId}/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := services.ListUsersInFirm(h.DB, c.Params("firmId"))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// CreateUser handles POST /api/admin/firms/:firmId/users
// @Summary Create a user in a firm
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param firmId path string true "Firm ID"
// @Param body body services.UserInput true "User"
// @Success 201 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/firms/{firmId}/users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := services.CreateUserInFirm(h.DB, c.Params("firmId"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdatePermissions handles PATCH /api/admin/users/:id/permissions
// @Summary Change any user's capability flags
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body models.PermissionsPatch true "Flags to change"
// @Success 200 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/users/{id}/permissions [patch]
func (h *AdminHandler) UpdatePermissions(c *fiber.Ctx) error {
	var patch models.PermissionsPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	user, err := services.AdminUpdatePermissions(h.DB, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// ResetPassword handles PATCH /api/admin/users/:id/password
// @Summary Reset a user's password
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body PasswordRequest true "Password"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/users/{id}/password [patch]
func (h *AdminHandler) ResetPassword(c *fiber.Ctx) error {
	var req PasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := services.ResetPassword(h.DB, c.Params("id"), req.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetStatus handles PATCH /api/admin/users/:id/status
// @Summary Enable or disable a user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body StatusRequest true "ACTIVE or DISABLED"
// @Success 200 {object} services.UserView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/users/{id}/status [patch]
func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := services.SetUserStatus(h.DB, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
