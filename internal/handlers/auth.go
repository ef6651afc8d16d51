// auth.go
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
	"github.com/localnerve/practice-portal/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles session routes
type AuthHandler struct {
	DB   *gorm.DB
	Auth *services.Auth
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the token refresh body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the password change body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Exchange email and password for an access and refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} services.Session
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return types.Validation("Email and password are required")
	}

	session, err := h.Auth.Login(h.DB, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Refresh handles POST /api/auth/refresh
// @Summary Refresh a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} services.Session
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return types.Validation("refreshToken is required")
	}

	session, err := h.Auth.Refresh(h.DB, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.UserView
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := services.CurrentUser(h.DB, middleware.CallerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// ChangePassword handles POST /api/auth/change-password
// @Summary Change own password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Passwords"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := services.ChangePassword(h.DB, middleware.CallerFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Password updated")
}
