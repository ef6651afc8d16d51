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

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

const callerKey = "caller"

// Authenticate resolves the bearer token into a caller and stores it for the request
func Authenticate(auth *services.Auth, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return types.Unauthorized("Missing authorization header")
		}

		caller, err := auth.Authenticate(db, strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// CallerFrom returns the caller stored by Authenticate
func CallerFrom(c *fiber.Ctx) access.Caller {
	caller, _ := c.Locals(callerKey).(access.Caller)
	return caller
}

// RequireRoles rejects callers whose role is not in roles
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFrom(c)
		if caller.UserID == "" {
			return types.Unauthorized("Not authenticated")
		}
		if !caller.HasRole(roles...) {
			return types.Forbidden("Forbidden")
		}
		return c.Next()
	}
}

// RequireFirm rejects callers without a firm
func RequireFirm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := CallerFrom(c).RequireFirm(); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireCapability rejects CA_STAFF callers that lack the flag
func RequireCapability(capability access.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CallerFrom(c).Can(capability) {
			return types.Forbidden("Missing permission: " + string(capability))
		}
		return c.Next()
	}
}
