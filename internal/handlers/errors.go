// errors.go
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
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/practice-portal/internal/types"
	"github.com/localnerve/practice-portal/internal/utils"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders every returned error as the standard error envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	if ce, ok := types.AsCustomError(err); ok {
		if ce.Code >= fiber.StatusInternalServerError {
			log.Error().Str("url", c.OriginalURL()).Msg(ce.Message)
		}
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.ErrorResponse(c, fe.Message, fe.Code, fiberErrorType(fe.Code))
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("url", c.OriginalURL()).
		Msg("unhandled request error")
	return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, types.TypeInternal)
}

func fiberErrorType(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return types.TypeNotFound
	case fiber.StatusUnauthorized:
		return types.TypeUnauthorized
	case fiber.StatusForbidden:
		return types.TypeForbidden
	case fiber.StatusRequestEntityTooLarge:
		return "tooLarge"
	case fiber.StatusTooManyRequests:
		return "rateLimit"
	}
	if code >= fiber.StatusInternalServerError {
		return types.TypeInternal
	}
	return types.TypeValidation
}

// NotFound renders the envelope for unmatched routes
func NotFound(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "[404] Resource Not Found", fiber.StatusNotFound, types.TypeNotFound)
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return types.Validation("Invalid request body")
	}
	return nil
}
