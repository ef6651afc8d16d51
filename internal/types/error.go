// error.go
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

package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types carried in the response envelope
const (
	TypeValidation   = "validation"
	TypeUnauthorized = "unauthorized"
	TypeForbidden    = "forbidden"
	TypeNotFound     = "notFound"
	TypeConflict     = "conflict"
	TypeInternal     = "internal"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Validation reports missing or malformed input, or a missing caller context
func Validation(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeValidation}
}

// Unauthorized reports missing, invalid or expired credentials
func Unauthorized(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: TypeUnauthorized}
}

// Forbidden reports an authenticated caller without the required role or capability
func Forbidden(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeForbidden}
}

// NotFound covers both absent rows and rows outside the caller's tenant.
func NotFound(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeNotFound}
}

// Conflict reports a duplicate unique key. It is surfaced as 400 with a specific message.
func Conflict(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeConflict}
}

// Internal reports an unexpected failure without leaking its cause
func Internal(message string) *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: message, Type: TypeInternal}
}

// AsCustomError unwraps err into a *CustomError when one is in the chain
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsType reports whether err carries a CustomError of the given type
func IsType(err error, errorType string) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Type == errorType
}
