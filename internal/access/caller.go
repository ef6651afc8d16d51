// caller.go
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

// Package access holds the caller context and the rules deciding what a caller may reach.
package access

import (
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
)

// Capability names one of the per-user feature flags
type Capability string

const (
	CapViewClients Capability = "canViewClients"
	CapEditClients Capability = "canEditClients"
	CapDocuments   Capability = "canAccessDocuments"
	CapTasks       Capability = "canAccessTasks"
	CapCalendar    Capability = "canAccessCalendar"
	CapChat        Capability = "canAccessChat"
)

// Caller is the resolved identity of the user making a request.
// It is built once per request from a fresh user row and passed explicitly to services.
type Caller struct {
	UserID       string
	Name         string
	Email        string
	Role         models.Role
	FirmID       string
	ClientID     string
	Capabilities models.Permissions
}

// NewCaller builds a caller from a user row and its linked client id, if any
func NewCaller(u *models.User, clientID string) Caller {
	c := Caller{
		UserID:       u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		ClientID:     clientID,
		Capabilities: u.Permissions,
	}
	if u.FirmID != nil {
		c.FirmID = *u.FirmID
	}
	return c
}

// IsCA reports whether the caller is firm staff
func (c Caller) IsCA() bool {
	return c.Role == models.RoleCAAdmin || c.Role == models.RoleCAStaff
}

// IsClient reports whether the caller logs in as a client
func (c Caller) IsClient() bool {
	return c.Role == models.RoleClient
}

// HasRole reports whether the caller's role is one of roles
func (c Caller) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// Can reports whether the caller holds a capability.
// CA_ADMIN holds every capability. CLIENT callers are limited by client scoping
// rather than flags, so they pass here. SUPER_ADMIN holds none.
func (c Caller) Can(capability Capability) bool {
	switch c.Role {
	case models.RoleCAAdmin, models.RoleClient:
		return true
	case models.RoleCAStaff:
		return c.Capabilities.Has(string(capability))
	}
	return false
}

// RequireFirm fails when the caller has no firm context
func (c Caller) RequireFirm() error {
	if c.FirmID == "" {
		return types.Validation("Firm context required")
	}
	return nil
}

// ClientScope returns the client a CLIENT caller is pinned to, or requested otherwise
func (c Caller) ClientScope(requested string) string {
	if c.IsClient() {
		return c.ClientID
	}
	return requested
}

// OwnsClient reports whether a row with the given firm and client is inside the caller's scope
func (c Caller) OwnsClient(firmID, clientID string) bool {
	if c.FirmID == "" || firmID != c.FirmID {
		return false
	}
	if c.IsClient() {
		return clientID != "" && clientID == c.ClientID
	}
	return true
}
