// user.go
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

package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a platform or firm role
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleCAAdmin    Role = "CA_ADMIN"
	RoleCAStaff    Role = "CA_STAFF"
	RoleClient     Role = "CLIENT"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCAAdmin, RoleCAStaff, RoleClient:
		return true
	}
	return false
}

// UserStatus gates whether a user may authenticate
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

// Permissions holds the six capability flags of a user
type Permissions struct {
	CanViewClients     bool `gorm:"not null;default:false" json:"canViewClients"`
	CanEditClients     bool `gorm:"not null;default:false" json:"canEditClients"`
	CanAccessDocuments bool `gorm:"not null;default:false" json:"canAccessDocuments"`
	CanAccessTasks     bool `gorm:"not null;default:false" json:"canAccessTasks"`
	CanAccessCalendar  bool `gorm:"not null;default:false" json:"canAccessCalendar"`
	CanAccessChat      bool `gorm:"not null;default:false" json:"canAccessChat"`
}

// AllPermissions returns every flag set
func AllPermissions() Permissions {
	return Permissions{
		CanViewClients:     true,
		CanEditClients:     true,
		CanAccessDocuments: true,
		CanAccessTasks:     true,
		CanAccessCalendar:  true,
		CanAccessChat:      true,
	}
}

// User is a login identity. SUPER_ADMIN users have no firm.
type User struct {
	ID           string     `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         Role       `gorm:"size:32;not null;index" json:"role"`
	FirmID       *string    `gorm:"type:char(36);index" json:"firmId"`
	Status       UserStatus `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	Permissions  `gorm:"embedded"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Firm *Firm `gorm:"foreignKey:FirmID;-:migration" json:"-"`
}

// BeforeCreate assigns the primary key and enforces the role invariants
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	u.normalize()
	return nil
}

// normalize applies the role invariants: SUPER_ADMIN is firm-less with no flags,
// CA_ADMIN carries every flag.
func (u *User) normalize() {
	switch u.Role {
	case RoleSuperAdmin:
		u.FirmID = nil
		u.Permissions = Permissions{}
	case RoleCAAdmin:
		u.Permissions = AllPermissions()
	}
}

// IsActive reports whether the user may authenticate
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// Has reports whether the named flag is set
func (p Permissions) Has(flag string) bool {
	switch flag {
	case "canViewClients":
		return p.CanViewClients
	case "canEditClients":
		return p.CanEditClients
	case "canAccessDocuments":
		return p.CanAccessDocuments
	case "canAccessTasks":
		return p.CanAccessTasks
	case "canAccessCalendar":
		return p.CanAccessCalendar
	case "canAccessChat":
		return p.CanAccessChat
	}
	return false
}

// PermissionsPatch is a partial update of capability flags
type PermissionsPatch struct {
	CanViewClients     *bool `json:"canViewClients"`
	CanEditClients     *bool `json:"canEditClients"`
	CanAccessDocuments *bool `json:"canAccessDocuments"`
	CanAccessTasks     *bool `json:"canAccessTasks"`
	CanAccessCalendar  *bool `json:"canAccessCalendar"`
	CanAccessChat      *bool `json:"canAccessChat"`
}

// Apply returns p with the supplied flags overwritten
func (patch PermissionsPatch) Apply(p Permissions) Permissions {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.CanViewClients, patch.CanViewClients)
	set(&p.CanEditClients, patch.CanEditClients)
	set(&p.CanAccessDocuments, patch.CanAccessDocuments)
	set(&p.CanAccessTasks, patch.CanAccessTasks)
	set(&p.CanAccessCalendar, patch.CanAccessCalendar)
	set(&p.CanAccessChat, patch.CanAccessChat)
	return p
}
