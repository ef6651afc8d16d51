// compliance.go
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

// Frequency is how often a compliance obligation recurs
type Frequency string

const (
	FrequencyAnnual    Frequency = "ANNUAL"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
)

// TaskStatus is the filing lifecycle state of a compliance task
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskFiled      TaskStatus = "FILED"
	TaskApproved   TaskStatus = "APPROVED"
)

// TaskStatuses lists the lifecycle in order
var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskFiled, TaskApproved}

// ComplianceType is reference data describing a filing obligation
type ComplianceType struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Code        string    `gorm:"size:64;not null;uniqueIndex" json:"code"`
	DisplayName string    `gorm:"size:255;not null" json:"displayName"`
	Frequency   Frequency `gorm:"size:16;not null" json:"frequency"`
	Meta        JSON      `json:"meta"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the primary key
func (t *ComplianceType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

// TableName overrides the table name for ComplianceType
func (ComplianceType) TableName() string {
	return "compliance_types"
}

// ComplianceTask is a trackable filing for one client and period
type ComplianceTask struct {
	ID               string     `gorm:"type:char(36);primaryKey" json:"id"`
	FirmID           string     `gorm:"type:char(36);not null;index" json:"firmId"`
	ClientID         string     `gorm:"type:char(36);not null;index" json:"clientId"`
	ComplianceTypeID string     `gorm:"type:char(36);not null;index" json:"complianceTypeId"`
	PeriodStart      time.Time  `gorm:"not null" json:"periodStart"`
	PeriodEnd        time.Time  `gorm:"not null" json:"periodEnd"`
	DueDate          time.Time  `gorm:"not null;index" json:"dueDate"`
	Status           TaskStatus `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	AssignedToUserID *string    `gorm:"type:char(36);index" json:"assignedToUserId"`
	CreatedByUserID  string     `gorm:"type:char(36);not null" json:"createdByUserId"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	ComplianceType *ComplianceType `gorm:"foreignKey:ComplianceTypeID;-:migration" json:"complianceType,omitempty"`
	Client         *ClientRef      `gorm:"foreignKey:ClientID;-:migration" json:"client,omitempty"`
	AssignedTo     *UserRef        `gorm:"foreignKey:AssignedToUserID;-:migration" json:"assignedTo,omitempty"`
	CreatedBy      *UserRef        `gorm:"foreignKey:CreatedByUserID;-:migration" json:"createdBy,omitempty"`
	Comments       []TaskComment   `gorm:"foreignKey:TaskID;-:migration" json:"comments,omitempty"`
}

// BeforeCreate assigns the primary key
func (t *ComplianceTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Status == "" {
		t.Status = TaskPending
	}
	return nil
}

// TableName overrides the table name for ComplianceTask
func (ComplianceTask) TableName() string {
	return "compliance_tasks"
}

// TaskComment is an immutable note appended to a task
type TaskComment struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	TaskID       string    `gorm:"type:char(36);not null;index" json:"taskId"`
	AuthorUserID string    `gorm:"type:char(36);not null" json:"authorUserId"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`

	Author *UserRef `gorm:"foreignKey:AuthorUserID;-:migration" json:"author,omitempty"`
}

// BeforeCreate assigns the primary key
func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}

// TableName overrides the table name for TaskComment
func (TaskComment) TableName() string {
	return "task_comments"
}
