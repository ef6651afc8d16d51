// task_service.go
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

package services

import (
	"strings"
	"time"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// TaskFilter narrows a task listing
type TaskFilter struct {
	Status   string
	ClientID string
}

// TaskInput is the body of a task create request
type TaskInput struct {
	ClientID         string         `json:"clientId"`
	ComplianceTypeID string         `json:"complianceTypeId"`
	PeriodStart      types.FlexTime `json:"periodStart"`
	PeriodEnd        types.FlexTime `json:"periodEnd"`
	DueDate          types.FlexTime `json:"dueDate"`
	AssignedToUserID *string        `json:"assignedToUserId"`
}

// TaskOptions carries lifecycle settings
type TaskOptions struct {
	StrictTransitions bool
}

func taskQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("ComplianceType").
		Preload("Client", clientRefColumns).
		Preload("AssignedTo", userRefColumns).
		Preload("CreatedBy", userRefColumns)
}

// ListComplianceTypes returns the compliance catalog ordered by name
func ListComplianceTypes(db *gorm.DB) ([]models.ComplianceType, error) {
	list := []models.ComplianceType{}
	err := db.Order("display_name ASC").Find(&list).Error
	return list, err
}

// ListTasks returns tasks in the caller's scope ordered by due date.
// CLIENT callers always see only their own client, whatever filter they send.
func ListTasks(db *gorm.DB, caller access.Caller, filter TaskFilter) ([]models.ComplianceTask, error) {
	q := taskQuery(tenantWhere(db, caller))
	if !caller.IsClient() && filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		status, err := access.ParseTaskStatus(strings.ToUpper(filter.Status))
		if err != nil {
			return nil, err
		}
		q = q.Where("status = ?", status)
	}
	tasks := []models.ComplianceTask{}
	err := q.Order("due_date ASC").Find(&tasks).Error
	return tasks, err
}

// GetTask returns a task with its relations and ordered comments
func GetTask(db *gorm.DB, caller access.Caller, id string) (*models.ComplianceTask, error) {
	var task models.ComplianceTask
	q := taskQuery(tenantWhere(db, caller)).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author", userRefColumns).
		Where("id = ?", id)
	if err := firstOrNotFound(q, &task, "Task not found"); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task and its SYSTEM calendar entry, and notifies the assignee
func CreateTask(db *gorm.DB, caller access.Caller, in TaskInput) (*models.ComplianceTask, error) {
	if in.ClientID == "" || in.ComplianceTypeID == "" || in.PeriodStart.IsZero() || in.PeriodEnd.IsZero() || in.DueDate.IsZero() {
		return nil, types.Validation("clientId, complianceTypeId, periodStart, periodEnd, and dueDate are required")
	}
	if in.PeriodEnd.Time().Before(in.PeriodStart.Time()) {
		return nil, types.Validation("periodEnd must not be before periodStart")
	}

	client, err := requireClientInFirm(db, caller, in.ClientID)
	if err != nil {
		return nil, err
	}

	var ct models.ComplianceType
	if err := firstOrNotFound(db.Where("id = ?", in.ComplianceTypeID), &ct, "Compliance type not found"); err != nil {
		return nil, err
	}

	assignee := optionalString(in.AssignedToUserID)
	if assignee != nil {
		if err := requireAssignable(db, caller, *assignee); err != nil {
			return nil, err
		}
	}

	task := &models.ComplianceTask{
		FirmID:           caller.FirmID,
		ClientID:         client.ID,
		ComplianceTypeID: ct.ID,
		PeriodStart:      in.PeriodStart.Time(),
		PeriodEnd:        in.PeriodEnd.Time(),
		DueDate:          in.DueDate.Time(),
		Status:           models.TaskPending,
		AssignedToUserID: assignee,
		CreatedByUserID:  caller.UserID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		event := &models.CalendarEvent{
			FirmID:        task.FirmID,
			ClientID:      &task.ClientID,
			Title:         ct.DisplayName + " due: " + client.DisplayName,
			StartAt:       task.DueDate,
			EndAt:         task.DueDate.Add(time.Hour),
			Source:        models.EventSystem,
			RelatedTaskID: &task.ID,
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		if assignee != nil {
			return Notify(tx, []string{*assignee}, models.NotifyTaskAssigned, taskPayload(task, &ct, client))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetTask(db, caller, task.ID)
}

// UpdateTaskStatus moves a task through the lifecycle. Filing notifies the client.
func UpdateTaskStatus(db *gorm.DB, caller access.Caller, id, status string, opts TaskOptions) (*models.ComplianceTask, error) {
	next, err := access.ParseTaskStatus(strings.ToUpper(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}

	task, err := GetTask(db, caller, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckTaskTransition(task.Status, next, opts.StrictTransitions); err != nil {
		return nil, err
	}
	if task.Status == next {
		return task, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ComplianceTask{}).Where("id = ?", task.ID).Update("status", next).Error; err != nil {
			return err
		}
		if next != models.TaskFiled {
			return nil
		}
		var client models.Client
		if err := tx.Where("id = ?", task.ClientID).First(&client).Error; err != nil {
			return err
		}
		payload := taskPayload(task, task.ComplianceType, &client)
		payload["status"] = next
		return Notify(tx, []string{client.PrimaryUserID}, models.NotifyFilingCompleted, payload)
	})
	if err != nil {
		return nil, err
	}

	return GetTask(db, caller, task.ID)
}

// AssignTask sets or clears the assignee of a task
func AssignTask(db *gorm.DB, caller access.Caller, id string, userID *string) (*models.ComplianceTask, error) {
	task, err := GetTask(db, caller, id)
	if err != nil {
		return nil, err
	}

	assignee := optionalString(userID)
	if assignee != nil {
		if err := requireAssignable(db, caller, *assignee); err != nil {
			return nil, err
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ComplianceTask{}).Where("id = ?", task.ID).Update("assigned_to_user_id", assignee).Error; err != nil {
			return err
		}
		if assignee == nil || (task.AssignedToUserID != nil && *task.AssignedToUserID == *assignee) {
			return nil
		}
		var client models.Client
		if err := tx.Where("id = ?", task.ClientID).First(&client).Error; err != nil {
			return err
		}
		return Notify(tx, []string{*assignee}, models.NotifyTaskAssigned, taskPayload(task, task.ComplianceType, &client))
	})
	if err != nil {
		return nil, err
	}

	return GetTask(db, caller, task.ID)
}

// AddComment appends an immutable comment to a task the caller can reach
func AddComment(db *gorm.DB, caller access.Caller, id, message string) (*models.TaskComment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, types.Validation("Comment message is required")
	}

	var task models.ComplianceTask
	if err := firstOrNotFound(tenantWhere(db, caller).Where("id = ?", id), &task, "Task not found"); err != nil {
		return nil, err
	}

	comment := &models.TaskComment{TaskID: task.ID, AuthorUserID: caller.UserID, Message: message}
	if err := db.Create(comment).Error; err != nil {
		return nil, err
	}

	var created models.TaskComment
	if err := db.Preload("Author", userRefColumns).Where("id = ?", comment.ID).First(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// requireAssignable checks that userID is an active CA user of the caller's firm
func requireAssignable(db *gorm.DB, caller access.Caller, userID string) error {
	var count int64
	err := db.Model(&models.User{}).
		Where("id = ? AND firm_id = ? AND status = ? AND role IN ?", userID, caller.FirmID, models.UserStatusActive,
			[]models.Role{models.RoleCAAdmin, models.RoleCAStaff}).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return types.Validation("Assignee must be an active CA user of this firm")
	}
	return nil
}

func taskPayload(task *models.ComplianceTask, ct *models.ComplianceType, client *models.Client) map[string]interface{} {
	payload := map[string]interface{}{
		"taskId":   task.ID,
		"clientId": task.ClientID,
		"dueDate":  task.DueDate,
	}
	if ct != nil {
		payload["complianceType"] = ct.DisplayName
	}
	if client != nil {
		payload["clientName"] = client.DisplayName
	}
	return payload
}
