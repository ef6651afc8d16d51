// notification_service.go
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
	"fmt"
	"time"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// NotificationListLimit caps notification listings
const NotificationListLimit = 50

// Notify inserts one notification per distinct recipient using tx
func Notify(tx *gorm.DB, userIDs []string, kind models.NotificationType, payload map[string]interface{}) error {
	seen := make(map[string]struct{}, len(userIDs))
	rows := make([]models.Notification, 0, len(userIDs))

	body, err := models.NewJSON(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.Notification{UserID: id, Type: kind, Payload: body})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// firmAdminIDs returns the active CA_ADMIN users of a firm
func firmAdminIDs(tx *gorm.DB, firmID string) ([]string, error) {
	var ids []string
	err := tx.Model(&models.User{}).
		Where("firm_id = ? AND role = ? AND status = ?", firmID, models.RoleCAAdmin, models.UserStatusActive).
		Pluck("id", &ids).Error
	return ids, err
}

// ListNotifications returns the caller's notifications, newest first
func ListNotifications(db *gorm.DB, caller access.Caller, unreadOnly bool) ([]models.Notification, error) {
	q := db.Where("user_id = ?", caller.UserID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	notifications := []models.Notification{}
	err := q.Order("created_at DESC").Limit(NotificationListLimit).Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead marks one of the caller's notifications read
func MarkNotificationRead(db *gorm.DB, caller access.Caller, id string) error {
	var n models.Notification
	if err := firstOrNotFound(db.Where("id = ? AND user_id = ?", id, caller.UserID), &n, "Notification not found"); err != nil {
		return err
	}
	if n.ReadAt != nil {
		return nil
	}
	return db.Model(&n).Update("read_at", now()).Error
}

// MarkAllNotificationsRead marks every unread notification of the caller read
func MarkAllNotificationsRead(db *gorm.DB, caller access.Caller) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", caller.UserID).
		Update("read_at", now())
	return res.RowsAffected, res.Error
}

// ReminderRun summarizes a deadline reminder pass
type ReminderRun struct {
	TasksDue int `json:"tasksDue"`
	Sent     int `json:"sent"`
}

// SendDeadlineReminders notifies assignees, or firm admins of unassigned tasks, about open
// tasks due between at and at+windowDays. A task is reminded at most once per day.
func SendDeadlineReminders(db *gorm.DB, at time.Time, windowDays int) (*ReminderRun, error) {
	at = at.UTC()
	day := at.Format("2006-01-02")
	until := at.AddDate(0, 0, windowDays)

	var tasks []models.ComplianceTask
	err := db.Preload("ComplianceType").Preload("Client", clientRefColumns).
		Where("status IN ? AND due_date >= ? AND due_date <= ?",
			[]models.TaskStatus{models.TaskPending, models.TaskInProgress}, at, until).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	run := &ReminderRun{TasksDue: len(tasks)}
	for i := range tasks {
		task := &tasks[i]
		sent, err := remindTask(db, task, day)
		if err != nil {
			log.Error().Err(err).Str("task", task.ID).Msg("failed to send deadline reminder")
			continue
		}
		run.Sent += sent
	}
	return run, nil
}

func remindTask(db *gorm.DB, task *models.ComplianceTask, day string) (int, error) {
	sent := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var recipients []string
		if task.AssignedToUserID != nil {
			recipients = []string{*task.AssignedToUserID}
		} else {
			ids, err := firmAdminIDs(tx, task.FirmID)
			if err != nil {
				return err
			}
			recipients = ids
		}

		already, err := remindedToday(tx, recipients, reminderKey(task.ID, day), dayStart(day))
		if err != nil {
			return err
		}
		var pending []string
		for _, userID := range recipients {
			if _, ok := already[userID]; !ok {
				pending = append(pending, userID)
			}
		}

		payload := map[string]interface{}{
			"taskId":      task.ID,
			"clientId":    task.ClientID,
			"dueDate":     task.DueDate,
			"reminderKey": reminderKey(task.ID, day),
		}
		if task.ComplianceType != nil {
			payload["complianceType"] = task.ComplianceType.DisplayName
		}
		if task.Client != nil {
			payload["clientName"] = task.Client.DisplayName
		}
		if err := Notify(tx, pending, models.NotifyDeadlineReminder, payload); err != nil {
			return err
		}
		sent = len(pending)
		return nil
	})
	return sent, err
}

func reminderKey(taskID, day string) string {
	return taskID + "@" + day
}

func dayStart(day string) time.Time {
	t, _ := time.Parse("2006-01-02", day)
	return t
}

// remindedToday returns the recipients that already hold a reminder with key since start
func remindedToday(tx *gorm.DB, userIDs []string, key string, start time.Time) (map[string]struct{}, error) {
	done := make(map[string]struct{})
	if len(userIDs) == 0 {
		return done, nil
	}
	var existing []models.Notification
	err := tx.Where("user_id IN ? AND type = ? AND created_at >= ?", userIDs, models.NotifyDeadlineReminder, start).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	for _, n := range existing {
		var payload struct {
			ReminderKey string `json:"reminderKey"`
		}
		if err := n.Payload.Decode(&payload); err != nil {
			continue
		}
		if payload.ReminderKey == key {
			done[n.UserID] = struct{}{}
		}
	}
	return done, nil
}
