// calendar_service.go
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

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// EventFilter narrows an event listing. Zero times are open bounds.
type EventFilter struct {
	StartDate types.FlexTime
	EndDate   types.FlexTime
	ClientID  string
}

// EventInput is the body of an event create request
type EventInput struct {
	ClientID      *string        `json:"clientId"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	StartAt       types.FlexTime `json:"startAt"`
	EndAt         types.FlexTime `json:"endAt"`
	RelatedTaskID *string        `json:"relatedTaskId"`
}

// ListEvents returns events in the caller's scope ordered by start time
func ListEvents(db *gorm.DB, caller access.Caller, filter EventFilter) ([]models.CalendarEvent, error) {
	q := tenantWhere(db, caller).Preload("Client", clientRefColumns)
	if !caller.IsClient() && filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if !filter.StartDate.IsZero() {
		q = q.Where("start_at >= ?", filter.StartDate.Time())
	}
	if !filter.EndDate.IsZero() {
		q = q.Where("start_at <= ?", filter.EndDate.Time())
	}
	events := []models.CalendarEvent{}
	err := q.Order("start_at ASC").Find(&events).Error
	return events, err
}

// CreateEvent adds a MANUAL event to the caller's firm calendar
func CreateEvent(db *gorm.DB, caller access.Caller, in EventInput) (*models.CalendarEvent, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.StartAt.IsZero() || in.EndAt.IsZero() {
		return nil, types.Validation("title, startAt, and endAt are required")
	}
	if in.EndAt.Time().Before(in.StartAt.Time()) {
		return nil, types.Validation("endAt must not be before startAt")
	}

	clientID := optionalString(in.ClientID)
	if clientID != nil {
		if _, err := requireClientInFirm(db, caller, *clientID); err != nil {
			return nil, err
		}
	}
	taskID := optionalString(in.RelatedTaskID)
	if taskID != nil {
		var count int64
		if err := db.Model(&models.ComplianceTask{}).Where("id = ? AND firm_id = ?", *taskID, caller.FirmID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, types.NotFound("Task not found")
		}
	}

	event := &models.CalendarEvent{
		FirmID:        caller.FirmID,
		ClientID:      clientID,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		StartAt:       in.StartAt.Time(),
		EndAt:         in.EndAt.Time(),
		Source:        models.EventManual,
		RelatedTaskID: taskID,
	}
	if err := db.Create(event).Error; err != nil {
		return nil, err
	}

	var created models.CalendarEvent
	if err := db.Preload("Client", clientRefColumns).Where("id = ?", event.ID).First(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteEvent removes a MANUAL event. SYSTEM events cannot be deleted.
func DeleteEvent(db *gorm.DB, caller access.Caller, id string) error {
	var event models.CalendarEvent
	if err := firstOrNotFound(tenantWhere(db, caller).Where("id = ?", id), &event, "Event not found"); err != nil {
		return err
	}
	if event.Source != models.EventManual {
		return types.Forbidden("System events cannot be deleted")
	}
	return db.Delete(&models.CalendarEvent{}, "id = ? AND source = ?", event.ID, models.EventManual).Error
}
