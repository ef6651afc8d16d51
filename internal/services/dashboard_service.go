// dashboard_service.go
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
	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// UpcomingWindowDays is the horizon for upcoming deadlines on the firm dashboard
const UpcomingWindowDays = 30

const dashboardListSize = 5

var openStatuses = []models.TaskStatus{models.TaskPending, models.TaskInProgress}

// FirmStats are the counters on the firm dashboard
type FirmStats struct {
	PendingClients    int64 `json:"pendingClients"`
	UpcomingDeadlines int64 `json:"upcomingDeadlines"`
	PendingTasks      int64 `json:"pendingTasks"`
}

// FirmDashboard is the CA landing page
type FirmDashboard struct {
	Stats         FirmStats               `json:"stats"`
	RecentTasks   []models.ComplianceTask `json:"recentTasks"`
	Notifications []models.Notification   `json:"notifications"`
}

// FilingStatus counts a client's tasks by state
type FilingStatus struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Filed      int64 `json:"filed"`
}

// ClientStats are the counters on the client dashboard
type ClientStats struct {
	PendingTasks      int64        `json:"pendingTasks"`
	UploadedDocuments int64        `json:"uploadedDocuments"`
	FilingStatus      FilingStatus `json:"filingStatus"`
}

// ClientDashboard is the CLIENT landing page
type ClientDashboard struct {
	Stats         ClientStats             `json:"stats"`
	RecentTasks   []models.ComplianceTask `json:"recentTasks"`
	Notifications []models.Notification   `json:"notifications"`
}

// GetFirmDashboard summarizes the caller's firm
func GetFirmDashboard(db *gorm.DB, caller access.Caller) (*FirmDashboard, error) {
	d := &FirmDashboard{}
	tasks := func() *gorm.DB {
		return scoped(db, caller).Model(&models.ComplianceTask{}).Where("firm_id = ?", caller.FirmID)
	}

	err := tasks().Where("status IN ?", openStatuses).
		Distinct("client_id").Count(&d.Stats.PendingClients).Error
	if err != nil {
		return nil, err
	}

	start := now()
	until := start.AddDate(0, 0, UpcomingWindowDays)
	err = tasks().Where("status IN ? AND due_date >= ? AND due_date <= ?", openStatuses, start, until).
		Count(&d.Stats.UpcomingDeadlines).Error
	if err != nil {
		return nil, err
	}

	if err := tasks().Where("status IN ?", openStatuses).Count(&d.Stats.PendingTasks).Error; err != nil {
		return nil, err
	}

	d.RecentTasks = []models.ComplianceTask{}
	if err := taskQuery(tenantWhere(db, caller)).Order("due_date ASC").Limit(dashboardListSize).Find(&d.RecentTasks).Error; err != nil {
		return nil, err
	}

	d.Notifications, err = latestNotifications(db, caller)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetClientDashboard summarizes the caller's own client
func GetClientDashboard(db *gorm.DB, caller access.Caller) (*ClientDashboard, error) {
	if caller.ClientID == "" {
		return nil, types.Validation("Client context required")
	}
	d := &ClientDashboard{}
	tasks := func() *gorm.DB {
		return tenantWhere(db, caller).Model(&models.ComplianceTask{})
	}

	if err := tasks().Where("status IN ?", openStatuses).Count(&d.Stats.PendingTasks).Error; err != nil {
		return nil, err
	}
	err := tenantWhere(db, caller).Model(&models.Document{}).
		Where("status = ?", models.DocumentUploaded).
		Count(&d.Stats.UploadedDocuments).Error
	if err != nil {
		return nil, err
	}

	counts := []struct {
		status models.TaskStatus
		dest   *int64
	}{
		{models.TaskPending, &d.Stats.FilingStatus.Pending},
		{models.TaskInProgress, &d.Stats.FilingStatus.InProgress},
		{models.TaskFiled, &d.Stats.FilingStatus.Filed},
	}
	for _, c := range counts {
		if err := tasks().Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	d.RecentTasks = []models.ComplianceTask{}
	if err := taskQuery(tenantWhere(db, caller)).Order("due_date ASC").Limit(dashboardListSize).Find(&d.RecentTasks).Error; err != nil {
		return nil, err
	}

	d.Notifications, err = latestNotifications(db, caller)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func latestNotifications(db *gorm.DB, caller access.Caller) ([]models.Notification, error) {
	list := []models.Notification{}
	err := db.Where("user_id = ?", caller.UserID).Order("created_at DESC").Limit(dashboardListSize).Find(&list).Error
	return list, err
}
