// tasks_test.go
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

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/localnerve/practice-portal/internal/handlers"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestTaskWorkflow(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	ct := testutil.CreateComplianceType(t, h.db, "GSTR_3B")
	token := h.token(ten.admin)

	resp := h.request("GET", "/api/tasks/compliance-types", h.token(ten.clientUser), nil)
	AssertStatus(t, resp, http.StatusOK)
	var catalog []models.ComplianceType
	ParseJSON(t, resp, &catalog)
	require.Len(t, catalog, 1)

	resp = h.request("POST", "/api/tasks", token, map[string]interface{}{
		"clientId":         ten.client.ID,
		"complianceTypeId": ct.ID,
		"periodStart":      "2025-04-01",
		"periodEnd":        "2025-04-30",
		"dueDate":          "2025-05-20",
	})
	AssertStatus(t, resp, http.StatusCreated)
	var task models.ComplianceTask
	ParseJSON(t, resp, &task)
	require.Equal(t, models.TaskPending, task.Status)

	resp = h.request("PATCH", "/api/tasks/"+task.ID+"/assign", token, handlers.AssignRequest{AssignedToUserID: &ten.staff.ID})
	AssertStatus(t, resp, http.StatusOK)
	var assigned models.ComplianceTask
	ParseJSON(t, resp, &assigned)
	require.NotNil(t, assigned.AssignedToUserID)
	require.Equal(t, ten.staff.ID, *assigned.AssignedToUserID)

	staffToken := h.token(ten.staff)
	resp = h.request("PATCH", "/api/tasks/"+task.ID+"/status", staffToken, handlers.StatusRequest{Status: "in_progress"})
	AssertStatus(t, resp, http.StatusOK)
	var progressed models.ComplianceTask
	ParseJSON(t, resp, &progressed)
	require.Equal(t, models.TaskInProgress, progressed.Status)

	AssertError(t, h.request("PATCH", "/api/tasks/"+task.ID+"/status", staffToken, handlers.StatusRequest{Status: "DONE"}),
		http.StatusBadRequest, "")

	clientToken := h.token(ten.clientUser)
	AssertError(t, h.request("PATCH", "/api/tasks/"+task.ID+"/status", clientToken, handlers.StatusRequest{Status: "FILED"}),
		http.StatusForbidden, "")

	resp = h.request("POST", "/api/tasks/"+task.ID+"/comments", clientToken, handlers.CommentRequest{Message: "Invoices are uploaded"})
	AssertStatus(t, resp, http.StatusCreated)

	resp = h.request("GET", "/api/tasks/"+task.ID, staffToken, nil)
	AssertStatus(t, resp, http.StatusOK)
	var detail models.ComplianceTask
	ParseJSON(t, resp, &detail)
	require.Len(t, detail.Comments, 1)
	require.Equal(t, "Invoices are uploaded", detail.Comments[0].Message)
}

func TestNotificationsEndpoints(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	task := createTask(t, h, ten, ten.client.ID)
	adminToken := h.token(ten.admin)

	AssertStatus(t, h.request("PATCH", "/api/tasks/"+task.ID+"/status", adminToken, handlers.StatusRequest{Status: "FILED"}), http.StatusOK)

	clientToken := h.token(ten.clientUser)
	resp := h.request("GET", "/api/notifications?unreadOnly=true", clientToken, nil)
	AssertStatus(t, resp, http.StatusOK)
	var list []models.Notification
	ParseJSON(t, resp, &list)
	require.Len(t, list, 1)
	require.Equal(t, models.NotifyFilingCompleted, list[0].Type)

	AssertError(t, h.request("POST", "/api/notifications/"+list[0].ID+"/read", adminToken, nil), http.StatusNotFound, "")

	resp = h.request("POST", "/api/notifications/read-all", clientToken, nil)
	AssertStatus(t, resp, http.StatusOK)

	resp = h.request("GET", "/api/notifications?unreadOnly=true", clientToken, nil)
	AssertStatus(t, resp, http.StatusOK)
	ParseJSON(t, resp, &list)
	require.Empty(t, list)
}

func TestAssignAcceptsBothFieldNames(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	task := createTask(t, h, ten, ten.client.ID)
	token := h.token(ten.admin)
	path := "/api/tasks/" + task.ID + "/assign"

	assignee := func() *string {
		var stored models.ComplianceTask
		require.NoError(t, h.db.First(&stored, "id = ?", task.ID).Error)
		return stored.AssignedToUserID
	}

	AssertStatus(t, h.request("PATCH", path, token, map[string]interface{}{"assignedToUserId": ten.staff.ID}), http.StatusOK)
	require.NotNil(t, assignee())
	require.Equal(t, ten.staff.ID, *assignee())

	AssertStatus(t, h.request("PATCH", path, token, map[string]interface{}{"userId": ten.admin.ID}), http.StatusOK)
	require.NotNil(t, assignee())
	require.Equal(t, ten.admin.ID, *assignee())

	AssertStatus(t, h.request("PATCH", path, token, map[string]interface{}{
		"assignedToUserId": ten.staff.ID,
		"userId":           ten.admin.ID,
	}), http.StatusOK)
	require.NotNil(t, assignee())
	require.Equal(t, ten.staff.ID, *assignee())

	AssertStatus(t, h.request("PATCH", path, token, map[string]interface{}{"assignedToUserId": nil}), http.StatusOK)
	require.Nil(t, assignee())
}
