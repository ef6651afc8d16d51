// tasks.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/practice-portal/internal/middleware"
	"github.com/localnerve/practice-portal/internal/services"
	"gorm.io/gorm"
)

// TaskHandler handles compliance task routes
type TaskHandler struct {
	DB      *gorm.DB
	Options services.TaskOptions
}

// StatusRequest carries a new status
type StatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest carries the assignee, null to clear.
// userId is accepted as an alias; assignedToUserId wins when both are sent.
type AssignRequest struct {
	AssignedToUserID *string `json:"assignedToUserId"`
	UserID           *string `json:"userId,omitempty"`
}

// Assignee resolves the requested assignee
func (r AssignRequest) Assignee() *string {
	if r.AssignedToUserID != nil {
		return r.AssignedToUserID
	}
	return r.UserID
}

// CommentRequest carries a task comment
type CommentRequest struct {
	Message string `json:"message"`
}

// ComplianceTypes handles GET /api/tasks/compliance-types
// @Summary List compliance types
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ComplianceType
// @Router /tasks/compliance-types [get]
func (h *TaskHandler) ComplianceTypes(c *fiber.Ctx) error {
	list, err := services.ListComplianceTypes(h.DB)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// List handles GET /api/tasks
// @Summary List tasks
// @Description Tasks ordered by due date. Client users only ever see their own tasks.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param clientId query string false "Client filter"
// @Success 200 {array} models.ComplianceTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := services.ListTasks(h.DB, middleware.CallerFrom(c), services.TaskFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("clientId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(tasks)
}

// Get handles GET /api/tasks/:id
// @Summary Get a task with its comments
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} models.ComplianceTask
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, err := services.GetTask(h.DB, middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// Create handles POST /api/tasks
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.TaskInput true "Task"
// @Success 201 {object} models.ComplianceTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in services.TaskInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	task, err := services.CreateTask(h.DB, middleware.CallerFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateStatus handles PATCH /api/tasks/:id/status
// @Summary Change task status
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param body body StatusRequest true "Status"
// @Success 200 {object} models.ComplianceTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := services.UpdateTaskStatus(h.DB, middleware.CallerFrom(c), c.Params("id"), req.Status, h.Options)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// Assign handles PATCH /api/tasks/:id/assign
// @Summary Assign or unassign a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param body body AssignRequest true "Assignee"
// @Success 200 {object} models.ComplianceTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id}/assign [patch]
func (h *TaskHandler) Assign(c *fiber.Ctx) error {
	var req AssignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := services.AssignTask(h.DB, middleware.CallerFrom(c), c.Params("id"), req.Assignee())
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// AddComment handles POST /api/tasks/:id/comments
// @Summary Comment on a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param body body CommentRequest true "Comment"
// @Success 201 {object} models.TaskComment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := services.AddComment(h.DB, middleware.CallerFrom(c), c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
