package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apptask "github.com/promanage/backend/internal/application/task"
	"github.com/promanage/backend/internal/domain/task"
)

// TaskHandler serves task CRUD and the status transition that drives
// completion notifications
type TaskHandler struct {
	BaseHandler
	tasks *apptask.Service
}

// NewTaskHandler creates a task handler
func NewTaskHandler(tasks *apptask.Service) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	ProjectID   string     `json:"project_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	AssigneeID  *string    `json:"assignee_id"`
}

type updateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Priority      *string    `json:"priority"`
	Deadline      *time.Time `json:"deadline"`
	AssigneeID    *string    `json:"assignee_id"`
	ClearAssignee bool       `json:"clear_assignee"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "project_id and title are required")
		return
	}
	projectID, _ := uuid.Parse(req.ProjectID)

	in := apptask.CreateTaskInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    task.Priority(req.Priority),
		Deadline:    req.Deadline,
		CreatedBy:   actorID,
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			h.BadRequest(c, "invalid assignee_id")
			return
		}
		in.AssigneeID = &assigneeID
	}

	t, err := h.tasks.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// List handles GET /api/tasks filtered by project or assignee
func (h *TaskHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid project_id")
			return
		}
		list, err := h.tasks.ListByProject(ctx, projectID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, list)
		return
	}

	// default to the caller's own tasks
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	list, err := h.tasks.ListByAssignee(ctx, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid task id")
		return
	}

	t, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Update handles PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}

	in := apptask.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		ClearAssignee: req.ClearAssignee,
	}
	if req.Priority != nil {
		priority := task.Priority(*req.Priority)
		in.Priority = &priority
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			h.BadRequest(c, "invalid assignee_id")
			return
		}
		in.AssigneeID = &assigneeID
	}

	t, err := h.tasks.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// UpdateStatus handles PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid task id")
		return
	}

	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "status is required")
		return
	}

	t, err := h.tasks.UpdateStatus(c.Request.Context(), id, task.Status(req.Status), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid task id")
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
