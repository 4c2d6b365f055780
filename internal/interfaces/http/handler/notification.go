package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appnotification "github.com/promanage/backend/internal/application/notification"
	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/project"
	"github.com/promanage/backend/internal/domain/task"
	"github.com/promanage/backend/internal/infrastructure/scheduler"
)

// NotificationHandler serves the notification trigger endpoints and the
// in-app feed. Trigger endpoints fetch the relevant rows, call exactly one
// service operation and return its result verbatim: delivery failure is a
// payload fact, not an HTTP error.
type NotificationHandler struct {
	BaseHandler
	notifier *appnotification.Service
	tasks    task.Repository
	projects project.Repository
	profiles identity.Repository
	sched    *scheduler.NotificationScheduler
}

// NewNotificationHandler creates a notification handler
func NewNotificationHandler(
	notifier *appnotification.Service,
	tasks task.Repository,
	projects project.Repository,
	profiles identity.Repository,
	sched *scheduler.NotificationScheduler,
) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		tasks:    tasks,
		projects: projects,
		profiles: profiles,
		sched:    sched,
	}
}

type taskEventRequest struct {
	TaskID string `json:"task_id" binding:"required,uuid"`
}

// TaskAssigned handles POST /api/notifications/task-assigned
func (h *NotificationHandler) TaskAssigned(c *gin.Context) {
	t, ok := h.loadTask(c)
	if !ok {
		return
	}
	if t.AssigneeID == nil {
		h.BadRequest(c, "task has no assignee")
		return
	}

	ctx := c.Request.Context()
	assignee, err := h.profiles.FindByID(ctx, *t.AssigneeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	projectName := ""
	if p, err := h.projects.FindByID(ctx, t.ProjectID); err == nil {
		projectName = p.Name
	}
	managerName := ""
	if creator, err := h.profiles.FindByID(ctx, t.CreatedBy); err == nil {
		managerName = creator.FullName
	}

	result := h.notifier.NotifyTaskAssigned(ctx, appnotification.TaskAssignedInput{
		TaskID:          t.ID,
		ProjectID:       t.ProjectID,
		TaskTitle:       t.Title,
		TaskDescription: t.Description,
		Priority:        t.Priority,
		Deadline:        t.Deadline,
		ProjectName:     projectName,
		ManagerName:     managerName,
		AssigneeID:      assignee.ID,
		AssigneeEmail:   assignee.Email,
		AssigneeName:    assignee.FullName,
	})
	c.JSON(http.StatusOK, result)
}

type taskCompletedRequest struct {
	TaskID       string `json:"task_id" binding:"required,uuid"`
	EmployeeName string `json:"employee_name"`
}

// TaskCompleted handles POST /api/notifications/task-completed
func (h *NotificationHandler) TaskCompleted(c *gin.Context) {
	var req taskCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "task_id is required")
		return
	}
	taskID, _ := uuid.Parse(req.TaskID)

	ctx := c.Request.Context()
	t, err := h.tasks.FindByID(ctx, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	creator, err := h.profiles.FindByID(ctx, t.CreatedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	projectName := ""
	if p, err := h.projects.FindByID(ctx, t.ProjectID); err == nil {
		projectName = p.Name
	}

	result := h.notifier.NotifyTaskCompleted(ctx, appnotification.TaskCompletedInput{
		TaskID:       t.ID,
		ProjectID:    t.ProjectID,
		TaskTitle:    t.Title,
		ProjectName:  projectName,
		ManagerID:    creator.ID,
		ManagerEmail: creator.Email,
		ManagerName:  creator.FullName,
		EmployeeName: req.EmployeeName,
	})
	c.JSON(http.StatusOK, result)
}

// DeadlineReminder handles POST /api/notifications/deadline-reminder
func (h *NotificationHandler) DeadlineReminder(c *gin.Context) {
	t, ok := h.loadTask(c)
	if !ok {
		return
	}
	if t.AssigneeID == nil {
		h.BadRequest(c, "task has no assignee")
		return
	}
	if t.Deadline == nil {
		h.BadRequest(c, "task has no deadline")
		return
	}

	ctx := c.Request.Context()
	assignee, err := h.profiles.FindByID(ctx, *t.AssigneeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	projectName := ""
	if p, err := h.projects.FindByID(ctx, t.ProjectID); err == nil {
		projectName = p.Name
	}

	result := h.notifier.NotifyDeadlineReminder(ctx, appnotification.DeadlineReminderInput{
		TaskID:      t.ID,
		ProjectID:   t.ProjectID,
		TaskTitle:   t.Title,
		Deadline:    *t.Deadline,
		ProjectName: projectName,
		UserID:      assignee.ID,
		UserEmail:   assignee.Email,
		UserName:    assignee.FullName,
	})
	c.JSON(http.StatusOK, result)
}

type dailyDigestRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// DailyDigest handles POST /api/notifications/daily-digest
func (h *NotificationHandler) DailyDigest(c *gin.Context) {
	var req dailyDigestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "user_id is required")
		return
	}
	userID, _ := uuid.Parse(req.UserID)

	ctx := c.Request.Context()
	profile, err := h.profiles.FindByID(ctx, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result := h.notifier.NotifyDailyDigest(ctx, appnotification.DailyDigestInput{
		UserID:    profile.ID,
		UserEmail: profile.Email,
		UserName:  profile.FullName,
	})
	c.JSON(http.StatusOK, result)
}

// DailyDigestAll handles POST /api/notifications/daily-digest-all by
// running the digest job immediately
func (h *NotificationHandler) DailyDigestAll(c *gin.Context) {
	stats, err := h.sched.RunNow(c.Request.Context(), scheduler.JobDailyDigest)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

func (h *NotificationHandler) loadTask(c *gin.Context) (*task.Task, bool) {
	var req taskEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "task_id is required")
		return nil, false
	}
	taskID, _ := uuid.Parse(req.TaskID)

	t, err := h.tasks.FindByID(c.Request.Context(), taskID)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return t, true
}

// feedLimit caps how many rows the in-app feed returns per call
const feedLimit = 50

// List handles GET /api/notifications for the authenticated user
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limit := feedLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= feedLimit {
			limit = n
		}
	}

	rows, err := h.notifier.Feed(c.Request.Context(), userID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// MarkRead handles POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid notification id")
		return
	}

	if err := h.notifier.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.notifier.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
