package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/shared"
)

// Status represents the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// IsValid reports whether s is a known task status
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// IsOpen reports whether the task still counts as pending work
func (s Status) IsOpen() bool {
	return s == StatusTodo || s == StatusInProgress
}

// Priority represents the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work inside a project.
// AssigneeID is the single, correctly spelled foreign key; the column name is
// fixed here and in the migrations so every query path uses the same one.
type Task struct {
	shared.BaseEntity
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index;column:assignee_id" json:"assignee_id"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority    Priority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Deadline    *time.Time `gorm:"type:date" json:"deadline"`
	CompletedAt *time.Time `json:"completed_at"`
	AIAnalysis  *string    `gorm:"type:text;column:ai_analysis" json:"ai_analysis,omitempty"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new task in the todo state
func NewTask(projectID, createdBy uuid.UUID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	return &Task{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		CreatedBy:  createdBy,
		Title:      title,
		Status:     StatusTodo,
		Priority:   PriorityMedium,
	}, nil
}

// Assign sets the task assignee
func (t *Task) Assign(assigneeID uuid.UUID) {
	t.AssigneeID = &assigneeID
	t.UpdatedAt = time.Now()
}

// Unassign clears the task assignee
func (t *Task) Unassign() {
	t.AssigneeID = nil
	t.UpdatedAt = time.Now()
}

// Rename changes the task title, enforcing the same rules as NewTask
func (t *Task) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	t.Title = title
	t.UpdatedAt = time.Now()
	return nil
}

// ChangeStatus transitions the task to a new status.
// CompletedAt is set exactly when the task enters done and cleared when it
// leaves done, so the pair can never drift apart for rows written here.
func (t *Task) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown task status: "+string(status))
	}
	now := time.Now()
	if status == StatusDone {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
	t.UpdatedAt = now
	return nil
}

// SetPriority updates the task priority
func (t *Task) SetPriority(priority Priority) error {
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority: "+string(priority))
	}
	t.Priority = priority
	t.UpdatedAt = time.Now()
	return nil
}

// SetDeadline updates the task deadline
func (t *Task) SetDeadline(deadline *time.Time) {
	t.Deadline = deadline
	t.UpdatedAt = time.Now()
}

// ApplyAnalysis stores the raw AI analysis and applies its suggestions
func (t *Task) ApplyAnalysis(raw string, priority Priority, deadline *time.Time) error {
	if err := t.SetPriority(priority); err != nil {
		return err
	}
	t.AIAnalysis = &raw
	t.Deadline = deadline
	t.UpdatedAt = time.Now()
	return nil
}

// IsOverdue reports whether the task is open with a deadline before now
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status.IsOpen() && t.Deadline != nil && t.Deadline.Before(now)
}
