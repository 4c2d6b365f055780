package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/task"
)

// CreateTaskInput carries the fields to create a task
type CreateTaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Priority    task.Priority
	Deadline    *time.Time
	AssigneeID  *uuid.UUID
	CreatedBy   uuid.UUID
}

// UpdateTaskInput carries the mutable task fields. Nil pointers leave
// the field untouched; ClearAssignee unassigns explicitly.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *task.Priority
	Deadline      *time.Time
	AssigneeID    *uuid.UUID
	ClearAssignee bool
}
