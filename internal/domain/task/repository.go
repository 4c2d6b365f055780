package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for task persistence
type Repository interface {
	// FindByID finds a task by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByProject finds all tasks in a project
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error)

	// FindByAssignee finds all tasks assigned to a user
	FindByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]Task, error)

	// FindOpenWithDeadlineBetween finds open tasks (todo or in-progress) whose
	// deadline falls in the half-open interval [from, to)
	FindOpenWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]Task, error)

	// FindOpenWithDeadlineBefore finds open tasks whose deadline is strictly
	// before the given instant
	FindOpenWithDeadlineBefore(ctx context.Context, before time.Time) ([]Task, error)

	// Save creates or updates a task
	Save(ctx context.Context, t *Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id uuid.UUID) error
}
