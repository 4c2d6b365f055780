package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promanage/backend/internal/domain/shared"
	"github.com/promanage/backend/internal/domain/task"
)

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var t task.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByProject finds all tasks in a project
func (r *GormTaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]task.Task, error) {
	var tasks []task.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByAssignee finds all tasks assigned to a user
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]task.Task, error) {
	var tasks []task.Task
	if err := r.db.WithContext(ctx).
		Where("assignee_id = ?", assigneeID).
		Order("deadline ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOpenWithDeadlineBetween finds open tasks whose deadline falls in [from, to)
func (r *GormTaskRepository) FindOpenWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	var tasks []task.Task
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []task.Status{task.StatusTodo, task.StatusInProgress}).
		Where("deadline >= ? AND deadline < ?", from, to).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOpenWithDeadlineBefore finds open tasks whose deadline is strictly before the instant
func (r *GormTaskRepository) FindOpenWithDeadlineBefore(ctx context.Context, before time.Time) ([]task.Task, error) {
	var tasks []task.Task
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []task.Status{task.StatusTodo, task.StatusInProgress}).
		Where("deadline < ?", before).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTaskRepository implements task.Repository
var _ task.Repository = (*GormTaskRepository)(nil)
