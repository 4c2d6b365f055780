package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promanage/backend/internal/domain/project"
	"github.com/promanage/backend/internal/domain/shared"
)

// GormProjectRepository implements project.Repository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var p project.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByManager finds all projects owned by a manager
func (r *GormProjectRepository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]project.Project, error) {
	var projects []project.Project
	if err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindAll lists all projects
func (r *GormProjectRepository) FindAll(ctx context.Context) ([]project.Project, error) {
	var projects []project.Project
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete deletes a project
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&project.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProjectRepository implements project.Repository
var _ project.Repository = (*GormProjectRepository)(nil)
