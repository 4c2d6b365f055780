package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/shared"
)

// GormProfileRepository implements identity.Repository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	var p identity.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByEmail finds a profile by email (case-insensitive)
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var p identity.Profile
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllWithEmail finds all profiles that have a non-empty email
func (r *GormProfileRepository) FindAllWithEmail(ctx context.Context) ([]identity.Profile, error) {
	var profiles []identity.Profile
	if err := r.db.WithContext(ctx).
		Where("email IS NOT NULL AND email <> ''").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindByManager finds all employees reporting to a manager
func (r *GormProfileRepository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]identity.Profile, error) {
	var profiles []identity.Profile
	if err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Save creates or updates a profile
func (r *GormProfileRepository) Save(ctx context.Context, p *identity.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Ensure GormProfileRepository implements identity.Repository
var _ identity.Repository = (*GormProfileRepository)(nil)
