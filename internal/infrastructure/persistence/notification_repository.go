package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promanage/backend/internal/domain/notification"
	"github.com/promanage/backend/internal/domain/shared"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save creates a notification row
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// FindByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []notification.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead flips IsRead for one notification owned by the user
func (r *GormNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead flips IsRead for every unread notification of the user
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
