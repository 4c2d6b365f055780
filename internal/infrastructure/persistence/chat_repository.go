package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/promanage/backend/internal/domain/chat"
)

// GormChatMessageRepository implements chat.MessageRepository using GORM
type GormChatMessageRepository struct {
	db *gorm.DB
}

// NewGormChatMessageRepository creates a new GormChatMessageRepository
func NewGormChatMessageRepository(db *gorm.DB) *GormChatMessageRepository {
	return &GormChatMessageRepository{db: db}
}

// Save appends a message row
func (r *GormChatMessageRepository) Save(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByRoom lists a room's messages, oldest first
func (r *GormChatMessageRepository) FindByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []chat.Message
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead updates the participant's last-read timestamp, creating the
// participant row on first read
func (r *GormChatMessageRepository) MarkRead(ctx context.Context, roomID, userID uuid.UUID, at time.Time) error {
	participant := chat.Participant{
		RoomID:     roomID,
		UserID:     userID,
		LastReadAt: &at,
		CreatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_read_at"}),
		}).
		Create(&participant).Error
}

// Ensure GormChatMessageRepository implements chat.MessageRepository
var _ chat.MessageRepository = (*GormChatMessageRepository)(nil)

// GormPresenceRepository implements chat.PresenceRepository using GORM
type GormPresenceRepository struct {
	db *gorm.DB
}

// NewGormPresenceRepository creates a new GormPresenceRepository
func NewGormPresenceRepository(db *gorm.DB) *GormPresenceRepository {
	return &GormPresenceRepository{db: db}
}

// Upsert writes the online flag and last-seen timestamp for a user
func (r *GormPresenceRepository) Upsert(ctx context.Context, userID uuid.UUID, online bool, at time.Time) error {
	row := chat.Presence{
		UserID:   userID,
		IsOnline: online,
		LastSeen: at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_online", "last_seen"}),
		}).
		Create(&row).Error
}

// FindOnline lists the IDs of users currently marked online
func (r *GormPresenceRepository) FindOnline(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&chat.Presence{}).
		Where("is_online = ?", true).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormPresenceRepository implements chat.PresenceRepository
var _ chat.PresenceRepository = (*GormPresenceRepository)(nil)
