package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/shared"
)

// MessageKind distinguishes plain text from file-attachment messages
type MessageKind string

const (
	MessageKindText MessageKind = "text"
	MessageKindFile MessageKind = "file"
)

// Message is an append-only chat message row
type Message struct {
	shared.BaseEntity
	RoomID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"room_id"`
	SenderID uuid.UUID   `gorm:"type:uuid;not null;index" json:"sender_id"`
	Body     string      `gorm:"type:text;not null" json:"body"`
	Kind     MessageKind `gorm:"type:varchar(10);not null;default:'text'" json:"kind"`
	FileName string      `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	FileURL  string      `gorm:"type:varchar(500)" json:"file_url,omitempty"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "chat_messages"
}

// NewMessage creates a new text message
func NewMessage(roomID, senderID uuid.UUID, body string) (*Message, error) {
	if body == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body cannot be empty")
	}
	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		RoomID:     roomID,
		SenderID:   senderID,
		Body:       body,
		Kind:       MessageKindText,
	}, nil
}

// Participant tracks per-user read state inside a room
type Participant struct {
	RoomID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"room_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	LastReadAt *time.Time `json:"last_read_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName returns the table name for GORM
func (Participant) TableName() string {
	return "chat_participants"
}

// Presence is the durable online/offline record for a user. The in-process
// connection map is authoritative while the process lives; this row is what
// survives a restart.
type Presence struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	IsOnline bool      `gorm:"not null;default:false" json:"is_online"`
	LastSeen time.Time `gorm:"not null" json:"last_seen"`
}

// TableName returns the table name for GORM
func (Presence) TableName() string {
	return "user_presence"
}

// MessageRepository defines the interface for chat message persistence
type MessageRepository interface {
	// Save appends a message row
	Save(ctx context.Context, m *Message) error

	// FindByRoom lists a room's messages, oldest first
	FindByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]Message, error)

	// MarkRead updates the participant's last-read timestamp
	MarkRead(ctx context.Context, roomID, userID uuid.UUID, at time.Time) error
}

// PresenceRepository defines the interface for presence persistence
type PresenceRepository interface {
	// Upsert writes the online flag and last-seen timestamp for a user
	Upsert(ctx context.Context, userID uuid.UUID, online bool, at time.Time) error

	// FindOnline lists the IDs of users currently marked online
	FindOnline(ctx context.Context) ([]uuid.UUID, error)
}

// OnlineSet is the shared fast-path view of who currently holds a live
// connection. Unlike PresenceRepository it is safe to consult on every
// request and is shared across instances.
type OnlineSet interface {
	// Add marks a user as online
	Add(ctx context.Context, userID uuid.UUID) error

	// Remove marks a user as offline
	Remove(ctx context.Context, userID uuid.UUID) error

	// Members lists all users currently online
	Members(ctx context.Context) ([]uuid.UUID, error)
}
