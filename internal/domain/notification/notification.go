package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/shared"
)

// Type tags an in-app notification row
type Type string

const (
	TypeTaskAssigned     Type = "task_assigned"
	TypeTaskStarted      Type = "task_started"
	TypeTaskCompleted    Type = "task_completed"
	TypeDeadlineReminder Type = "deadline_reminder"
	TypeDailyDigest      Type = "daily_digest"
	TypeGeneric          Type = "generic"
)

// Notification is an in-app notification row. Rows are append-only; the only
// mutation the recipient may perform is flipping IsRead.
type Notification struct {
	shared.BaseEntity
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      Type       `gorm:"type:varchar(40);not null" json:"type"`
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Link      string     `gorm:"type:varchar(500)" json:"link,omitempty"`
	TaskID    *uuid.UUID `gorm:"type:uuid" json:"task_id,omitempty"`
	ProjectID *uuid.UUID `gorm:"type:uuid" json:"project_id,omitempty"`
	IsRead    bool       `gorm:"not null;default:false" json:"is_read"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// New creates a new unread notification for a recipient
func New(userID uuid.UUID, typ Type, title, message string) *Notification {
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
	}
}

// WithLink attaches a client link to the notification
func (n *Notification) WithLink(link string) *Notification {
	n.Link = link
	return n
}

// WithTask attaches a task reference
func (n *Notification) WithTask(taskID uuid.UUID) *Notification {
	n.TaskID = &taskID
	return n
}

// WithProject attaches a project reference
func (n *Notification) WithProject(projectID uuid.UUID) *Notification {
	n.ProjectID = &projectID
	return n
}

// Repository defines the interface for notification persistence
type Repository interface {
	// Save creates a notification row
	Save(ctx context.Context, n *Notification) error

	// FindByUser lists a user's notifications, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)

	// MarkRead flips IsRead for one notification owned by the user
	MarkRead(ctx context.Context, userID, id uuid.UUID) error

	// MarkAllRead flips IsRead for every unread notification of the user
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
