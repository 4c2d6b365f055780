package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/shared"
)

// Role represents the application-level role of a profile
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleEmployee
}

// NotificationPreferences holds per-user notification flags.
// Fields are tri-state on purpose: nil means the user never touched the flag
// and is treated as enabled. Only an explicit false disables a channel.
type NotificationPreferences struct {
	Push              *bool `json:"push,omitempty"`
	Email             *bool `json:"email,omitempty"`
	DailyDigest       *bool `json:"dailyDigest,omitempty"`
	DeadlineReminders *bool `json:"deadlineReminders,omitempty"`
}

// DigestEnabled reports whether the daily digest may be sent
func (p NotificationPreferences) DigestEnabled() bool {
	return p.DailyDigest == nil || *p.DailyDigest
}

// DeadlineRemindersEnabled reports whether deadline reminders may be sent
func (p NotificationPreferences) DeadlineRemindersEnabled() bool {
	return p.DeadlineReminders == nil || *p.DeadlineReminders
}

// EmailEnabled reports whether email notifications may be sent at all
func (p NotificationPreferences) EmailEnabled() bool {
	return p.Email == nil || *p.Email
}

// Profile is the application-level user record. It is distinct from any
// transport-level session: role, manager link and preferences live here.
type Profile struct {
	shared.BaseEntity
	Email        string                  `gorm:"type:varchar(190);uniqueIndex;not null" json:"email"`
	FullName     string                  `gorm:"type:varchar(120);not null" json:"full_name"`
	Role         Role                    `gorm:"type:varchar(20);not null" json:"role"`
	ManagerID    *uuid.UUID              `gorm:"type:uuid;index" json:"manager_id"`
	PasswordHash string                  `gorm:"type:varchar(255)" json:"-"`
	Preferences  NotificationPreferences `gorm:"serializer:json;column:notification_preferences" json:"notification_preferences"`
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a new profile
func NewProfile(email, fullName string, role Role) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	return &Profile{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		FullName:   strings.TrimSpace(fullName),
		Role:       role,
	}, nil
}

// IsManager reports whether the profile has the manager role
func (p *Profile) IsManager() bool {
	return p.Role == RoleManager
}

// SetManager links an employee to their manager
func (p *Profile) SetManager(managerID uuid.UUID) error {
	if p.Role != RoleEmployee {
		return shared.NewDomainError("INVALID_STATE", "Only employees can have a manager")
	}
	p.ManagerID = &managerID
	return nil
}

// Repository defines the interface for profile persistence
type Repository interface {
	// FindByID finds a profile by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// FindByEmail finds a profile by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*Profile, error)

	// FindAllWithEmail finds all profiles that have a non-empty email
	FindAllWithEmail(ctx context.Context) ([]Profile, error)

	// FindByManager finds all employees reporting to a manager
	FindByManager(ctx context.Context, managerID uuid.UUID) ([]Profile, error)

	// Save creates or updates a profile
	Save(ctx context.Context, p *Profile) error
}
