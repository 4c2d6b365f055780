package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a project
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// IsValid reports whether s is a known project status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Project groups tasks under a manager, with an optional one-to-one chat room
type Project struct {
	shared.BaseEntity
	Name        string     `gorm:"type:varchar(200);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	ManagerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"manager_id"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ChatRoomID  *uuid.UUID `gorm:"type:uuid" json:"chat_room_id"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new active project
func NewProject(managerID uuid.UUID, name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	return &Project{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		ManagerID:   managerID,
		Status:      StatusActive,
	}, nil
}

// Rename changes the project name, enforcing the same rules as NewProject
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// AttachChatRoom links the project to its chat room
func (p *Project) AttachChatRoom(roomID uuid.UUID) {
	p.ChatRoomID = &roomID
	p.UpdatedAt = time.Now()
}

// ChangeStatus transitions the project to a new status
func (p *Project) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown project status: "+string(status))
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

// Repository defines the interface for project persistence
type Repository interface {
	// FindByID finds a project by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindByManager finds all projects owned by a manager
	FindByManager(ctx context.Context, managerID uuid.UUID) ([]Project, error)

	// FindAll lists all projects
	FindAll(ctx context.Context) ([]Project, error)

	// Save creates or updates a project
	Save(ctx context.Context, p *Project) error

	// Delete deletes a project
	Delete(ctx context.Context, id uuid.UUID) error
}
