package project

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/project"
	"github.com/promanage/backend/internal/domain/shared"
)

// Service owns the project lifecycle. Mutations are restricted to the
// manager who owns the project.
type Service struct {
	projects project.Repository
	profiles identity.Repository
	logger   *zap.Logger
}

// NewService creates a project service
func NewService(projects project.Repository, profiles identity.Repository, logger *zap.Logger) *Service {
	return &Service{projects: projects, profiles: profiles, logger: logger}
}

// Create creates a project owned by the acting manager
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, in CreateProjectInput) (*project.Project, error) {
	actor, err := s.profiles.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() {
		return nil, shared.ErrForbidden
	}

	p, err := project.NewProject(actorID, in.Name, in.Description)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one project
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return s.projects.FindByID(ctx, id)
}

// List returns the projects visible to the actor. Managers see the
// projects they own, employees see everything they can be assigned to.
func (s *Service) List(ctx context.Context, actorID uuid.UUID) ([]project.Project, error) {
	actor, err := s.profiles.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.IsManager() {
		return s.projects.FindByManager(ctx, actorID)
	}
	return s.projects.FindAll(ctx)
}

// Update applies the given field changes, owner only
func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, in UpdateProjectInput) (*project.Project, error) {
	p, err := s.ownedBy(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := p.Rename(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		if err := p.ChangeStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project, owner only
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.ownedBy(ctx, actorID, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

// AttachChatRoom links a chat room to the project, owner only
func (s *Service) AttachChatRoom(ctx context.Context, actorID, id, roomID uuid.UUID) (*project.Project, error) {
	p, err := s.ownedBy(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	p.AttachChatRoom(roomID)
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ownedBy(ctx context.Context, actorID, id uuid.UUID) (*project.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ManagerID != actorID {
		return nil, shared.ErrForbidden
	}
	return p, nil
}
