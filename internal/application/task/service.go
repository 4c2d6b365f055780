package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appnotification "github.com/promanage/backend/internal/application/notification"
	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/project"
	"github.com/promanage/backend/internal/domain/task"
)

// Service owns the task lifecycle. Notification side effects are best
// effort: a failed email or in-app write never fails the task operation
// that triggered it.
type Service struct {
	tasks    task.Repository
	projects project.Repository
	profiles identity.Repository
	notifier *appnotification.Service
	logger   *zap.Logger
}

// NewService creates a task service
func NewService(
	tasks task.Repository,
	projects project.Repository,
	profiles identity.Repository,
	notifier *appnotification.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		tasks:    tasks,
		projects: projects,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
	}
}

// Create creates a task; assigning it notifies the assignee
func (s *Service) Create(ctx context.Context, in CreateTaskInput) (*task.Task, error) {
	t, err := task.NewTask(in.ProjectID, in.CreatedBy, in.Title)
	if err != nil {
		return nil, err
	}
	t.Description = in.Description
	if in.Priority != "" {
		if err := t.SetPriority(in.Priority); err != nil {
			return nil, err
		}
	}
	if in.Deadline != nil {
		t.SetDeadline(in.Deadline)
	}
	if in.AssigneeID != nil {
		t.Assign(*in.AssigneeID)
	}

	if err := s.tasks.Save(ctx, t); err != nil {
		return nil, err
	}

	if t.AssigneeID != nil {
		s.notifyAssigned(ctx, t)
	}

	return t, nil
}

// Get returns one task
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// ListByProject lists a project's tasks
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID) ([]task.Task, error) {
	return s.tasks.FindByProject(ctx, projectID)
}

// ListByAssignee lists tasks assigned to a user
func (s *Service) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]task.Task, error) {
	return s.tasks.FindByAssignee(ctx, assigneeID)
}

// Update applies the given field changes. Assigning the task to a new
// user notifies them.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*task.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousAssignee := t.AssigneeID

	if in.Title != nil {
		if err := t.Rename(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		if err := t.SetPriority(*in.Priority); err != nil {
			return nil, err
		}
	}
	if in.Deadline != nil {
		t.SetDeadline(in.Deadline)
	}
	if in.ClearAssignee {
		t.Unassign()
	} else if in.AssigneeID != nil {
		t.Assign(*in.AssigneeID)
	}

	if err := s.tasks.Save(ctx, t); err != nil {
		return nil, err
	}

	newlyAssigned := t.AssigneeID != nil &&
		(previousAssignee == nil || *previousAssignee != *t.AssigneeID)
	if newlyAssigned {
		s.notifyAssigned(ctx, t)
	}

	return t, nil
}

// UpdateStatus transitions the task and fires the same notifications as
// the socket task-status-updated event
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status task.Status, actorID uuid.UUID) (*task.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.ChangeStatus(status); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return nil, err
	}

	actorName := ""
	if actor, err := s.profiles.FindByID(ctx, actorID); err == nil {
		actorName = actor.FullName
	}

	switch status {
	case task.StatusDone:
		s.notifyCompleted(ctx, t, actorName)
	case task.StatusInProgress:
		result := s.notifier.NotifyTaskStarted(ctx, appnotification.TaskStartedInput{
			TaskID:       t.ID,
			ProjectID:    t.ProjectID,
			TaskTitle:    t.Title,
			CreatorID:    t.CreatedBy,
			EmployeeName: actorName,
		})
		if !result.Success {
			s.logger.Warn("task started notification failed",
				zap.String("task_id", t.ID.String()),
				zap.String("error", result.Error))
		}
	}

	return t, nil
}

// Delete removes a task
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tasks.Delete(ctx, id)
}

// ApplyAnalysis stores an AI suggestion on the task and adopts its
// priority and deadline
func (s *Service) ApplyAnalysis(ctx context.Context, id uuid.UUID, raw string, priority task.Priority, deadline *time.Time) (*task.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.ApplyAnalysis(raw, priority, deadline); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) notifyAssigned(ctx context.Context, t *task.Task) {
	assignee, err := s.profiles.FindByID(ctx, *t.AssigneeID)
	if err != nil {
		s.logger.Warn("assignment notice: failed to load assignee",
			zap.String("task_id", t.ID.String()),
			zap.Error(err))
		return
	}

	projectName := ""
	if p, err := s.projects.FindByID(ctx, t.ProjectID); err == nil {
		projectName = p.Name
	}
	managerName := ""
	if creator, err := s.profiles.FindByID(ctx, t.CreatedBy); err == nil {
		managerName = creator.FullName
	}

	result := s.notifier.NotifyTaskAssigned(ctx, appnotification.TaskAssignedInput{
		TaskID:          t.ID,
		ProjectID:       t.ProjectID,
		TaskTitle:       t.Title,
		TaskDescription: t.Description,
		Priority:        t.Priority,
		Deadline:        t.Deadline,
		ProjectName:     projectName,
		ManagerName:     managerName,
		AssigneeID:      assignee.ID,
		AssigneeEmail:   assignee.Email,
		AssigneeName:    assignee.FullName,
	})
	if !result.Success {
		s.logger.Warn("task assigned notification failed",
			zap.String("task_id", t.ID.String()),
			zap.String("error", result.Error))
	}
}

func (s *Service) notifyCompleted(ctx context.Context, t *task.Task, actorName string) {
	creator, err := s.profiles.FindByID(ctx, t.CreatedBy)
	if err != nil {
		s.logger.Warn("completion notice: failed to load creator",
			zap.String("task_id", t.ID.String()),
			zap.Error(err))
		return
	}

	projectName := ""
	if p, err := s.projects.FindByID(ctx, t.ProjectID); err == nil {
		projectName = p.Name
	}

	result := s.notifier.NotifyTaskCompleted(ctx, appnotification.TaskCompletedInput{
		TaskID:       t.ID,
		ProjectID:    t.ProjectID,
		TaskTitle:    t.Title,
		ProjectName:  projectName,
		ManagerID:    creator.ID,
		ManagerEmail: creator.Email,
		ManagerName:  creator.FullName,
		EmployeeName: actorName,
	})
	if !result.Success {
		s.logger.Warn("task completed notification failed",
			zap.String("task_id", t.ID.String()),
			zap.String("error", result.Error))
	}
}
