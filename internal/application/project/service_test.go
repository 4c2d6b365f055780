package project

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/project"
	"github.com/promanage/backend/internal/domain/shared"
)

// MockProjectRepository is a mock implementation of project.Repository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of identity.Repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindAllWithEmail(ctx context.Context) ([]identity.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]identity.Profile, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *identity.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func newManager(t *testing.T) *identity.Profile {
	t.Helper()
	p, err := identity.NewProfile("boss@example.com", "Mia Manager", identity.RoleManager)
	require.NoError(t, err)
	return p
}

func newEmployee(t *testing.T) *identity.Profile {
	t.Helper()
	p, err := identity.NewProfile("dev@example.com", "Dana Dev", identity.RoleEmployee)
	require.NoError(t, err)
	return p
}

func TestCreate_ManagerOnly(t *testing.T) {
	projects := new(MockProjectRepository)
	profiles := new(MockProfileRepository)
	svc := NewService(projects, profiles, zap.NewNop())

	employee := newEmployee(t)
	profiles.On("FindByID", mock.Anything, employee.ID).Return(employee, nil)

	_, err := svc.Create(context.Background(), employee.ID, CreateProjectInput{Name: "Apollo"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	projects.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_SetsOwnerAndActiveStatus(t *testing.T) {
	projects := new(MockProjectRepository)
	profiles := new(MockProfileRepository)
	svc := NewService(projects, profiles, zap.NewNop())

	manager := newManager(t)
	profiles.On("FindByID", mock.Anything, manager.ID).Return(manager, nil)
	projects.On("Save", mock.Anything, mock.AnythingOfType("*project.Project")).Return(nil)

	p, err := svc.Create(context.Background(), manager.ID, CreateProjectInput{Name: "Apollo", Description: "Moonshot"})
	require.NoError(t, err)
	assert.Equal(t, manager.ID, p.ManagerID)
	assert.Equal(t, project.StatusActive, p.Status)
}

func TestList_ManagerSeesOwnProjects(t *testing.T) {
	projects := new(MockProjectRepository)
	profiles := new(MockProfileRepository)
	svc := NewService(projects, profiles, zap.NewNop())

	manager := newManager(t)
	owned, err := project.NewProject(manager.ID, "Apollo", "")
	require.NoError(t, err)

	profiles.On("FindByID", mock.Anything, manager.ID).Return(manager, nil)
	projects.On("FindByManager", mock.Anything, manager.ID).Return([]project.Project{*owned}, nil)

	got, err := svc.List(context.Background(), manager.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	projects.AssertNotCalled(t, "FindAll", mock.Anything)
}

func TestList_EmployeeSeesAll(t *testing.T) {
	projects := new(MockProjectRepository)
	profiles := new(MockProfileRepository)
	svc := NewService(projects, profiles, zap.NewNop())

	employee := newEmployee(t)
	profiles.On("FindByID", mock.Anything, employee.ID).Return(employee, nil)
	projects.On("FindAll", mock.Anything).Return([]project.Project{}, nil)

	_, err := svc.List(context.Background(), employee.ID)
	require.NoError(t, err)
	projects.AssertCalled(t, "FindAll", mock.Anything)
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	projects := new(MockProjectRepository)
	profiles := new(MockProfileRepository)
	svc := NewService(projects, profiles, zap.NewNop())

	owner := uuid.New()
	intruder := uuid.New()
	p, err := project.NewProject(owner, "Apollo", "")
	require.NoError(t, err)

	projects.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	newName := "Hijacked"
	_, err = svc.Update(context.Background(), intruder, p.ID, UpdateProjectInput{Name: &newName})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	projects.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdate_OwnerChangesStatus(t *testing.T) {
	projects := new(MockProjectRepository)
	profiles := new(MockProfileRepository)
	svc := NewService(projects, profiles, zap.NewNop())

	owner := uuid.New()
	p, err := project.NewProject(owner, "Apollo", "")
	require.NoError(t, err)

	projects.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	projects.On("Save", mock.Anything, p).Return(nil)

	done := project.StatusCompleted
	updated, err := svc.Update(context.Background(), owner, p.ID, UpdateProjectInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, project.StatusCompleted, updated.Status)
}

func TestDelete_OwnerOnly(t *testing.T) {
	projects := new(MockProjectRepository)
	profiles := new(MockProfileRepository)
	svc := NewService(projects, profiles, zap.NewNop())

	owner := uuid.New()
	p, err := project.NewProject(owner, "Apollo", "")
	require.NoError(t, err)

	projects.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	projects.On("Delete", mock.Anything, p.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), owner, p.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), p.ID), shared.ErrForbidden)
}
