package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appidentity "github.com/promanage/backend/internal/application/identity"
	appnotification "github.com/promanage/backend/internal/application/notification"
	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/notification"
	"github.com/promanage/backend/internal/domain/shared"
	"github.com/promanage/backend/internal/domain/task"
	"github.com/promanage/backend/internal/infrastructure/auth"
	"github.com/promanage/backend/internal/infrastructure/config"
	"github.com/promanage/backend/internal/interfaces/http/middleware"
)

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

// MockTaskRepository satisfies task.Repository for the notification service
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]task.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]task.Task, error) {
	args := m.Called(ctx, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOpenWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]task.Task, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOpenWithDeadlineBefore(ctx context.Context, before time.Time) ([]task.Task, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// recordingMailer captures outgoing mail instead of sending it
type recordingMailer struct {
	sent []notification.EmailMessage
}

func (r *recordingMailer) Send(_ context.Context, msg notification.EmailMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

type employeeFixture struct {
	engine   *gin.Engine
	jwt      *auth.JWTService
	profiles *MockProfileRepository
	mailer   *recordingMailer
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	profiles := new(MockProfileRepository)
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := &recordingMailer{}

	renderer, err := appnotification.NewRenderer()
	require.NoError(t, err)
	notifier := appnotification.NewService(rows, tasks, renderer, mailer, "https://app.example.com", zap.NewNop())

	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "promanage-test",
	})
	identitySvc := appidentity.NewService(profiles, jwtSvc, notifier, "https://app.example.com", zap.NewNop())
	h := NewEmployeeHandler(identitySvc)

	engine := gin.New()
	engine.Use(middleware.JWTAuthMiddleware(jwtSvc))
	engine.POST("/api/employees/create-employee", h.CreateEmployee)

	return &employeeFixture{engine: engine, jwt: jwtSvc, profiles: profiles, mailer: mailer}
}

func (f *employeeFixture) tokenFor(t *testing.T, p *identity.Profile) string {
	t.Helper()
	token, _, err := f.jwt.GenerateToken(p)
	require.NoError(t, err)
	return token
}

func (f *employeeFixture) createEmployee(token string, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/employees/create-employee", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func validBody() map[string]string {
	return map[string]string{
		"email":     "new@example.com",
		"full_name": "New Hire",
		"password":  "welcome1",
	}
}

func TestCreateEmployee_NoToken401(t *testing.T) {
	f := newEmployeeFixture(t)
	w := f.createEmployee("", validBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEmployee_EmployeeActor403(t *testing.T) {
	f := newEmployeeFixture(t)
	actor, err := identity.NewProfile("dev@example.com", "Dana Dev", identity.RoleEmployee)
	require.NoError(t, err)
	f.profiles.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)

	w := f.createEmployee(f.tokenFor(t, actor), validBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateEmployee_DuplicateEmail409(t *testing.T) {
	f := newEmployeeFixture(t)
	actor, err := identity.NewProfile("boss@example.com", "Mia Manager", identity.RoleManager)
	require.NoError(t, err)
	existing, err := identity.NewProfile("new@example.com", "Already Here", identity.RoleEmployee)
	require.NoError(t, err)

	f.profiles.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	f.profiles.On("FindByEmail", mock.Anything, "new@example.com").Return(existing, nil)

	w := f.createEmployee(f.tokenFor(t, actor), validBody())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateEmployee_SaveFailure500(t *testing.T) {
	f := newEmployeeFixture(t)
	actor, err := identity.NewProfile("boss@example.com", "Mia Manager", identity.RoleManager)
	require.NoError(t, err)

	f.profiles.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	f.profiles.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, shared.ErrNotFound)
	f.profiles.On("Save", mock.Anything, mock.AnythingOfType("*identity.Profile")).Return(assert.AnError)

	w := f.createEmployee(f.tokenFor(t, actor), validBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateEmployee_Success201(t *testing.T) {
	f := newEmployeeFixture(t)
	actor, err := identity.NewProfile("boss@example.com", "Mia Manager", identity.RoleManager)
	require.NoError(t, err)

	f.profiles.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
	f.profiles.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, shared.ErrNotFound)
	f.profiles.On("Save", mock.Anything, mock.AnythingOfType("*identity.Profile")).Return(nil)

	w := f.createEmployee(f.tokenFor(t, actor), validBody())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "new@example.com")
	require.Len(t, f.mailer.sent, 1)
}

func TestCreateEmployee_MissingFields400(t *testing.T) {
	f := newEmployeeFixture(t)
	actor, err := identity.NewProfile("boss@example.com", "Mia Manager", identity.RoleManager)
	require.NoError(t, err)
	f.profiles.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)

	w := f.createEmployee(f.tokenFor(t, actor), map[string]string{"email": "new@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
