package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/notification"
	"github.com/promanage/backend/internal/domain/task"
)

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

// MockTaskRepository is a mock implementation of task.Repository
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

// MockMailer is a mock implementation of notification.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg notification.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newTestService(t *testing.T, rows *MockNotificationRepository, tasks *MockTaskRepository, mailer *MockMailer) *Service {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)
	return NewService(rows, tasks, renderer, mailer, "https://app.example.com", zap.NewNop())
}

func assignedInput(email string) TaskAssignedInput {
	return TaskAssignedInput{
		TaskID:        uuid.New(),
		ProjectID:     uuid.New(),
		TaskTitle:     "Ship the release",
		Priority:      task.PriorityHigh,
		ProjectName:   "Apollo",
		ManagerName:   "Dana",
		AssigneeID:    uuid.New(),
		AssigneeEmail: email,
		AssigneeName:  "Sam",
	}
}

func TestNotifyTaskAssigned_WritesRowAndSendsEmail(t *testing.T) {
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := new(MockMailer)
	svc := newTestService(t, rows, tasks, mailer)
	in := assignedInput("sam@example.com")

	rows.On("Save", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.UserID == in.AssigneeID && n.Type == notification.TypeTaskAssigned && !n.IsRead
	})).Return(nil).Once()
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg notification.EmailMessage) bool {
		return msg.To == "sam@example.com" && msg.Subject == "New Task Assigned: Ship the release"
	})).Return(nil).Once()

	result := svc.NotifyTaskAssigned(context.Background(), in)

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	rows.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestNotifyTaskAssigned_MailFailureDoesNotBlockRow(t *testing.T) {
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := new(MockMailer)
	svc := newTestService(t, rows, tasks, mailer)

	rows.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("transport down")).Once()

	result := svc.NotifyTaskAssigned(context.Background(), assignedInput("sam@example.com"))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "transport down")
	// Exactly one row and one send attempt regardless of the failure
	rows.AssertNumberOfCalls(t, "Save", 1)
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestNotifyTaskAssigned_RowFailureStillSendsEmail(t *testing.T) {
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := new(MockMailer)
	svc := newTestService(t, rows, tasks, mailer)

	rows.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	result := svc.NotifyTaskAssigned(context.Background(), assignedInput("sam@example.com"))

	assert.True(t, result.Success)
	mailer.AssertExpectations(t)
}

func TestNotifyTaskCompleted_NoManagerEmail(t *testing.T) {
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := new(MockMailer)
	svc := newTestService(t, rows, tasks, mailer)

	rows.On("Save", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Type == notification.TypeTaskCompleted
	})).Return(nil).Once()

	result := svc.NotifyTaskCompleted(context.Background(), TaskCompletedInput{
		TaskID:       uuid.New(),
		ProjectID:    uuid.New(),
		TaskTitle:    "Ship the release",
		ManagerID:    uuid.New(),
		ManagerEmail: "",
		EmployeeName: "Sam",
	})

	// In-app row is written, no email is attempted, no failure surfaces
	assert.True(t, result.Success)
	rows.AssertExpectations(t)
	mailer.AssertNotCalled(t, "Send")
}

func TestNotifyDeadlineReminder_TomorrowPhrase(t *testing.T) {
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := new(MockMailer)
	svc := newTestService(t, rows, tasks, mailer)

	var sent notification.EmailMessage
	rows.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	mailer.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(notification.EmailMessage)
	}).Return(nil).Once()

	result := svc.NotifyDeadlineReminder(context.Background(), DeadlineReminderInput{
		TaskID:    uuid.New(),
		ProjectID: uuid.New(),
		TaskTitle: "Ship the release",
		Deadline:  time.Now().Add(24 * time.Hour),
		UserID:    uuid.New(),
		UserEmail: "sam@example.com",
		UserName:  "Sam",
	})

	assert.True(t, result.Success)
	assert.Contains(t, sent.HTML, "tomorrow")
	assert.Contains(t, sent.Subject, "due tomorrow")
}

func TestNotifyDailyDigest_QueryFailure(t *testing.T) {
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := new(MockMailer)
	svc := newTestService(t, rows, tasks, mailer)
	userID := uuid.New()

	tasks.On("FindByAssignee", mock.Anything, userID).Return(nil, errors.New("db down")).Once()

	result := svc.NotifyDailyDigest(context.Background(), DailyDigestInput{
		UserID:    userID,
		UserEmail: "sam@example.com",
		UserName:  "Sam",
	})

	assert.False(t, result.Success)
	mailer.AssertNotCalled(t, "Send")
}

func TestNotifyDailyDigest_SendsCounters(t *testing.T) {
	rows := new(MockNotificationRepository)
	tasks := new(MockTaskRepository)
	mailer := new(MockMailer)
	svc := newTestService(t, rows, tasks, mailer)
	userID := uuid.New()

	past := time.Now().Add(-48 * time.Hour)
	soon := time.Now().Add(12 * time.Hour)
	taskSet := []task.Task{
		openTask("Overdue thing", &past),
		openTask("Due soon", &soon),
		doneTask("Finished yesterday", time.Now().Add(-30*time.Hour)),
	}

	var sent notification.EmailMessage
	tasks.On("FindByAssignee", mock.Anything, userID).Return(taskSet, nil).Once()
	mailer.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(notification.EmailMessage)
	}).Return(nil).Once()

	result := svc.NotifyDailyDigest(context.Background(), DailyDigestInput{
		UserID:    userID,
		UserEmail: "sam@example.com",
		UserName:  "Sam",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "Your Daily Task Digest", sent.Subject)
	assert.Contains(t, sent.HTML, "Overdue thing")
	// The digest is email-only
	rows.AssertNotCalled(t, "Save")
}

func TestDueText(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     string
	}{
		{"later today", now.Add(5 * time.Hour), "today"},
		{"already past", now.Add(-2 * time.Hour), "today"},
		{"exactly one day", now.Add(24 * time.Hour), "tomorrow"},
		{"just under one day", now.Add(23 * time.Hour), "tomorrow"},
		{"day and a half", now.Add(36 * time.Hour), "in 2 days"},
		{"a week out", now.Add(7 * 24 * time.Hour), "in 7 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dueText(tt.deadline, now))
		})
	}
}

func openTask(title string, deadline *time.Time) task.Task {
	tk, _ := task.NewTask(uuid.New(), uuid.New(), title)
	tk.Deadline = deadline
	return *tk
}

func doneTask(title string, completedAt time.Time) task.Task {
	tk, _ := task.NewTask(uuid.New(), uuid.New(), title)
	tk.Status = task.StatusDone
	tk.CompletedAt = &completedAt
	return *tk
}

func TestBuildDigest_Counters(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	nearFuture := now.Add(6 * time.Hour)
	farFuture := now.Add(72 * time.Hour)

	taskSet := []task.Task{
		openTask("overdue", &past),
		openTask("due in hours", &nearFuture),
		openTask("due later", &farFuture),
		openTask("no deadline", nil),
		doneTask("done today", now.Add(-1*time.Hour)),
		doneTask("done last week", now.Add(-7*24*time.Hour)),
	}

	d := buildDigest(taskSet, now)

	assert.Equal(t, 6, d.Total)
	assert.Equal(t, 4, d.Pending)
	assert.Equal(t, 1, d.Overdue)
	assert.Equal(t, 1, d.CompletedToday)
	// completed + pending = total
	assert.Equal(t, d.Total, (d.Total-d.Pending)+d.Pending)
	// overdue is a subset of pending
	assert.LessOrEqual(t, d.Overdue, d.Pending)

	// Top tasks: soonest deadlines first, tasks without deadlines excluded
	require.Len(t, d.TopTasks, 3)
	assert.Equal(t, "overdue", d.TopTasks[0].Title)
	assert.Equal(t, "due in hours", d.TopTasks[1].Title)
	assert.Equal(t, "due later", d.TopTasks[2].Title)
}

func TestBuildDigest_CapsTopTasksAtThree(t *testing.T) {
	now := time.Now()
	var taskSet []task.Task
	for i := 1; i <= 5; i++ {
		dl := now.Add(time.Duration(i) * 24 * time.Hour)
		taskSet = append(taskSet, openTask("t", &dl))
	}

	d := buildDigest(taskSet, now)

	assert.Equal(t, 5, d.Pending)
	assert.Len(t, d.TopTasks, 3)
}
