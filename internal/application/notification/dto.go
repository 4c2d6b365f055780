package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/task"
)

// Result is the outcome of a notification operation. Operations never
// return a Go error to the caller; a failed send is reported here so the
// triggering operation (task update, scheduled job) is never blocked.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func failed(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// TaskAssignedInput carries the fields the task-assigned email needs.
// Callers project these from their own rows; the service never receives
// a joined row.
type TaskAssignedInput struct {
	TaskID          uuid.UUID
	ProjectID       uuid.UUID
	TaskTitle       string
	TaskDescription string
	Priority        task.Priority
	Deadline        *time.Time
	ProjectName     string
	ManagerName     string
	AssigneeID      uuid.UUID
	AssigneeEmail   string
	AssigneeName    string
}

// TaskCompletedInput carries the fields the task-completed email needs,
// directed at the task's creator.
type TaskCompletedInput struct {
	TaskID       uuid.UUID
	ProjectID    uuid.UUID
	TaskTitle    string
	ProjectName  string
	ManagerID    uuid.UUID
	ManagerEmail string
	ManagerName  string
	EmployeeName string
}

// TaskStartedInput carries the fields for the in-app "task started"
// notice to the task's creator. No email is sent for this event.
type TaskStartedInput struct {
	TaskID       uuid.UUID
	ProjectID    uuid.UUID
	TaskTitle    string
	CreatorID    uuid.UUID
	EmployeeName string
}

// DeadlineReminderInput carries the fields a deadline or overdue
// reminder needs.
type DeadlineReminderInput struct {
	TaskID      uuid.UUID
	ProjectID   uuid.UUID
	TaskTitle   string
	Deadline    time.Time
	ProjectName string
	UserID      uuid.UUID
	UserEmail   string
	UserName    string
}

// DailyDigestInput identifies the digest recipient. The service reads
// the user's task set itself.
type DailyDigestInput struct {
	UserID    uuid.UUID
	UserEmail string
	UserName  string
}

// DigestTask is one of the soonest-deadline pending tasks shown in the
// digest email.
type DigestTask struct {
	Title    string
	Priority task.Priority
	Deadline *time.Time
}

// Digest holds the counters and highlight tasks for one user's daily
// digest.
type Digest struct {
	Total          int
	Pending        int
	CompletedToday int
	Overdue        int
	TopTasks       []DigestTask
}
