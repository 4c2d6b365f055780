package scheduler

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

// JobStats counts the outcome of one bulk run. A single recipient's
// failure is isolated to that recipient; the batch always runs to the end.
type JobStats struct {
	Sent   int `json:"sent"`
	Errors int `json:"errors"`
}

// Job is one scheduled bulk notification pass
type Job interface {
	Name() string
	Run(ctx context.Context) JobStats
}

// reminderTargets resolves the recipients for a reminder batch and fans
// out one reminder per qualifying task. Shared by the deadline and
// overdue jobs.
type reminderSender struct {
	profiles identity.Repository
	projects project.Repository
	notifier *appnotification.Service
	logger   *zap.Logger
}

func (s *reminderSender) remind(ctx context.Context, tasks []task.Task) JobStats {
	var stats JobStats
	for i := range tasks {
		t := tasks[i]
		if t.AssigneeID == nil || t.Deadline == nil {
			continue
		}

		profile, err := s.profiles.FindByID(ctx, *t.AssigneeID)
		if err != nil {
			s.logger.Warn("reminder: failed to load assignee profile",
				zap.String("task_id", t.ID.String()),
				zap.Error(err))
			stats.Errors++
			continue
		}
		if profile.Email == "" {
			continue
		}
		// Only an explicit false disables reminders
		if !profile.Preferences.DeadlineRemindersEnabled() {
			continue
		}

		result := s.notifier.NotifyDeadlineReminder(ctx, appnotification.DeadlineReminderInput{
			TaskID:      t.ID,
			ProjectID:   t.ProjectID,
			TaskTitle:   t.Title,
			Deadline:    *t.Deadline,
			ProjectName: s.projectName(ctx, t.ProjectID),
			UserID:      profile.ID,
			UserEmail:   profile.Email,
			UserName:    profile.FullName,
		})
		if result.Success {
			stats.Sent++
		} else {
			stats.Errors++
		}
	}
	return stats
}

func (s *reminderSender) projectName(ctx context.Context, projectID uuid.UUID) string {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return ""
	}
	return p.Name
}

// DeadlineReminderJob mails assignees whose open tasks are due tomorrow
type DeadlineReminderJob struct {
	tasks task.Repository
	loc   *time.Location
	reminderSender
}

// NewDeadlineReminderJob creates the deadline reminder job
func NewDeadlineReminderJob(
	tasks task.Repository,
	profiles identity.Repository,
	projects project.Repository,
	notifier *appnotification.Service,
	loc *time.Location,
	logger *zap.Logger,
) *DeadlineReminderJob {
	return &DeadlineReminderJob{
		tasks: tasks,
		loc:   loc,
		reminderSender: reminderSender{
			profiles: profiles,
			projects: projects,
			notifier: notifier,
			logger:   logger,
		},
	}
}

// Name returns the job name
func (j *DeadlineReminderJob) Name() string { return JobDeadlineReminder }

// Run selects open tasks with a deadline inside [tomorrow 00:00,
// day-after 00:00) in the job timezone and sends one reminder each.
func (j *DeadlineReminderJob) Run(ctx context.Context) JobStats {
	now := time.Now().In(j.loc)
	tomorrow := startOfDay(now, j.loc).AddDate(0, 0, 1)
	dayAfter := tomorrow.AddDate(0, 0, 1)

	tasks, err := j.tasks.FindOpenWithDeadlineBetween(ctx, tomorrow, dayAfter)
	if err != nil {
		j.logger.Error("deadline reminder: failed to query tasks", zap.Error(err))
		return JobStats{Errors: 1}
	}

	return j.remind(ctx, tasks)
}

// OverdueReminderJob mails assignees whose open tasks slipped past their
// deadline
type OverdueReminderJob struct {
	tasks task.Repository
	loc   *time.Location
	reminderSender
}

// NewOverdueReminderJob creates the overdue reminder job
func NewOverdueReminderJob(
	tasks task.Repository,
	profiles identity.Repository,
	projects project.Repository,
	notifier *appnotification.Service,
	loc *time.Location,
	logger *zap.Logger,
) *OverdueReminderJob {
	return &OverdueReminderJob{
		tasks: tasks,
		loc:   loc,
		reminderSender: reminderSender{
			profiles: profiles,
			projects: projects,
			notifier: notifier,
			logger:   logger,
		},
	}
}

// Name returns the job name
func (j *OverdueReminderJob) Name() string { return JobOverdueReminder }

// Run selects open tasks with a deadline strictly before today 00:00 in
// the job timezone and sends one reminder each.
func (j *OverdueReminderJob) Run(ctx context.Context) JobStats {
	now := time.Now().In(j.loc)
	today := startOfDay(now, j.loc)

	tasks, err := j.tasks.FindOpenWithDeadlineBefore(ctx, today)
	if err != nil {
		j.logger.Error("overdue reminder: failed to query tasks", zap.Error(err))
		return JobStats{Errors: 1}
	}

	return j.remind(ctx, tasks)
}

// DailyDigestJob mails every user with an email address their daily task
// summary
type DailyDigestJob struct {
	profiles identity.Repository
	notifier *appnotification.Service
	logger   *zap.Logger
}

// NewDailyDigestJob creates the daily digest job
func NewDailyDigestJob(
	profiles identity.Repository,
	notifier *appnotification.Service,
	logger *zap.Logger,
) *DailyDigestJob {
	return &DailyDigestJob{
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
	}
}

// Name returns the job name
func (j *DailyDigestJob) Name() string { return JobDailyDigest }

// Run sends the digest to every user whose preference does not
// explicitly disable it
func (j *DailyDigestJob) Run(ctx context.Context) JobStats {
	var stats JobStats

	profiles, err := j.profiles.FindAllWithEmail(ctx)
	if err != nil {
		j.logger.Error("daily digest: failed to query users", zap.Error(err))
		return JobStats{Errors: 1}
	}

	for i := range profiles {
		p := profiles[i]
		if !p.Preferences.DigestEnabled() {
			continue
		}

		result := j.notifier.NotifyDailyDigest(ctx, appnotification.DailyDigestInput{
			UserID:    p.ID,
			UserEmail: p.Email,
			UserName:  p.FullName,
		})
		if result.Success {
			stats.Sent++
		} else {
			stats.Errors++
		}
	}

	return stats
}

// startOfDay truncates t to midnight in the given location
func startOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
