package notification

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/notification"
	"github.com/promanage/backend/internal/domain/task"
)

// Service produces one outbound email plus, for the per-task operations,
// one in-app notification row per triggering event. Delivery is best
// effort: the in-app row is written before the email attempt, and every
// failure is folded into the returned Result instead of an error so a
// broken mail transport can never fail a task update.
type Service struct {
	notifications notification.Repository
	tasks         task.Repository
	renderer      *Renderer
	mailer        notification.Mailer
	clientBaseURL string
	logger        *zap.Logger
}

// NewService creates a notification service
func NewService(
	notifications notification.Repository,
	tasks task.Repository,
	renderer *Renderer,
	mailer notification.Mailer,
	clientBaseURL string,
	logger *zap.Logger,
) *Service {
	return &Service{
		notifications: notifications,
		tasks:         tasks,
		renderer:      renderer,
		mailer:        mailer,
		clientBaseURL: clientBaseURL,
		logger:        logger,
	}
}

// NotifyTaskAssigned writes the in-app row for the assignee and sends the
// task-assigned email when an address is on file.
func (s *Service) NotifyTaskAssigned(ctx context.Context, in TaskAssignedInput) Result {
	row := notification.New(in.AssigneeID, notification.TypeTaskAssigned,
		"New task: "+in.TaskTitle,
		fmt.Sprintf("%s assigned you a task in %s", in.ManagerName, in.ProjectName)).
		WithTask(in.TaskID).
		WithProject(in.ProjectID).
		WithLink(s.taskLink(in.ProjectID, in.TaskID))
	s.saveRow(ctx, row)

	if in.AssigneeEmail == "" {
		return ok()
	}

	data := EmailData{
		RecipientName:   in.AssigneeName,
		TaskTitle:       in.TaskTitle,
		TaskDescription: in.TaskDescription,
		Priority:        string(in.Priority),
		ProjectName:     in.ProjectName,
		ManagerName:     in.ManagerName,
		Link:            s.taskLink(in.ProjectID, in.TaskID),
	}
	if in.Deadline != nil {
		data.DeadlineText = in.Deadline.Format("Jan 2, 2006")
	}

	return s.renderAndSend(ctx, notification.TypeTaskAssigned, in.AssigneeEmail, in.AssigneeName, data)
}

// NotifyTaskCompleted writes the in-app row for the task's creator and
// sends the task-completed email when the creator has an address.
func (s *Service) NotifyTaskCompleted(ctx context.Context, in TaskCompletedInput) Result {
	row := notification.New(in.ManagerID, notification.TypeTaskCompleted,
		"Task completed: "+in.TaskTitle,
		fmt.Sprintf("%s completed the task %q", in.EmployeeName, in.TaskTitle)).
		WithTask(in.TaskID).
		WithProject(in.ProjectID).
		WithLink(s.taskLink(in.ProjectID, in.TaskID))
	s.saveRow(ctx, row)

	if in.ManagerEmail == "" {
		return ok()
	}

	data := EmailData{
		RecipientName: in.ManagerName,
		TaskTitle:     in.TaskTitle,
		ProjectName:   in.ProjectName,
		EmployeeName:  in.EmployeeName,
		Link:          s.taskLink(in.ProjectID, in.TaskID),
	}

	return s.renderAndSend(ctx, notification.TypeTaskCompleted, in.ManagerEmail, in.ManagerName, data)
}

// NotifyTaskStarted writes the in-app "task started" row for the task's
// creator. This event is in-app only.
func (s *Service) NotifyTaskStarted(ctx context.Context, in TaskStartedInput) Result {
	row := notification.New(in.CreatorID, notification.TypeTaskStarted,
		"Task started: "+in.TaskTitle,
		fmt.Sprintf("%s started working on %q", in.EmployeeName, in.TaskTitle)).
		WithTask(in.TaskID).
		WithProject(in.ProjectID).
		WithLink(s.taskLink(in.ProjectID, in.TaskID))
	if err := s.notifications.Save(ctx, row); err != nil {
		s.logger.Warn("failed to write in-app notification",
			zap.String("user_id", in.CreatorID.String()),
			zap.String("type", string(notification.TypeTaskStarted)),
			zap.Error(err))
		return failed(err)
	}
	return ok()
}

// NotifyDeadlineReminder writes the in-app row and sends the reminder
// email with the days-remaining phrase.
func (s *Service) NotifyDeadlineReminder(ctx context.Context, in DeadlineReminderInput) Result {
	due := dueText(in.Deadline, time.Now())

	row := notification.New(in.UserID, notification.TypeDeadlineReminder,
		fmt.Sprintf("Task due %s: %s", due, in.TaskTitle),
		fmt.Sprintf("%q is due %s", in.TaskTitle, due)).
		WithTask(in.TaskID).
		WithProject(in.ProjectID).
		WithLink(s.taskLink(in.ProjectID, in.TaskID))
	s.saveRow(ctx, row)

	if in.UserEmail == "" {
		return ok()
	}

	data := EmailData{
		RecipientName: in.UserName,
		TaskTitle:     in.TaskTitle,
		ProjectName:   in.ProjectName,
		DueText:       due,
		DeadlineText:  in.Deadline.Format("Jan 2, 2006"),
		Link:          s.taskLink(in.ProjectID, in.TaskID),
	}

	return s.renderAndSend(ctx, notification.TypeDeadlineReminder, in.UserEmail, in.UserName, data)
}

// NotifyDailyDigest reads the user's task set, computes the digest and
// sends the summary email. The digest is email-only; no in-app row is
// written.
func (s *Service) NotifyDailyDigest(ctx context.Context, in DailyDigestInput) Result {
	if in.UserEmail == "" {
		return ok()
	}

	tasks, err := s.tasks.FindByAssignee(ctx, in.UserID)
	if err != nil {
		s.logger.Warn("daily digest: failed to load tasks",
			zap.String("user_id", in.UserID.String()),
			zap.Error(err))
		return failed(err)
	}

	digest := buildDigest(tasks, time.Now())
	data := EmailData{
		RecipientName: in.UserName,
		Digest:        &digest,
		Link:          s.clientBaseURL + "/dashboard",
	}

	return s.renderAndSend(ctx, notification.TypeDailyDigest, in.UserEmail, in.UserName, data)
}

// SendWelcome sends the account welcome email. Email only; invitees do
// not have an in-app feed yet.
func (s *Service) SendWelcome(ctx context.Context, email, name, inviteLink string) Result {
	if email == "" {
		return ok()
	}

	message := "Your ProManage+ account is ready. Sign in to see your projects and tasks."
	link := s.clientBaseURL + "/login"
	if inviteLink != "" {
		message = "You have been invited to ProManage+. Use the link below to set your password and get started."
		link = inviteLink
	}

	return s.renderAndSend(ctx, KindWelcome, email, name, EmailData{
		RecipientName: name,
		Message:       message,
		Link:          link,
	})
}

// Feed lists the user's in-app notifications, newest first
func (s *Service) Feed(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	return s.notifications.FindByUser(ctx, userID, limit)
}

// MarkRead flips one notification's read flag, recipient-scoped
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, userID, id)
}

// MarkAllRead flips every unread notification of the user
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *Service) saveRow(ctx context.Context, row *notification.Notification) {
	if err := s.notifications.Save(ctx, row); err != nil {
		s.logger.Warn("failed to write in-app notification",
			zap.String("user_id", row.UserID.String()),
			zap.String("type", string(row.Type)),
			zap.Error(err))
	}
}

func (s *Service) renderAndSend(ctx context.Context, kind notification.Type, email, name string, data EmailData) Result {
	subject, html, err := s.renderer.Render(kind, data)
	if err != nil {
		s.logger.Warn("failed to render email",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return failed(err)
	}

	msg := notification.EmailMessage{
		To:      email,
		ToName:  name,
		Subject: subject,
		HTML:    html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send email",
			zap.String("kind", string(kind)),
			zap.String("to", email),
			zap.Error(err))
		return failed(err)
	}

	return ok()
}

func (s *Service) taskLink(projectID, taskID uuid.UUID) string {
	return fmt.Sprintf("%s/projects/%s?task=%s", s.clientBaseURL, projectID, taskID)
}

// dueText maps a deadline to the phrase shown in reminder emails.
// Days remaining is ceil((deadline - now) / 24h): a deadline later today
// or already past reads "today", exactly one day out reads "tomorrow".
func dueText(deadline, now time.Time) string {
	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// buildDigest computes the counters and the up-to-3 soonest-deadline
// pending tasks for one user's task set.
func buildDigest(tasks []task.Task, now time.Time) Digest {
	year, month, day := now.Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	d := Digest{Total: len(tasks)}
	var pending []task.Task
	for i := range tasks {
		t := tasks[i]
		if t.Status != task.StatusDone {
			d.Pending++
			if t.Deadline != nil && t.Deadline.Before(now) {
				d.Overdue++
			}
			pending = append(pending, t)
			continue
		}
		if t.CompletedAt != nil && !t.CompletedAt.Before(todayStart) {
			d.CompletedToday++
		}
	}

	var withDeadline []task.Task
	for _, t := range pending {
		if t.Deadline != nil {
			withDeadline = append(withDeadline, t)
		}
	}
	sort.Slice(withDeadline, func(i, j int) bool {
		return withDeadline[i].Deadline.Before(*withDeadline[j].Deadline)
	})
	for i := 0; i < len(withDeadline) && i < 3; i++ {
		t := withDeadline[i]
		d.TopTasks = append(d.TopTasks, DigestTask{
			Title:    t.Title,
			Priority: t.Priority,
			Deadline: t.Deadline,
		})
	}

	return d
}
