package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/promanage/backend/internal/infrastructure/config"
)

// Job names
const (
	JobDeadlineReminder = "deadline-reminder"
	JobDailyDigest      = "daily-digest"
	JobOverdueReminder  = "overdue-reminder"
)

// scheduledJob wraps a Job with its wall-clock trigger and run guard
type scheduledJob struct {
	job    Job
	hour   int
	minute int

	// runMu serializes executions of this one job so a slow run is
	// never overlapped by the next trigger or a manual run
	runMu sync.Mutex

	// lastRunDate is the local calendar date of the last scheduled
	// fire, so a sub-minute check interval does not refire within the
	// same minute
	lastRunDate string

	lastStats JobStats
	lastRunAt *time.Time
}

// NotificationScheduler fires the three bulk notification jobs on fixed
// wall-clock schedules. It checks every CheckInterval whether a job's
// hour:minute has arrived and the job has not yet run on today's date.
type NotificationScheduler struct {
	cfg    config.SchedulerConfig
	loc    *time.Location
	jobs   map[string]*scheduledJob
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewNotificationScheduler parses the configured schedules and registers
// the three jobs
func NewNotificationScheduler(
	cfg config.SchedulerConfig,
	deadline *DeadlineReminderJob,
	digest *DailyDigestJob,
	overdue *OverdueReminderJob,
	logger *zap.Logger,
) (*NotificationScheduler, error) {
	deadlineHour, deadlineMinute, err := ParseCronSchedule(cfg.DeadlineSchedule, 9, 0)
	if err != nil {
		return nil, err
	}
	digestHour, digestMinute, err := ParseCronSchedule(cfg.DigestSchedule, 8, 0)
	if err != nil {
		return nil, err
	}
	overdueHour, overdueMinute, err := ParseCronSchedule(cfg.OverdueSchedule, 10, 0)
	if err != nil {
		return nil, err
	}

	return &NotificationScheduler{
		cfg: cfg,
		loc: cfg.Location(),
		jobs: map[string]*scheduledJob{
			JobDeadlineReminder: {job: deadline, hour: deadlineHour, minute: deadlineMinute},
			JobDailyDigest:      {job: digest, hour: digestHour, minute: digestMinute},
			JobOverdueReminder:  {job: overdue, hour: overdueHour, minute: overdueMinute},
		},
		logger: logger,
	}, nil
}

// Start starts the scheduler loop. A no-op when jobs are disabled in
// config.
func (s *NotificationScheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("Notification scheduler disabled by config")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	for name, j := range s.jobs {
		s.logger.Info("Notification job scheduled",
			zap.String("job", name),
			zap.Int("hour", j.hour),
			zap.Int("minute", j.minute),
			zap.String("timezone", s.loc.String()),
		)
	}

	return nil
}

// Stop stops the scheduler and waits for in-flight jobs
func (s *NotificationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Notification scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Notification scheduler stop timed out")
		return ctx.Err()
	}
}

// runLoop checks every interval whether any job is due
func (s *NotificationScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	interval := s.cfg.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fireDueJobs(ctx)
		}
	}
}

func (s *NotificationScheduler) fireDueJobs(ctx context.Context) {
	now := time.Now().In(s.loc)
	today := now.Format("2006-01-02")

	for name, j := range s.jobs {
		if now.Hour() != j.hour || now.Minute() != j.minute {
			continue
		}

		s.mu.Lock()
		due := j.lastRunDate != today
		if due {
			j.lastRunDate = today
		}
		s.mu.Unlock()
		if !due {
			continue
		}

		s.wg.Add(1)
		go func(name string, j *scheduledJob) {
			defer s.wg.Done()
			s.execute(ctx, name, j)
		}(name, j)
	}
}

// execute runs one job under its per-job mutex and the configured
// timeout
func (s *NotificationScheduler) execute(ctx context.Context, name string, j *scheduledJob) JobStats {
	j.runMu.Lock()
	defer j.runMu.Unlock()

	timeout := s.cfg.JobTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	s.logger.Info("Notification job started", zap.String("job", name))

	stats := j.job.Run(jobCtx)

	s.mu.Lock()
	j.lastStats = stats
	j.lastRunAt = &started
	s.mu.Unlock()

	s.logger.Info("Notification job finished",
		zap.String("job", name),
		zap.Int("sent", stats.Sent),
		zap.Int("errors", stats.Errors),
		zap.Duration("duration", time.Since(started)),
	)

	return stats
}

// RunNow runs one job immediately, bypassing the schedule. It waits for
// a concurrent run of the same job to finish first; other jobs are
// unaffected. Works whether or not the scheduler loop is running.
func (s *NotificationScheduler) RunNow(ctx context.Context, name string) (JobStats, error) {
	j, ok := s.jobs[name]
	if !ok {
		return JobStats{}, ErrUnknownJob
	}
	return s.execute(ctx, name, j), nil
}

// Status reports per-job schedule and last-run information
func (s *NotificationScheduler) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make(map[string]any, len(s.jobs))
	for name, j := range s.jobs {
		jobs[name] = map[string]any{
			"hour":        j.hour,
			"minute":      j.minute,
			"last_run_at": j.lastRunAt,
			"last_stats":  j.lastStats,
		}
	}

	return map[string]any{
		"enabled":    s.cfg.Enabled,
		"is_running": s.isRunning,
		"timezone":   s.loc.String(),
		"jobs":       jobs,
	}
}
