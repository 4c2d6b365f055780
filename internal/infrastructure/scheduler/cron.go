package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrUnknownJob          = errors.New("unknown job name")
	ErrInvalidSchedule     = errors.New("invalid cron schedule")
)

// ParseCronSchedule parses a daily cron expression "minute hour * * *" and
// extracts the hour and minute. Empty or partial expressions fall back to
// the provided defaults; out-of-range values are an error.
func ParseCronSchedule(cronExpr string, defaultHour, defaultMinute int) (hour, minute int, err error) {
	hour = defaultHour
	minute = defaultMinute

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntField(parts[0]); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntField(parts[1]); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return defaultHour, defaultMinute, fmt.Errorf("%w: minute must be 0-59, got %d", ErrInvalidSchedule, minute)
	}
	if hour < 0 || hour > 23 {
		return defaultHour, defaultMinute, fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidSchedule, hour)
	}

	return hour, minute, nil
}

// parseIntField parses a plain decimal cron field
func parseIntField(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidSchedule
	}
	val := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, ErrInvalidSchedule
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}
