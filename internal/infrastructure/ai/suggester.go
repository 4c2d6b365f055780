package ai

import (
	"context"
	"time"

	"github.com/promanage/backend/internal/domain/task"
)

// Suggestion is an AI-generated work plan for a task
type Suggestion struct {
	Priority      task.Priority `json:"priority"`
	EstimatedDays int           `json:"estimatedDays"`
	Deadline      time.Time     `json:"deadline"`
	Reasoning     string        `json:"reasoning"`
}

// Suggester produces task planning suggestions. Implementations must
// return an error rather than a partial suggestion when the model call
// fails, so callers can substitute their own fallback.
type Suggester interface {
	SuggestTaskPlan(ctx context.Context, title, description string) (Suggestion, error)
	SuggestTips(ctx context.Context, title, description string) ([]string, error)
}
