package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/task"
	"github.com/promanage/backend/internal/infrastructure/ai"
)

const fallbackEstimatedDays = 7

// fallbackTips are returned when the model is unreachable or disabled
var fallbackTips = []string{
	"Break the task into smaller steps before starting.",
	"Clarify the acceptance criteria with the task creator.",
	"Block focused time on your calendar for this task.",
}

// TaskAnalysis is the response shape for every analysis endpoint. The
// contract is "always well-formed, check the success flag": a failed or
// disabled model yields the fixed fallback values with Success false.
type TaskAnalysis struct {
	Success       bool          `json:"success"`
	Priority      task.Priority `json:"priority"`
	EstimatedDays int           `json:"estimatedDays"`
	Deadline      time.Time     `json:"deadline"`
	Reasoning     string        `json:"reasoning,omitempty"`
}

// TaskTips is the response shape for the tips endpoint
type TaskTips struct {
	Success bool     `json:"success"`
	Tips    []string `json:"tips"`
}

// Service wraps the model client behind the always-answer contract
type Service struct {
	suggester ai.Suggester
	logger    *zap.Logger
}

// NewService creates an AI analysis service
func NewService(suggester ai.Suggester, logger *zap.Logger) *Service {
	return &Service{suggester: suggester, logger: logger}
}

// AnalyzeTask returns the model's plan for a task, or the fixed
// fallback (medium priority, seven days) when the model fails
func (s *Service) AnalyzeTask(ctx context.Context, title, description string) TaskAnalysis {
	suggestion, err := s.suggester.SuggestTaskPlan(ctx, title, description)
	if err != nil {
		s.logger.Warn("task analysis fell back to defaults", zap.Error(err))
		return fallbackAnalysis()
	}

	return TaskAnalysis{
		Success:       true,
		Priority:      suggestion.Priority,
		EstimatedDays: suggestion.EstimatedDays,
		Deadline:      suggestion.Deadline,
		Reasoning:     suggestion.Reasoning,
	}
}

// SuggestTips returns short working tips for a task, or the fixed tips
// on failure
func (s *Service) SuggestTips(ctx context.Context, title, description string) TaskTips {
	tips, err := s.suggester.SuggestTips(ctx, title, description)
	if err != nil {
		s.logger.Warn("task tips fell back to defaults", zap.Error(err))
		return TaskTips{Success: false, Tips: fallbackTips}
	}
	return TaskTips{Success: true, Tips: tips}
}

func fallbackAnalysis() TaskAnalysis {
	return TaskAnalysis{
		Success:       false,
		Priority:      task.PriorityMedium,
		EstimatedDays: fallbackEstimatedDays,
		Deadline:      time.Now().AddDate(0, 0, fallbackEstimatedDays),
	}
}
