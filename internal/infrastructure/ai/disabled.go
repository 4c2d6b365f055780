package ai

import (
	"context"
	"errors"
)

// ErrDisabled is returned when AI assistance is switched off in config
var ErrDisabled = errors.New("ai assistance is disabled")

// DisabledSuggester always fails, letting callers fall back to defaults
type DisabledSuggester struct{}

// NewDisabledSuggester creates a Suggester for deployments without AI
func NewDisabledSuggester() *DisabledSuggester {
	return &DisabledSuggester{}
}

// SuggestTaskPlan always returns ErrDisabled
func (s *DisabledSuggester) SuggestTaskPlan(_ context.Context, _, _ string) (Suggestion, error) {
	return Suggestion{}, ErrDisabled
}

// SuggestTips always returns ErrDisabled
func (s *DisabledSuggester) SuggestTips(_ context.Context, _, _ string) ([]string, error) {
	return nil, ErrDisabled
}

var _ Suggester = (*DisabledSuggester)(nil)
