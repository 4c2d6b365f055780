package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/promanage/backend/internal/domain/task"
	"github.com/promanage/backend/internal/infrastructure/config"
)

const planSystemPrompt = `You are a project planning assistant. Given a task title and description,
respond with a JSON object of this exact shape:
{"priority":"low"|"medium"|"high","estimated_days":<positive integer>,"reasoning":"<one or two sentences>"}
Respond with the JSON object only, no surrounding text.`

// OpenAISuggester calls an OpenAI-compatible chat completion API
// (OpenAI, DeepSeek, or any compatible gateway) in JSON mode.
type OpenAISuggester struct {
	model       llms.Model
	callTimeout time.Duration
}

// NewOpenAISuggester creates a Suggester backed by the configured model
func NewOpenAISuggester(cfg *config.AIConfig) (*OpenAISuggester, error) {
	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithResponseFormat(&openai.ResponseFormat{Type: "json_object"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}
	return &OpenAISuggester{model: model, callTimeout: cfg.CallTimeout}, nil
}

type planResponse struct {
	Priority      string `json:"priority"`
	EstimatedDays int    `json:"estimated_days"`
	Reasoning     string `json:"reasoning"`
}

// SuggestTaskPlan asks the model for a priority and duration estimate
func (s *OpenAISuggester) SuggestTaskPlan(ctx context.Context, title, description string) (Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, planSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman,
			fmt.Sprintf("Task title: %s\nTask description: %s", title, description)),
	}

	resp, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(0.2))
	if err != nil {
		return Suggestion{}, fmt.Errorf("generate task plan: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Suggestion{}, fmt.Errorf("generate task plan: empty response")
	}

	return parsePlan(resp.Choices[0].Content)
}

const tipsSystemPrompt = `You are a project planning assistant. Given a task title and description,
respond with a JSON object of this exact shape:
{"tips":["<short actionable tip>", ...]}
Give between two and five tips. Respond with the JSON object only, no surrounding text.`

// SuggestTips asks the model for short working tips on a task
func (s *OpenAISuggester) SuggestTips(ctx context.Context, title, description string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, tipsSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman,
			fmt.Sprintf("Task title: %s\nTask description: %s", title, description)),
	}

	resp, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(0.5))
	if err != nil {
		return nil, fmt.Errorf("generate task tips: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("generate task tips: empty response")
	}

	var parsed struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(stripFences(resp.Choices[0].Content)), &parsed); err != nil {
		return nil, fmt.Errorf("parse task tips: %w", err)
	}
	if len(parsed.Tips) == 0 {
		return nil, fmt.Errorf("parse task tips: empty list")
	}
	return parsed.Tips, nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func parsePlan(content string) (Suggestion, error) {
	// Some models wrap JSON in markdown fences even in JSON mode
	var plan planResponse
	if err := json.Unmarshal([]byte(stripFences(content)), &plan); err != nil {
		return Suggestion{}, fmt.Errorf("parse task plan: %w", err)
	}

	priority := task.Priority(plan.Priority)
	if !priority.IsValid() {
		return Suggestion{}, fmt.Errorf("parse task plan: invalid priority %q", plan.Priority)
	}
	if plan.EstimatedDays <= 0 {
		return Suggestion{}, fmt.Errorf("parse task plan: invalid estimated_days %d", plan.EstimatedDays)
	}

	return Suggestion{
		Priority:      priority,
		EstimatedDays: plan.EstimatedDays,
		Deadline:      time.Now().AddDate(0, 0, plan.EstimatedDays),
		Reasoning:     plan.Reasoning,
	}, nil
}

var _ Suggester = (*OpenAISuggester)(nil)
