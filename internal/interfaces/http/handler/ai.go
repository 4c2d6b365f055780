package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appai "github.com/promanage/backend/internal/application/ai"
)

// AIHandler serves the task analysis endpoints. Except for a missing
// title these endpoints always answer 200: a broken or disabled model
// degrades to the fixed fallback payload, never to an error. Payloads
// carry their own success flag and go out unwrapped so the flag reflects
// whether the model or the fallback produced them.
type AIHandler struct {
	BaseHandler
	ai *appai.Service
}

// NewAIHandler creates an AI handler
func NewAIHandler(ai *appai.Service) *AIHandler {
	return &AIHandler{ai: ai}
}

type analyzeTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalyzeTask handles POST /api/ai/analyze-task
func (h *AIHandler) AnalyzeTask(c *gin.Context) {
	var req analyzeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		h.BadRequest(c, "title is required")
		return
	}

	c.JSON(http.StatusOK, h.ai.AnalyzeTask(c.Request.Context(), req.Title, req.Description))
}

// SuggestPriority handles POST /api/ai/suggest-priority
func (h *AIHandler) SuggestPriority(c *gin.Context) {
	var req analyzeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = analyzeTaskRequest{}
	}

	analysis := h.ai.AnalyzeTask(c.Request.Context(), req.Title, req.Description)
	c.JSON(http.StatusOK, gin.H{
		"success":  analysis.Success,
		"priority": analysis.Priority,
	})
}

// SuggestDeadline handles POST /api/ai/suggest-deadline
func (h *AIHandler) SuggestDeadline(c *gin.Context) {
	var req analyzeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = analyzeTaskRequest{}
	}

	analysis := h.ai.AnalyzeTask(c.Request.Context(), req.Title, req.Description)
	c.JSON(http.StatusOK, gin.H{
		"success":       analysis.Success,
		"deadline":      analysis.Deadline,
		"estimatedDays": analysis.EstimatedDays,
	})
}

// GetTips handles POST /api/ai/get-tips
func (h *AIHandler) GetTips(c *gin.Context) {
	var req analyzeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = analyzeTaskRequest{}
	}

	c.JSON(http.StatusOK, h.ai.SuggestTips(c.Request.Context(), req.Title, req.Description))
}
