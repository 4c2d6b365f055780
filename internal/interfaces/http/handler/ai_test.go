package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appai "github.com/promanage/backend/internal/application/ai"
	"github.com/promanage/backend/internal/infrastructure/ai"
)

func newAIEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := appai.NewService(ai.NewDisabledSuggester(), zap.NewNop())
	h := NewAIHandler(svc)

	engine := gin.New()
	engine.POST("/api/ai/analyze-task", h.AnalyzeTask)
	engine.POST("/api/ai/suggest-priority", h.SuggestPriority)
	engine.POST("/api/ai/suggest-deadline", h.SuggestDeadline)
	engine.POST("/api/ai/get-tips", h.GetTips)
	return engine
}

func postJSON(engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAnalyzeTask_MissingTitle400(t *testing.T) {
	engine := newAIEngine()
	w := postJSON(engine, "/api/ai/analyze-task", map[string]string{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeTask_FallbackShapeAlways200(t *testing.T) {
	engine := newAIEngine()
	w := postJSON(engine, "/api/ai/analyze-task", map[string]string{"title": "Plan sprint"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success       bool   `json:"success"`
		Priority      string `json:"priority"`
		EstimatedDays int    `json:"estimatedDays"`
		Deadline      string `json:"deadline"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "medium", body.Priority)
	assert.Equal(t, 7, body.EstimatedDays)
	assert.NotEmpty(t, body.Deadline)
}

func TestSuggestPriority_Fallback(t *testing.T) {
	engine := newAIEngine()
	w := postJSON(engine, "/api/ai/suggest-priority", map[string]string{"title": "Plan sprint"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"priority":"medium"`)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestGetTips_FallbackAlways200(t *testing.T) {
	engine := newAIEngine()
	w := postJSON(engine, "/api/ai/get-tips", map[string]string{"title": "Plan sprint"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool     `json:"success"`
		Tips    []string `json:"tips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Tips)
}
