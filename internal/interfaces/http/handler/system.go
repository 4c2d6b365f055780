package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/promanage/backend/internal/infrastructure/config"
)

// SystemHandler serves the landing and liveness endpoints
type SystemHandler struct {
	BaseHandler
	cfg *config.Config
	db  *gorm.DB
}

// NewSystemHandler creates a system handler
func NewSystemHandler(cfg *config.Config, db *gorm.DB) *SystemHandler {
	return &SystemHandler{cfg: cfg, db: db}
}

// Info handles GET /
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.cfg.App.Name,
		"status":  "running",
		"env":     h.cfg.App.Env,
	})
}

// Health handles GET /health with a database ping
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error"
	}
	if dbStatus != "ok" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
