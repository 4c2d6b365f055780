package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promanage/backend/internal/infrastructure/auth"
	"github.com/promanage/backend/internal/infrastructure/config"
	applogger "github.com/promanage/backend/internal/infrastructure/logger"
	"github.com/promanage/backend/internal/interfaces/http/handler"
	"github.com/promanage/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	Employee     *handler.EmployeeHandler
	AI           *handler.AIHandler
	Notification *handler.NotificationHandler
	Project      *handler.ProjectHandler
	Task         *handler.TaskHandler
	Presence     *handler.PresenceHandler
	WS           gin.HandlerFunc
}

// Setup wires middleware and routes onto the engine. The API surface has
// no version prefix; everything except the public paths sits behind JWT.
func Setup(
	engine *gin.Engine,
	cfg *config.Config,
	jwtService *auth.JWTService,
	h Handlers,
	logger *zap.Logger,
) {
	engine.Use(middleware.RequestID())
	engine.Use(applogger.Recovery(logger))
	engine.Use(applogger.GinMiddleware(logger))
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg)))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Logger = logger
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	engine.GET("/", h.System.Info)
	engine.GET("/health", h.System.Health)
	engine.GET("/ws", h.WS)

	api := engine.Group("/api")
	{
		api.GET("/online-users", h.Presence.OnlineUsers)

		api.POST("/auth/login", h.Auth.Login)

		ai := api.Group("/ai")
		{
			ai.POST("/analyze-task", h.AI.AnalyzeTask)
			ai.POST("/suggest-priority", h.AI.SuggestPriority)
			ai.POST("/suggest-deadline", h.AI.SuggestDeadline)
			ai.POST("/get-tips", h.AI.GetTips)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.POST("/:id/read", h.Notification.MarkRead)
			notifications.POST("/read-all", h.Notification.MarkAllRead)
			notifications.POST("/task-assigned", h.Notification.TaskAssigned)
			notifications.POST("/task-completed", h.Notification.TaskCompleted)
			notifications.POST("/deadline-reminder", h.Notification.DeadlineReminder)
			notifications.POST("/daily-digest", h.Notification.DailyDigest)
			notifications.POST("/daily-digest-all", h.Notification.DailyDigestAll)
		}

		employees := api.Group("/employees")
		{
			employees.GET("", h.Employee.ListEmployees)
			employees.POST("/create-employee", h.Employee.CreateEmployee)
		}
		api.PUT("/profile/preferences", h.Employee.UpdatePreferences)

		projects := api.Group("/projects")
		{
			projects.POST("", h.Project.Create)
			projects.GET("", h.Project.List)
			projects.GET("/:id", h.Project.Get)
			projects.PUT("/:id", h.Project.Update)
			projects.DELETE("/:id", h.Project.Delete)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", h.Task.Create)
			tasks.GET("", h.Task.List)
			tasks.GET("/:id", h.Task.Get)
			tasks.PUT("/:id", h.Task.Update)
			tasks.PATCH("/:id/status", h.Task.UpdateStatus)
			tasks.DELETE("/:id", h.Task.Delete)
		}
	}
}

// corsConfig builds the CORS middleware config from application config
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		c.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		c.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		c.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return c
}
