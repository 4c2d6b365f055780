package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	aiapp "github.com/promanage/backend/internal/application/ai"
	identityapp "github.com/promanage/backend/internal/application/identity"
	notificationapp "github.com/promanage/backend/internal/application/notification"
	projectapp "github.com/promanage/backend/internal/application/project"
	taskapp "github.com/promanage/backend/internal/application/task"
	"github.com/promanage/backend/internal/domain/chat"
	"github.com/promanage/backend/internal/infrastructure/ai"
	"github.com/promanage/backend/internal/infrastructure/auth"
	"github.com/promanage/backend/internal/infrastructure/cache"
	"github.com/promanage/backend/internal/infrastructure/config"
	"github.com/promanage/backend/internal/infrastructure/logger"
	"github.com/promanage/backend/internal/infrastructure/mail"
	"github.com/promanage/backend/internal/infrastructure/persistence"
	"github.com/promanage/backend/internal/infrastructure/scheduler"
	"github.com/promanage/backend/internal/interfaces/http/handler"
	"github.com/promanage/backend/internal/interfaces/http/middleware"
	"github.com/promanage/backend/internal/interfaces/http/router"
	"github.com/promanage/backend/internal/interfaces/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ProManage backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	messageRepo := persistence.NewGormChatMessageRepository(db.DB)
	presenceRepo := persistence.NewGormPresenceRepository(db.DB)

	// Online set backed by Redis, falling back to the in-process set when
	// Redis is unreachable at startup
	var onlineSet chat.OnlineSet
	if redisSet, err := cache.NewRedisOnlineSet(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory online set", zap.Error(err))
		onlineSet = cache.NewInMemoryOnlineSet()
	} else {
		onlineSet = redisSet
		log.Info("Redis online set connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Outbound mail transport
	mailer, err := mail.NewMailer(&cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	log.Info("Mailer initialized", zap.String("transport", cfg.Mail.Transport))

	// Email template renderer
	renderer, err := notificationapp.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse email templates", zap.Error(err))
	}

	// Generative-text suggester; a null object serves the fixed fallbacks
	// when the feature is disabled
	var suggester ai.Suggester
	if cfg.AI.Enabled {
		s, err := ai.NewOpenAISuggester(&cfg.AI)
		if err != nil {
			log.Fatal("Failed to initialize AI suggester", zap.Error(err))
		}
		suggester = s
		log.Info("AI suggester enabled", zap.String("model", cfg.AI.Model))
	} else {
		suggester = ai.NewDisabledSuggester()
		log.Info("AI suggester disabled, serving fallback payloads")
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	notificationService := notificationapp.NewService(
		notificationRepo, taskRepo, renderer, mailer, cfg.Client.BaseURL, log,
	)
	aiService := aiapp.NewService(suggester, log)
	identityService := identityapp.NewService(
		profileRepo, jwtService, notificationService, cfg.Client.BaseURL, log,
	)
	projectService := projectapp.NewService(projectRepo, profileRepo, log)
	taskService := taskapp.NewService(taskRepo, projectRepo, profileRepo, notificationService, log)

	// Scheduled notification jobs
	loc := cfg.Scheduler.Location()
	deadlineJob := scheduler.NewDeadlineReminderJob(taskRepo, profileRepo, projectRepo, notificationService, loc, log)
	overdueJob := scheduler.NewOverdueReminderJob(taskRepo, profileRepo, projectRepo, notificationService, loc, log)
	digestJob := scheduler.NewDailyDigestJob(profileRepo, notificationService, log)
	sched, err := scheduler.NewNotificationScheduler(cfg.Scheduler, deadlineJob, digestJob, overdueJob, log)
	if err != nil {
		log.Fatal("Invalid scheduler configuration", zap.Error(err))
	}
	if err := sched.Start(context.Background()); err != nil {
		log.Fatal("Failed to start notification scheduler", zap.Error(err))
	}
	defer func() {
		if err := sched.Stop(context.Background()); err != nil {
			log.Error("Error stopping notification scheduler", zap.Error(err))
		}
	}()

	// Real-time relay hub
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	hub := ws.NewHub(messageRepo, presenceRepo, onlineSet, taskRepo, profileRepo, notificationService, jwtService, log)
	go hub.Run(hubCtx)

	upgrader := ws.NewUpgrader(cfg.HTTP.CORSAllowOrigins)
	wsHandler := ws.Handler(hub, upgrader, log)

	// HTTP handlers
	handlers := router.Handlers{
		System:       handler.NewSystemHandler(cfg, db.DB),
		Auth:         handler.NewAuthHandler(identityService),
		Employee:     handler.NewEmployeeHandler(identityService),
		AI:           handler.NewAIHandler(aiService),
		Notification: handler.NewNotificationHandler(notificationService, taskRepo, projectRepo, profileRepo, sched),
		Project:      handler.NewProjectHandler(projectService),
		Task:         handler.NewTaskHandler(taskService),
		Presence:     handler.NewPresenceHandler(onlineSet, presenceRepo, log),
		WS:           wsHandler,
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	router.Setup(engine, cfg, jwtService, handlers, log)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
