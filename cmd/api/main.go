package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innovation-portal-api/config"
	"innovation-portal-api/controllers"
	"innovation-portal-api/middleware"
	"innovation-portal-api/models"
	"innovation-portal-api/monitor"
	"innovation-portal-api/repository"
	"innovation-portal-api/routes"
	"innovation-portal-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger, logFile := config.InitLogging(cfg)
	if logFile != nil {
		defer logFile.Close()
	}
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// Set Gin mode
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitor.NewMetrics(registry)

	var notifier services.DecisionNotifier
	if cfg.SMTP.Enabled() {
		notifier = services.NewMailNotifier(config.NewMailer(cfg.SMTP), store.Users)
	} else {
		logger.Info("SMTP not configured, decision e-mails disabled")
	}

	settings := services.NewSettingsService(store.Settings, logger)
	workflows := services.NewWorkflowService(store.Workflows, metrics, logger)
	stages := services.NewStageStateService(store, notifier, metrics, logger)
	scoring := services.NewScoringService(store, settings, metrics, logger)
	ideas := services.NewIdeaService(store, stages, scoring, settings, logger)
	handler := controllers.NewHandler(controllers.Services{
		Workflows: workflows,
		Stages:    stages,
		Scoring:   scoring,
		Settings:  settings,
		Ideas:     ideas,
	}, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.HTTPMetrics(metrics))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	monitor.RegisterMonitorRoutes(router, registry, store.Ping)
	routes.SetupRoutes(router, handler, middleware.AuthMiddleware(cfg.JWTSecret, store.Users, logger))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("db_driver", cfg.DBDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// openStore returns the gorm-backed store, or the in-memory store when
// DB_DRIVER=memory. The memory store is seeded from MEMORY_SEED_FILE.
func openStore(cfg config.AppConfig, logger *zap.Logger) (*repository.Store, error) {
	if cfg.DBDriver != "memory" {
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", zap.String("driver", cfg.DBDriver), zap.Bool("auto_migrate", cfg.AutoMigrate))
		return repository.NewGormStore(db), nil
	}

	mem := repository.NewMemoryStore()
	store := mem.Store()
	path := os.Getenv("MEMORY_SEED_FILE")
	if path == "" {
		logger.Warn("memory store started without MEMORY_SEED_FILE, no users can authenticate")
		return store, nil
	}

	seed, err := config.LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	for _, user := range seed.Users {
		mem.PutUser(models.User{UserID: user.ID, Email: user.Email, DisplayName: user.Name, RoleName: user.Role})
	}
	if len(seed.Workflow.Stages) > 0 {
		workflows := services.NewWorkflowService(store.Workflows, nil, logger)
		if _, err := workflows.CreateAndActivate(context.Background(), seed.Workflow.Stages, seed.Workflow.CreatedBy); err != nil {
			return nil, err
		}
	}
	logger.Info("memory store seeded", zap.String("path", path), zap.Int("users", len(seed.Users)))
	return store, nil
}
