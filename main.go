package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/config"
	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/handlers"
	"github.com/Rahelio/care-scot-sub003/pkg/logging"
	"github.com/Rahelio/care-scot-sub003/pkg/metrics"
	"github.com/Rahelio/care-scot-sub003/pkg/middleware"
	"github.com/Rahelio/care-scot-sub003/pkg/repositories"
	"github.com/Rahelio/care-scot-sub003/pkg/rules"
	"github.com/Rahelio/care-scot-sub003/pkg/services"
	"github.com/Rahelio/care-scot-sub003/pkg/workdays"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Bool("scheduler_enabled", cfg.Compliance.SchedulerEnabled),
		zap.Int("concurrency", cfg.Compliance.Concurrency),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := database.Migrate(cfg.Database.ConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.String("error", logging.SanitizeError(err)))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	calendar, err := workdays.LoadHolidays(cfg.Compliance.HolidaysPath)
	if err != nil {
		logger.Fatal("Failed to load holiday calendar", zap.Error(err))
	}

	m := metrics.New()

	organisationRepo := repositories.NewOrganisationRepository()
	stateRepo := repositories.NewComplianceStateRepository()
	notificationRepo := repositories.NewNotificationRepository()

	sink := services.NewNotificationSink(notificationRepo, m, logger)
	runner := services.NewComplianceRunner(db, organisationRepo, stateRepo, sink, rules.Catalogue(calendar), m, logger)
	fleet := services.NewFleetService(db, redisClient, organisationRepo, runner, cfg.Compliance, m, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewComplianceHandler(fleet, cfg.Compliance.SchedulerSecret, logger).RegisterRoutes(mux)
	handlers.NewNotificationsHandler(db, notificationRepo, cfg.Compliance.SchedulerSecret, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	if cfg.Compliance.SchedulerEnabled {
		fleet.StartScheduler(ctx)
	}

	server := &http.Server{
		Addr:    cfg.BindAddr + ":" + cfg.Port,
		Handler: middleware.RequestLogger(logger)(mux),
	}

	go func() {
		logger.Info("Starting carescot engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopmentConfig().Build()
	}
	return zap.NewProductionConfig().Build()
}
