// @title           Careform API
// @version         1.0
// @description     Care form building, submission and export API

// @contact.name   API Support
// @contact.email  support@careform.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /api/careform

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "careform-api/docs" // Swagger docs import

	"careform-api/internal/client"
	"careform-api/internal/config"
	"careform-api/internal/database"
	"careform-api/internal/job"
	"careform-api/internal/metrics"
	"careform-api/internal/repository"
	"careform-api/internal/router"
	"careform-api/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Careform API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	// Initialize database; startup survives a down database and retries in
	// the background so cluster probes keep the pod alive
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		database.NewAsync(dbConfig, 5*time.Second)
	} else {
		logger.Info("Database connected successfully")

		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}
	}

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	if db != nil {
		database.RegisterMetricsCallbacks(db, m)
		stopStats := database.StartDBStatsCollector(db, m)
		defer close(stopStats)
	}

	// Redis is optional; subscription caching degrades to billing calls
	if err := database.InitRedis(cfg, logger); err != nil {
		logger.Warn("Failed to connect to Redis, subscription caching disabled", zap.Error(err))
	}

	// Billing backend for plan limits and checkout
	var billingClient client.BillingClient
	if cfg.Billing.BaseURL != "" {
		billingClient = client.NewBillingClient(cfg.Billing.BaseURL, cfg.Billing.APIKey, cfg.Billing.Timeout, logger, m)
		logger.Info("Billing client initialized", zap.String("billing_api_url", cfg.Billing.BaseURL))
	} else {
		billingClient = client.NewNoOpBillingClient()
		logger.Warn("Billing configuration incomplete, every business runs on the free plan")
	}

	// Export artifact storage
	var storageClient client.StorageClientInterface
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		sc, err := client.NewStorageClient(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize storage client, export downloads disabled", zap.Error(err))
		} else {
			storageClient = sc
			logger.Info("Storage client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, export downloads disabled")
	}

	// Repositories and services
	businessRepo := repository.NewBusinessRepository(db)
	clientRepo := repository.NewClientRepository(db)
	formRepo := repository.NewFormRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	userRepo := repository.NewUserRepository(db)

	businessService := service.NewBusinessService(
		businessRepo, clientRepo, formRepo, submissionRepo, userRepo,
		billingClient, database.GetRedis(), cfg.Billing.CacheTTL, logger,
	)
	clientService := service.NewClientService(clientRepo, businessService, logger)
	formService := service.NewFormService(formRepo, businessService, m, logger)
	submissionService := service.NewSubmissionService(submissionRepo, formRepo, clientRepo, businessService, m, logger)
	exportService := service.NewExportService(submissionRepo, formRepo, clientRepo, userRepo, businessService, storageClient, m, logger)

	// Periodic business gauges for the dashboard
	var collector *metrics.BusinessMetricsCollector
	if db != nil {
		collector = metrics.NewBusinessMetricsCollector(db, m, logger)
		collector.Start()
		defer collector.Stop()
	}

	// Stale-draft cleanup on a cron schedule
	cleanupJob := job.NewCleanupJob(submissionRepo, cfg.Cleanup.DraftRetentionDays, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddJob(cfg.Cleanup.Schedule, cleanupJob); err != nil {
		logger.Warn("Failed to schedule cleanup job", zap.Error(err))
	} else {
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Cleanup job scheduled",
			zap.String("schedule", cfg.Cleanup.Schedule),
			zap.Int("draft_retention_days", cfg.Cleanup.DraftRetentionDays),
		)
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		Logger:            logger,
		JWTSecret:         cfg.JWT.Secret,
		BasePath:          cfg.Server.BasePath,
		Metrics:           m,
		BusinessService:   businessService,
		ClientService:     clientService,
		FormService:       formService,
		SubmissionService: submissionService,
		ExportService:     exportService,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Careform API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
