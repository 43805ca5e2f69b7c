package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appearly/facegate/internal/api"
	"github.com/appearly/facegate/internal/config"
	"github.com/appearly/facegate/internal/database"
	"github.com/appearly/facegate/internal/detector"
	"github.com/appearly/facegate/internal/faceapi"
	"github.com/appearly/facegate/internal/repository"
	"github.com/appearly/facegate/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Facegate API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Run pending migrations on startup
	sqlDB, err := database.OpenSQL(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	migrator, err := database.NewMigrator(sqlDB, "facegate")
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	_ = migrator.Close()

	// Local detection pipeline. A failed cascade load degrades detection
	// instead of stopping startup; the constructor logs the condition.
	det := detector.New(detector.Config{
		CascadeDir:  cfg.CascadeDir,
		MinFaceSize: cfg.MinFaceSize,
	}, logger)
	defer det.Close()

	pipeline := detector.NewPipeline(det, detector.Cropper{
		MarginHorizontal: cfg.MarginHorizontal,
		MarginVertical:   cfg.MarginVertical,
	})

	// Recognition backend client
	client := faceapi.NewClient(faceapi.Config{
		BaseURL: cfg.FaceAPIURL,
		Timeout: 30 * time.Second,
	})

	// Services
	defaults := service.Defaults{
		Model:      cfg.DefaultModel,
		Threshold:  cfg.DefaultThreshold,
		MinQuality: cfg.DefaultMinQuality,
	}
	employeeRepo := repository.NewEmployeeRepository(pool)

	deps := &api.Dependencies{
		Registration: service.NewRegistrationService(pipeline, client, employeeRepo, defaults, logger),
		Recognition:  service.NewRecognitionService(pipeline, client, defaults, logger),
		Detection:    service.NewDetectService(pipeline, cfg.CropDumpDir, logger),
		Database:     service.NewDatabaseService(client, employeeRepo, defaults, logger),
		Pipeline:     pipeline,
		APIKey:       cfg.APIKey,
		DB:           pool,
	}

	// Setup router
	router := api.NewRouter(logger, deps)
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
