package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"reqgen/internal/config"
	"reqgen/internal/jobs"
	"reqgen/internal/middleware"
	"reqgen/internal/repository"
	"reqgen/internal/seed"
)

const maxLogFiles = 10

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, maxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open storage
	repos, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer repos.Close()

	// Seed demo accounts
	if cfg.SeedDemoUsers {
		created, err := seed.NewUserSeeder(repos.Users, logger).Seed(ctx)
		if err != nil {
			log.Fatalf("Failed to seed demo users: %v", err)
		}
		logger.Info("demo users seeded", "created", created)
	}

	// Periodic snapshot of the in-memory store
	scheduler := jobs.NewScheduler(logger)
	if repos.Memory != nil && cfg.SnapshotPath != "" {
		if err := scheduler.AddSnapshotFlush(cfg.SnapshotSchedule, cfg.SnapshotPath, repos.Memory); err != nil {
			log.Fatalf("Failed to schedule snapshot flush: %v", err)
		}
	}
	scheduler.Start()

	app, err := newApp(cfg, repos, logger)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer app.verifier.Close()

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	app.handlers.Register(mux, app.authorizer)

	// Build middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → request logging → Auth → Routes
	handler = middleware.AuthMiddleware(app.verifier, cfg.AllowHeaderIdentity, logger)(handler)
	handler = middleware.RequestLogger(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			middleware.HeaderUserID, middleware.HeaderUserRole, middleware.HeaderUserName,
		},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	handler = corsHandler.Handler(handler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute, // Document generation may take up to 300s
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	scheduler.Stop()
	if repos.Memory != nil && cfg.SnapshotPath != "" {
		jobs.FlushSnapshot(repos.Memory, cfg.SnapshotPath, logger)
	}

	logger.Info("server stopped")
}
