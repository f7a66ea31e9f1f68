package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/config"
	"github.com/phuclong-auto/dealer-api/internal/database"
	"github.com/phuclong-auto/dealer-api/internal/http/handler"
	"github.com/phuclong-auto/dealer-api/internal/http/middleware"
	"github.com/phuclong-auto/dealer-api/internal/http/router"
	"github.com/phuclong-auto/dealer-api/internal/jobs"
	"github.com/phuclong-auto/dealer-api/internal/localstore"
	"github.com/phuclong-auto/dealer-api/internal/logger"
	"github.com/phuclong-auto/dealer-api/internal/repository"
	"github.com/phuclong-auto/dealer-api/internal/service"
	syncengine "github.com/phuclong-auto/dealer-api/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Remote database handle. Opened lazily so the dashboard boots and
	// works offline even when the remote is unreachable.
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open remote database handle: %w", err)
	}

	// Local sqlite mirror
	if err := os.MkdirAll(filepath.Dir(cfg.LocalStore.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create local store directory: %w", err)
	}
	local, err := localstore.NewStore(cfg.LocalStore.Path)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer func() { _ = local.Close() }()

	// Sync engine and coordinator
	remote := repository.NewRemoteStore(db)
	engine := syncengine.NewEngine(remote, local, log)
	coordinator, err := service.NewCoordinator(local, engine, log)
	if err != nil {
		return fmt.Errorf("failed to initialize coordinator: %w", err)
	}

	// Initialize middleware and handlers
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	vehicleHandler := handler.NewVehicleHandler(coordinator, log)
	staffHandler := handler.NewStaffHandler(coordinator, log)
	kpiHandler := handler.NewKpiHandler(coordinator, log)
	syncHandler := handler.NewSyncHandler(coordinator, log)
	dashboardHandler := handler.NewDashboardHandler(coordinator, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		local,
		rateLimiter,
		vehicleHandler,
		staffHandler,
		kpiHandler,
		syncHandler,
		dashboardHandler,
	)

	// Schedule the periodic sync job
	scheduler := jobs.NewScheduler(log)
	syncJob := jobs.NewSyncJob(coordinator, &cfg.Sync, log)
	if err := syncJob.Register(scheduler); err != nil {
		log.Error("Failed to register sync job", zap.Error(err))
	}
	scheduler.Start()

	if cfg.Sync.Enabled && cfg.Sync.SyncOnStartup {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Sync.TimeoutDuration())
			defer cancel()
			if result, err := coordinator.SyncNow(ctx); err != nil {
				log.Warn("startup sync failed", zap.Error(err))
			} else {
				log.Info("startup sync finished",
					zap.Bool("ok", result.OK),
					zap.String("message", result.Message))
			}
		}()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler; running jobs complete first
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
