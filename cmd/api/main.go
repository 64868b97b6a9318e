// Package main is the entry point for the Lunisolar API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/zapponejosh/lunisolar-api/internal/almanac"
	"github.com/zapponejosh/lunisolar-api/internal/api"
	"github.com/zapponejosh/lunisolar-api/internal/config"
	"github.com/zapponejosh/lunisolar-api/internal/database"
	"github.com/zapponejosh/lunisolar-api/internal/logger"
	"github.com/zapponejosh/lunisolar-api/internal/scheduler"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting lunisolar API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return err
	}

	purged, err := db.PurgeAlmanac(ctx, almanac.SchemaVersion)
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Info("purged stale almanac rows", slog.Int64("rows", purged))
	}

	svc := almanac.NewService(db, log)

	sched := scheduler.New(log)
	if cfg.CacheWarmEnabled() {
		job := &scheduler.WarmJob{Warmer: svc, Span: cfg.CacheWarmSpan, Logger: log}
		if err := sched.AddJob(cfg.CacheWarmSchedule, job); err != nil {
			return fmt.Errorf("schedule %s: %w", job.Name(), err)
		}
		go sched.RunNow(ctx, job)
	}
	sched.Start()
	defer sched.Stop()

	handlers := api.NewHandlers(db, svc, cfg, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.SetupRoutes(handlers, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("lunisolar API ready", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
