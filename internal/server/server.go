// Package server owns the process lifecycle: config, connections, the
// scheduler, and a graceful HTTP shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/sklad/app/services"
	"github.com/shashiranjanraj/sklad/config"
	_ "github.com/shashiranjanraj/sklad/database/migrations"
	"github.com/shashiranjanraj/sklad/internal/kernel"
	"github.com/shashiranjanraj/sklad/pkg/cache"
	"github.com/shashiranjanraj/sklad/pkg/database"
	"github.com/shashiranjanraj/sklad/pkg/logger"
	"github.com/shashiranjanraj/sklad/pkg/migration"
	"github.com/shashiranjanraj/sklad/pkg/schedule"
	"github.com/shashiranjanraj/sklad/pkg/storage"
)

// Start boots the service and blocks until a shutdown signal arrives.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: connect database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		// Redis is optional; sessions degrade to per-request and cached
		// reads fall through to the database.
		logger.Warn("redis unavailable, continuing without cache", "error", err)
	}

	if err := migration.NewRunner(database.DB).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	disk, err := storage.Default()
	if err != nil {
		return fmt.Errorf("server: storage: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := services.NewLoginLimiter(database.DB,
		config.LoginMaxAttempts(), config.LoginWindowMinutes())
	schedule.Every(15).Minutes().Name("login-attempts-sweep").WithoutOverlapping().Run(func() {
		n, err := limiter.Sweep(context.Background())
		if err != nil {
			logger.Error("login attempt sweep failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("swept stale login attempts", "rows", n)
		}
	})
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.New(database.DB, disk),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
