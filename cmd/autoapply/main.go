package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"autoapply/internal/api"
	"autoapply/internal/config"
	"autoapply/internal/coordinator"
	"autoapply/internal/filler"
	"autoapply/internal/monitoring"
	"autoapply/internal/session"
	"autoapply/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// Initialize Storage Layer
	redisStore := storage.NewRedisStore(cfg.RedisAddr)

	// The application tracker is an external collaborator: run without it
	// when no postgres is configured, filling still works.
	var pgStore *storage.PostgresStore
	if cfg.PostgresURL != "" {
		pgStore, err = storage.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
	}

	metrics := monitoring.NewMetrics()

	// Background coordinator owns profile, settings, and the daily quota.
	var apps coordinator.ApplicationStore
	if pgStore != nil {
		apps = pgStore
	}
	coord := coordinator.New(redisStore, apps, coordinator.Defaults{
		AutoApplyEnabled:      cfg.AutoApplyEnabled,
		DailyApplicationLimit: cfg.DailyApplicationLimit,
	}, metrics, logger)
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	if err := coord.Start(startCtx); err != nil {
		cancelStart()
		logger.Fatal("could not start coordinator", zap.Error(err))
	}
	cancelStart()

	// Page sessions drive the browser.
	sessions := session.NewManager(session.Config{
		Headless:           cfg.Headless,
		PageTimeout:        time.Duration(cfg.PageTimeout) * time.Second,
		MutationDebounceMs: cfg.MutationDebounceMs,
		ProxyURLs:          splitProxies(cfg.ProxyURLs),
	}, coord, filler.New(logger), metrics, logger)

	// Initialize API Server
	server := api.NewServer(cfg, coord, sessions, pgStore, redisStore, metrics, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessions.CloseAll()
	coord.Stop()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

func splitProxies(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
