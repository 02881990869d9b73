package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lavictoria/club-api/internal/bootstrap"
	"github.com/lavictoria/club-api/internal/config"
	"github.com/lavictoria/club-api/internal/photo"
	"github.com/lavictoria/club-api/internal/router"
	"github.com/lavictoria/club-api/internal/shared/clock"
	"github.com/lavictoria/club-api/internal/shared/database"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/metrics"
	sharedRedis "github.com/lavictoria/club-api/internal/shared/redis"
	"github.com/lavictoria/club-api/internal/shared/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	env := parseFlags()

	logger.Setup(env)
	slog.Info("Server initializing", "env", env)

	if err := run(env); err != nil {
		slog.Error("Server initialization failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped", "env", env)
}

func parseFlags() string {
	env := flag.String("env", "local", "Environment (local|dev|production)")
	flag.Parse()
	return *env
}

func run(env string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("Configuration loaded", "club_timezone", cfg.Club.Timezone)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Database close failed", "error", err)
		}
	}()

	redisClient, err := sharedRedis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		slog.Info("Redis connected, rate limits are shared")
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("Redis close failed", "error", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	photos, err := newPhotoStore(cfg, m)
	if err != nil {
		return fmt.Errorf("photo store: %w", err)
	}

	if err := validator.RegisterAll(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	boot := bootstrap.NewBootstrap(cfg, m)
	engine := boot.SetupEngine()

	app, err := router.Setup(engine, cfg, router.Infra{
		DB:       db,
		Redis:    redisClient,
		Registry: registry,
		Metrics:  m,
		Photos:   photos,
		Clock:    clock.NewSystemClock(),
	})
	if err != nil {
		return fmt.Errorf("setup routes: %w", err)
	}

	if _, err := app.Auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	slog.Info("Server configured", "env", cfg.App.Env)

	srv := bootstrap.New(cfg, engine)
	return startWithGracefulShutdown(ctx, srv, app, cfg.Server.GracefulTimeout)
}

// newPhotoStore returns Cloudinary behind the retry wrapper, or a store that rejects uploads
// when no credentials are configured outside production.
func newPhotoStore(cfg *config.Config, m *metrics.Metrics) (photo.Store, error) {
	if !cfg.Cloudinary.IsConfigured() {
		slog.Warn("Cloudinary is not configured, photo uploads will fail")
		return photo.DisabledStore{}, nil
	}

	store, err := photo.NewCloudinaryStore(cfg.Cloudinary)
	if err != nil {
		return nil, err
	}
	return photo.NewRetryingStore(store, cfg.Photo.MaxAttempts, cfg.Photo.RetryDelay, m), nil
}

func startWithGracefulShutdown(ctx context.Context, srv *bootstrap.Server, app *router.App, gracefulTimeout time.Duration) error {
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, gracefulTimeout)
		defer cancel()

		slog.Info("Shutting down server")
		err := srv.Shutdown(shutdownCtx)

		// websocket peers are hijacked and outlive Shutdown
		app.Hub.Close()
		app.Entries.Wait()

		if err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		return nil
	}
}
