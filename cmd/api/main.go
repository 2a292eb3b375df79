// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

// Command api is the entry point for the Djembe HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL and run migrations (when configured).
//  4. Connect to Redis (when configured).
//  5. Wire the roster, session stores, and domain services.
//  6. Start HTTP server with graceful shutdown.
//
// Postgres and Redis are both optional: without them the server runs on the
// seeded in-memory roster and in-process session stores, which is the
// intended demo deployment. No business logic lives here; all wiring is
// explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/djembe-app/djembe/internal/api"
	"github.com/djembe-app/djembe/internal/notify"
	"github.com/djembe-app/djembe/internal/platform/config"
	"github.com/djembe-app/djembe/internal/platform/constants"
	"github.com/djembe-app/djembe/internal/platform/migration"
	pgstore "github.com/djembe-app/djembe/internal/platform/postgres"
	redisstore "github.com/djembe-app/djembe/internal/platform/redis"
	"github.com/djembe-app/djembe/internal/registration"
	"github.com/djembe-app/djembe/internal/users/admin"
	"github.com/djembe-app/djembe/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Djembe] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("email_configured", cfg.IsEmailConfigured()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	healthDeps := api.HealthDependencies{}

	// ── 3. Roster (PostgreSQL or seeded memory) ───────────────────────────
	var roster auth.Roster
	if cfg.DatabaseURL != "" {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		roster = auth.NewPostgresRoster(pool)
		healthDeps.CheckDatabase = func() error {
			return pgstore.Ping(context.Background(), pool)
		}
	} else {
		memoryRoster, err := auth.NewMemoryRoster()
		must(log, err, "seed demo roster")
		roster = memoryRoster
		log.Info("roster_memory_mode")
	}

	// ── 4. Session Stores (Redis or in-process) ───────────────────────────
	var loginSessions auth.SessionStore[auth.Session]
	var partnerSessions auth.SessionStore[auth.PartnerSession]
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		loginSessions = auth.NewRedisStore[auth.Session](rdb, constants.SessionKeyPrefixAuth)
		partnerSessions = auth.NewRedisStore[auth.PartnerSession](rdb, constants.SessionKeyPrefixPartner)
		healthDeps.CheckCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		loginSessions = auth.NewMemoryStore[auth.Session]()
		partnerSessions = auth.NewMemoryStore[auth.PartnerSession]()
		log.Info("sessions_memory_mode")
	}

	// ── 5. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(roster, loginSessions)
	partnerService := auth.NewPartnerService(partnerSessions, cfg.PartnerJWTSecret)
	authHandler := auth.NewHandler(authService, partnerService)

	adminService := admin.NewService(roster, authService)
	adminHandler := admin.NewHandler(adminService)

	dispatcher := notify.NewDispatcher(cfg, nil, log)
	registrationService := registration.NewService(dispatcher, cfg, log)
	registrationHandler := registration.NewHandler(registrationService)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         authHandler,
		Admin:        adminHandler,
		Registration: registrationHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
