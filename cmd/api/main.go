// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the StaffHub HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire token service and domain services.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/taibuivan/staffhub/internal/api"
	"github.com/taibuivan/staffhub/internal/auth"
	"github.com/taibuivan/staffhub/internal/core/accesslog"
	"github.com/taibuivan/staffhub/internal/core/employee"
	"github.com/taibuivan/staffhub/internal/core/leave"
	"github.com/taibuivan/staffhub/internal/core/message"
	"github.com/taibuivan/staffhub/internal/core/note"
	"github.com/taibuivan/staffhub/internal/core/notification"
	"github.com/taibuivan/staffhub/internal/platform/config"
	"github.com/taibuivan/staffhub/internal/platform/constants"
	"github.com/taibuivan/staffhub/internal/platform/migration"
	pgstore "github.com/taibuivan/staffhub/internal/platform/postgres"
	"github.com/taibuivan/staffhub/internal/platform/queue"
	redisstore "github.com/taibuivan/staffhub/internal/platform/redis"
	"github.com/taibuivan/staffhub/internal/platform/sec"
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

	log.Info("[StaffHub] service_initializing")

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
	)

	// The built-in dev secrets are public knowledge; refuse to serve real
	// traffic with them.
	if cfg.UsingDefaultSecrets() {
		if cfg.IsProduction() {
			must(log, errors.New("default token secrets in production"), "verify token secrets")
		}
		log.Warn("using_default_token_secrets")
	}

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	tokenService := sec.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		constants.AuthIssuer,
		constants.AccessTokenTTL,
		constants.RefreshTokenTTL,
	)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	publisher := queue.NewPublisher(cfg.AMQPURL, log)

	accessLogService := accesslog.NewService(accesslog.NewPostgresRepository(pool), log)
	accessLogHandler := accesslog.NewHandler(accessLogService)

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewRefreshTokenRepository(pool),
		auth.NewResetTokenRepository(rdb),
		tokenService,
		accessLogService,
		log,
		cfg.InsecureDemoReset,
	)
	oauthManager := auth.NewOAuthManager(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	authHandler := auth.NewHandler(authService, oauthManager)

	employeeService := employee.NewService(employee.NewPostgresRepository(pool), log)
	employeeHandler := employee.NewHandler(employeeService, authService)

	notificationService := notification.NewService(
		notification.NewPostgresRepository(pool),
		employeeService,
		publisher,
		log,
	)
	notificationHandler := notification.NewHandler(notificationService)

	leaveService := leave.NewService(
		leave.NewPostgresRepository(pool),
		employeeService,
		notificationService,
		accessLogService,
		log,
	)
	leaveHandler := leave.NewHandler(leaveService, authService)

	noteService := note.NewService(note.NewPostgresRepository(pool), log)
	noteHandler := note.NewHandler(noteService)

	messageService := message.NewService(message.NewPostgresRepository(pool), log)
	messageHandler := message.NewHandler(messageService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         authHandler,
		Employee:     employeeHandler,
		Leave:        leaveHandler,
		Note:         noteHandler,
		Message:      messageHandler,
		Notification: notificationHandler,
		AccessLog:    accessLogHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, tokenService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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
