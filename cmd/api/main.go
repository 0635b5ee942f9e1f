// Package main is the entry point for the specdeck server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pkordes/specdeck/internal/cache"
	"github.com/pkordes/specdeck/internal/config"
	"github.com/pkordes/specdeck/internal/github"
	"github.com/pkordes/specdeck/internal/handler"
	"github.com/pkordes/specdeck/internal/metrics"
	"github.com/pkordes/specdeck/internal/middleware"
	"github.com/pkordes/specdeck/internal/repo"
	"github.com/pkordes/specdeck/internal/service"
	"github.com/pkordes/specdeck/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.AutoMigrate {
		// goose needs database/sql; borrow a connection from the pool.
		db := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(ctx, db)
		_ = db.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	// --- Content cache ----------------------------------------------------
	var store cache.Store
	switch {
	case cfg.CacheTTL == 0:
		store = cache.Nop{}
		slog.Info("content cache disabled")
	case cfg.RedisURL != "":
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL, logger)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() { _ = rc.Close() }()
		store = rc
		slog.Info("content cache: redis", "ttl", cfg.CacheTTL.String())
	default:
		store = cache.NewMemory(cfg.CacheTTL)
		slog.Info("content cache: memory", "ttl", cfg.CacheTTL.String())
	}

	// --- Services ---------------------------------------------------------
	gh := github.NewClient(
		github.WithBaseURL(cfg.GitHubAPIURL),
		github.WithTimeout(cfg.GitHubTimeout),
	)
	// A token change flushes this store; fetches started before it are not cached.
	versioned := cache.NewVersioned(store)
	settings := service.NewSettingsService(repo.NewSettingRepo(pool), versioned)
	docs := service.NewDocumentService(repo.NewDocumentRepo(pool), gh, settings, versioned, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(metrics.Middleware)
	r.Use(chimiddleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	}
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", metrics.Handler())
	handler.NewServer(docs, settings, logger).Register(r)

	// --- HTTP Server ------------------------------------------------------
	// A commit fallback makes up to four GitHub calls, each bounded by the
	// GitHub timeout; the write deadline leaves room for all of them.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 4*cfg.GitHubTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
