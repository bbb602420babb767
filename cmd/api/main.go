package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/hammadpk/engine/internal/auth"
	"github.com/hammadpk/engine/internal/config"
	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/handlers"
	"github.com/hammadpk/engine/internal/metrics"
	"github.com/hammadpk/engine/internal/referral"
	"github.com/hammadpk/engine/internal/router"
	"github.com/hammadpk/engine/internal/scheduler"
	"github.com/hammadpk/engine/internal/snapshot"
	"github.com/hammadpk/engine/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running before starting the engine", "error", err)
		os.Exit(1)
	}

	// River migrations (scheduled timed-task completions)
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed", "error", err)
		os.Exit(1)
	}

	// Snapshot store: restore the last committed state document, or start
	// from the seeded defaults on first boot.
	snapshots := snapshot.NewRepository(pool)
	if err := snapshots.Init(ctx); err != nil {
		slog.Error("Failed to init snapshot store", "error", err)
		os.Exit(1)
	}
	state, err := snapshots.Load(ctx)
	if err != nil {
		slog.Error("Failed to load snapshot", "error", err)
		os.Exit(1)
	}
	if state == nil {
		slog.Info("No snapshot found, starting with seeded state")
	} else {
		slog.Info("Restored state snapshot", "accounts", len(state.Accounts))
	}

	st := store.New(state, snapshots, logger)
	collector := metrics.NewCollector()
	eng := engine.New(st, collector, logger)

	// Timed-task enqueue is set after the River client is created (breaks
	// the init cycle between engine and worker).
	var insertMu sync.Mutex
	var insertFn engine.EnqueueCompletionFunc
	eng.SetEnqueueCompletion(func(ctx context.Context, token uuid.UUID, runAt time.Time) error {
		insertMu.Lock()
		fn := insertFn
		insertMu.Unlock()
		if fn == nil {
			panic("river insert not wired")
		}
		return fn(ctx, token, runAt)
	})

	workers := river.NewWorkers()
	river.AddWorker(workers, scheduler.NewCompleteTimedTaskWorker(eng))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	insertMu.Lock()
	insertFn = func(ctx context.Context, token uuid.UUID, runAt time.Time) error {
		_, err := riverClient.Insert(ctx, scheduler.CompleteTimedTaskArgs{Token: token}, &river.InsertOpts{
			ScheduledAt: runAt,
		})
		return err
	}
	insertMu.Unlock()

	authSvc := auth.NewService(st, cfg.JWTSecret)
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Warn("Admin account not seeded (admin routes unusable until configured)", "error", err)
	}

	graph := referral.New(st)
	authHandler := auth.NewHandler(authSvc, logger)
	accountHandler := &handlers.AccountHandler{Engine: eng, AuthSvc: authSvc, Graph: graph, Logger: logger}
	walletHandler := &handlers.WalletHandler{Engine: eng, Logger: logger}
	taskHandler := &handlers.TaskHandler{Engine: eng, Logger: logger}
	adminHandler := &handlers.AdminHandler{Engine: eng, AuthSvc: authSvc, Logger: logger}

	apiRouter := router.New(eng, authSvc, authHandler, accountHandler, walletHandler, taskHandler, adminHandler)

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("GET /metrics", collector.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	// Start River client (fires scheduled completions)
	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	serverAddr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
