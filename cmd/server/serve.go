package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pota-logger/backend/internal/api"
	"github.com/pota-logger/backend/internal/hunt"
	"github.com/pota-logger/backend/internal/pota"
	"github.com/pota-logger/backend/internal/radio"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/websocket"
)

// openDB opens the configured database and applies pending migrations.
func (a *app) openDB() (*storage.DB, error) {
	db, err := storage.Open(a.cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := storage.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	slog.Info("starting POTA logger", "version", version, "addr", cfg.Addr)

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database ready", "dialect", db.Dialect(), "path", db.Path())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	potaClient := pota.NewClient(cfg.POTA())
	huntService := hunt.NewService(potaClient, storage.NewQSORepository(db))

	watcher := hunt.NewWatcher(huntService, websocket.NewEventBroadcaster(hub), cfg.SpotPollInterval)
	if err := watcher.Start(); err != nil {
		slog.Warn("failed to start spot watcher", "error", err)
	}
	defer watcher.Stop()

	router := api.NewRouter(api.Services{
		DB:          db,
		Hub:         hub,
		Parks:       potaClient,
		Spots:       huntService,
		Tuner:       radio.NewBridge(cfg.RadioTimeout),
		Watcher:     watcher,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
		Version:     version,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
