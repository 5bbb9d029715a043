// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/fonds/internal/aspace"
	"github.com/starford/fonds/internal/auditlog"
	"github.com/starford/fonds/internal/bulk"
	"github.com/starford/fonds/internal/eadwatch"
	"github.com/starford/fonds/internal/progress"
)

// NewLogger builds the structured JSON logger and installs it as the
// default.
func NewLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// NewClient logs into the archival backend using the configured
// credentials.
func NewClient(ctx context.Context, cfg *Config, logger *slog.Logger) (*aspace.Client, error) {
	return aspace.New(ctx, aspace.Config{
		BaseURL:         cfg.Backend.URL,
		FrontendURL:     cfg.Backend.FrontendURL,
		Username:        cfg.Backend.Username,
		Password:        cfg.Backend.Password,
		Repository:      cfg.Backend.Repository,
		ExpiringSession: cfg.Backend.ExpiringSession,
		Retry: aspace.RetryPolicy{
			Attempts: cfg.Backend.Retry.Attempts,
			Backoff:  cfg.Backend.Retry.Backoff,
		},
		HTTPClient: &http.Client{Timeout: cfg.Backend.Timeout},
		Logger:     logger,
	})
}

// RunWatch starts the long-running watch service: the finding-aid drop
// directory watcher plus an event drain that logs every published progress
// event. It blocks until ctx is cancelled or a shutdown signal arrives.
func RunWatch(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := NewLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("backend_url", cfg.Backend.URL),
		slog.String("drop_dir", cfg.EAD.DropDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if cfg.EAD.DropDir == "" {
		return fmt.Errorf("ead drop_dir is required for watch mode")
	}
	if err := os.MkdirAll(cfg.EAD.DropDir, 0o755); err != nil {
		return fmt.Errorf("create drop dir: %w", err)
	}

	client, err := NewClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("backend login: %w", err)
	}
	defer func() {
		if err := client.Logout(context.Background()); err != nil {
			logger.Warn("logout failed", slog.String("error", err.Error()))
		}
	}()

	journal, err := auditlog.Open(cfg.Audit.SQLitePath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer journal.Close()

	broker := progress.NewBroker()
	defer broker.Close()

	watcher := eadwatch.New(client, cfg.EAD.DropDir, logger, broker)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	// Drain progress events into the log and the journal.
	events := broker.Subscribe()
	g.Go(func() error {
		defer broker.Unsubscribe(events)
		for {
			select {
			case <-gCtx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				logger.Info("progress",
					slog.String("op", ev.Op),
					slog.String("uri", ev.URI),
					slog.String("detail", ev.Detail))
				if _, err := journal.Append(ev.Op, 0, []bulk.ChangeEntry{
					{URI: ev.URI, Title: ev.Detail},
				}); err != nil {
					logger.Warn("journal append failed", slog.String("error", err.Error()))
				}
			}
		}
	})

	// Start the drop directory watcher.
	g.Go(func() error {
		return watcher.Run(gCtx)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch service error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watch service stopped")
	return nil
}
