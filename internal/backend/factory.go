// Package backend assembles the storage, services and messaging stack for a
// configured deployment.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"finanzas/internal/amqp"
	"finanzas/internal/config"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// Result bundles the wired services with their cleanup.
type Result struct {
	Ledger    *services.Ledger
	Scheduler *services.Scheduler
	Analytics *services.Analytics
	AMQP      *amqp.Client // nil when no broker is configured
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, cfg *config.Config) (*Result, error)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg *config.Config) (*Result, error) {
	var store storage.Store

	switch cfg.DataBackend {
	case "sqlite":
		sqliteStore, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		store = sqliteStore
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	case "memory":
		store = storage.NewMemoryStore()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}

	debounced := storage.NewDebounced(store, cfg.SaveDebounce)

	// AMQP is optional: without a broker the alert feed is HTTP-only.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without alerts broker", "error", err)
		} else {
			amqpClient = client
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	ledger, scheduler := services.Open(ctx, debounced)

	cleanup := func() error {
		err := debounced.Close()
		if cerr := amqpClient.Close(); err == nil {
			err = cerr
		}
		return err
	}

	return &Result{
		Ledger:    ledger,
		Scheduler: scheduler,
		Analytics: services.NewAnalytics(ledger),
		AMQP:      amqpClient,
		Cleanup:   cleanup,
	}, nil
}
