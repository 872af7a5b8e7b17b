// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, persistence, storage, metrics) that domain
// systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/pkg/database"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/lifecycle"
	"github.com/JaimeStill/jurispanel/pkg/metrics"
	"github.com/JaimeStill/jurispanel/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless the postgres store backend is selected.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	KV        kv.Store
	Metrics   *metrics.Metrics
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Metrics:   metrics.New(cfg.Metrics.Namespace),
	}

	if cfg.Store.Backend == config.StorePostgres {
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	blobs, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	infra.Storage = blobs

	store, err := kv.New(&cfg.KV, logger)
	if err != nil {
		return nil, fmt.Errorf("kv init failed: %w", err)
	}
	infra.KV = store

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.KV.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("kv start failed: %w", err)
	}
	return nil
}

// Ready reports whether startup completed and the database, when configured,
// answered its ping.
func (i *Infrastructure) Ready() bool {
	if !i.Lifecycle.Ready() {
		return false
	}
	if i.Database != nil && !i.Database.Ready() {
		return false
	}
	return true
}
