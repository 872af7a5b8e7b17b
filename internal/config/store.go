package config

import (
	"fmt"
	"os"
)

// Store backends for sessions and the audit log.
const (
	StorePostgres = "postgres"
	StoreKV       = "kv"
)

const EnvStoreBackend = "JURISPANEL_STORE_BACKEND"

// StoreConfig selects where sessions and audit entries are persisted.
type StoreConfig struct {
	Backend string `toml:"backend"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StoreConfig) Finalize() error {
	if c.Backend == "" {
		c.Backend = StoreKV
	}
	if v := os.Getenv(EnvStoreBackend); v != "" {
		c.Backend = v
	}
	if c.Backend != StorePostgres && c.Backend != StoreKV {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	Namespace string `toml:"namespace"`
	Path      string `toml:"path"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MetricsConfig) Finalize() error {
	if c.Namespace == "" {
		c.Namespace = "jurispanel"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if v := os.Getenv("JURISPANEL_METRICS_PATH"); v != "" {
		c.Path = v
	}
	if c.Path[0] != '/' {
		return fmt.Errorf("path must start with /: %s", c.Path)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *MetricsConfig) Merge(overlay *MetricsConfig) {
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}
