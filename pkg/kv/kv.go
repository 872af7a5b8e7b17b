// Package kv provides the small persistent key-value store behind identifier
// counters, the extraction cache, AI settings, and the local session store.
// Backends: in-memory (tests), SQLite (single-user local mode), and Redis.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/jurispanel/pkg/lifecycle"
)

// ErrNotFound indicates the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is a string-keyed byte store with an atomic counter primitive.
type Store interface {
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Incr atomically increments the integer stored at key, starting from zero,
	// and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Keys returns all keys that start with prefix, in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases the underlying resources.
	Close() error
}

// New creates the store selected by cfg.Backend.
func New(cfg *Config, logger *slog.Logger) (Store, error) {
	logger = logger.With("system", "kv", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return NewSQLite(cfg.Path, logger)
	case BackendRedis:
		return NewRedis(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown kv backend %q", cfg.Backend)
	}
}

// GetJSON decodes the JSON value stored at key into T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T

	data, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// SetJSON encodes v as JSON and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
