package extraction

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/metrics"
)

const cachePrefix = "cache_"

// Cache stores normalized case lists by content hash.
type Cache struct {
	store   kv.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCache creates a cache over store.
func NewCache(store kv.Store, m *metrics.Metrics, logger *slog.Logger) *Cache {
	return &Cache{
		store:   store,
		metrics: m,
		logger:  logger.With("system", "extraction-cache"),
	}
}

// Key returns the store key for a content hash.
func Key(hash string) string {
	return cachePrefix + hash
}

// Get returns the cached list for hash. Read failures count as a miss.
func (c *Cache) Get(ctx context.Context, hash string) ([]cases.Case, bool) {
	list, err := kv.GetJSON[[]cases.Case](ctx, c.store, Key(hash))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			c.logger.Warn("cache read failed", "hash", hash, "error", err)
		}
		c.metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	c.metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return list, true
}

// Put writes list under hash. Failures are logged and dropped.
func (c *Cache) Put(ctx context.Context, hash string, list []cases.Case) {
	if err := kv.SetJSON(ctx, c.store, Key(hash), list); err != nil {
		c.metrics.CacheWriteFailures.Inc()
		c.logger.Warn("cache write failed", "hash", hash, "error", err)
	}
}
