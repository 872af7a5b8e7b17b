// Package extraction turns a session document into a normalized, ordered
// case list, consulting a content-addressed cache before calling the model.
package extraction

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/gateway"
	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/pkg/contenthash"
	"github.com/JaimeStill/jurispanel/pkg/metrics"
)

// Result is the outcome of one pipeline run.
type Result struct {
	Cases  []cases.Case
	Hash   string
	Cached bool
}

// Pipeline runs document extraction.
type Pipeline struct {
	gateway gateway.System
	cache   *Cache
	ids     ids.Allocator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a pipeline.
func New(gw gateway.System, cache *Cache, alloc ids.Allocator, m *metrics.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		gateway: gw,
		cache:   cache,
		ids:     alloc,
		metrics: m,
		logger:  logger.With("system", "extraction"),
	}
}

// Run extracts the case list from doc. Cached lists receive fresh case IDs
// so two sessions built from the same document never share identifiers.
func (p *Pipeline) Run(ctx context.Context, doc gateway.Document) (*Result, error) {
	start := time.Now()
	hash := contenthash.Sum(doc.HashInput())

	if cached, ok := p.cache.Get(ctx, hash); ok {
		list, err := p.reissue(ctx, cached)
		if err != nil {
			p.metrics.ExtractionsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		p.finish(start, "cached", len(list))
		p.logger.Info("extraction served from cache", "hash", hash, "cases", len(list))
		return &Result{Cases: sortByChamada(list), Hash: hash, Cached: true}, nil
	}

	raw, err := p.gateway.Extract(ctx, doc)
	if err != nil {
		p.metrics.ExtractionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	list := make([]cases.Case, 0, len(raw))
	for i, r := range raw {
		c, err := normalize(r, i)
		if err != nil {
			p.logger.Warn("skipping malformed record", "index", i, "error", err)
			continue
		}

		id, err := p.ids.Next(ctx, ids.Case)
		if err != nil {
			p.metrics.ExtractionsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("assign case id: %w", err)
		}
		c.ID = id
		c.ContentHash = hash
		list = append(list, c)
	}

	list = sortByChamada(list)
	p.cache.Put(ctx, hash, list)

	p.finish(start, "extracted", len(list))
	p.logger.Info("extraction completed", "hash", hash, "records", len(raw), "cases", len(list))

	return &Result{Cases: list, Hash: hash}, nil
}

func (p *Pipeline) reissue(ctx context.Context, cached []cases.Case) ([]cases.Case, error) {
	list := cases.CloneAll(cached)
	for i := range list {
		id, err := p.ids.Next(ctx, ids.Case)
		if err != nil {
			return nil, fmt.Errorf("assign case id: %w", err)
		}
		list[i].ID = id
		list[i].Note = nil
		list[i].Vote = nil
	}
	return list, nil
}

func (p *Pipeline) finish(start time.Time, outcome string, count int) {
	p.metrics.ExtractionsTotal.WithLabelValues(outcome).Inc()
	p.metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	p.metrics.CasesExtracted.Add(float64(count))
}

func sortByChamada(list []cases.Case) []cases.Case {
	slices.SortStableFunc(list, func(a, b cases.Case) int {
		return cmp.Compare(a.Chamada, b.Chamada)
	})
	return list
}
