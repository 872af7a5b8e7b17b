package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/pkg/metrics"
)

// SettingsSource resolves the active provider and its options at call time.
type SettingsSource interface {
	Active(ctx context.Context) (string, Options, error)
}

// System runs extraction calls against whichever provider is active.
type System interface {
	Extract(ctx context.Context, doc Document) ([]RawCase, error)
	ExtractMetadata(ctx context.Context, doc Document) (cases.Metadata, error)
}

type gateway struct {
	registry *Registry
	source   SettingsSource
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates the gateway system. metrics may be nil.
func New(registry *Registry, source SettingsSource, m *metrics.Metrics, logger *slog.Logger) System {
	return &gateway{
		registry: registry,
		source:   source,
		metrics:  m,
		logger:   logger.With("system", "gateway"),
	}
}

func (g *gateway) resolve(ctx context.Context) (Provider, error) {
	name, opts, err := g.source.Active(ctx)
	if err != nil {
		return nil, err
	}
	return g.registry.Provider(ctx, name, opts)
}

func (g *gateway) observe(provider, operation string, err error, start time.Time) {
	elapsed := time.Since(start)
	if g.metrics != nil {
		g.metrics.ObserveGatewayCall(provider, operation, err, elapsed)
	}
	if err != nil {
		g.logger.Error("provider call failed", "provider", provider, "operation", operation, "error", err, "elapsed", elapsed)
		return
	}
	g.logger.Info("provider call completed", "provider", provider, "operation", operation, "elapsed", elapsed)
}

func (g *gateway) Extract(ctx context.Context, doc Document) ([]RawCase, error) {
	p, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := p.Extract(ctx, doc)
	g.observe(p.Name(), "extract", err, start)
	return raw, err
}

func (g *gateway) ExtractMetadata(ctx context.Context, doc Document) (cases.Metadata, error) {
	p, err := g.resolve(ctx)
	if err != nil {
		return cases.Metadata{}, err
	}

	start := time.Now()
	md, err := p.ExtractMetadata(ctx, doc)
	g.observe(p.Name(), "metadata", err, start)
	return md, err
}
