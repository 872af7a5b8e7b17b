package gateway

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Factory builds a provider from options.
type Factory func(ctx context.Context, opts Options) (Provider, error)

// Registry maps provider names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the google, openai, and anthropic providers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("google", NewGoogle)
	r.Register("openai", NewOpenAI)
	r.Register("anthropic", NewAnthropic)
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names lists registered providers in lexical order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Provider builds the named provider.
func (r *Registry) Provider(ctx context.Context, name string, opts Options) (Provider, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return f(ctx, opts)
}
