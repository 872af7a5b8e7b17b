// Package ids issues human-readable, per-prefix sequential identifiers
// backed by a persistent counter.
package ids

import (
	"context"
	"fmt"

	"github.com/JaimeStill/jurispanel/pkg/kv"
)

// Entity prefixes.
const (
	Session = "L"
	Case    = "P"
	Note    = "N"
	Log     = "LOG"
)

const counterPrefix = "counter_"

// Allocator issues the next identifier for a prefix.
type Allocator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

type allocator struct {
	store kv.Store
}

// New creates an Allocator whose counters live in store under counter_<prefix>.
func New(store kv.Store) Allocator {
	return &allocator{store: store}
}

func (a *allocator) Next(ctx context.Context, prefix string) (string, error) {
	n, err := a.store.Incr(ctx, counterPrefix+prefix)
	if err != nil {
		return "", fmt.Errorf("allocate %s id: %w", prefix, err)
	}
	return Format(prefix, n), nil
}

// Format renders prefix and n as PREFIX-NNN. Values wider than three digits
// are not truncated.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

var votePrefixes = map[string]string{
	"Concordo":          "VC",
	"Concordo em Parte": "VP",
	"Discordo":          "VD",
	"Destaque":          "VDE",
	"Vista":             "VV",
}

// VotePrefix returns the identifier prefix for a vote type. A nil type is a
// cleared vote.
func VotePrefix(voteType *string) string {
	if voteType == nil {
		return "VX"
	}
	if p, ok := votePrefixes[*voteType]; ok {
		return p
	}
	return "VO"
}
