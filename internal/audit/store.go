package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/pkg/kv"
)

const logsKey = "logs"

type store struct {
	mu     sync.Mutex
	kv     kv.Store
	ids    ids.Allocator
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates an audit log kept as a single capped JSON array in the
// key-value store.
func NewStore(s kv.Store, alloc ids.Allocator, logger *slog.Logger) System {
	return &store{
		kv:     s,
		ids:    alloc,
		logger: logger.With("system", "audit", "backend", "kv"),
		now:    time.Now,
	}
}

func (s *store) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *store) load(ctx context.Context) ([]Entry, error) {
	entries, err := kv.GetJSON[[]Entry](ctx, s.kv, logsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []Entry{}, nil
	}
	return entries, err
}

func (s *store) Record(ctx context.Context, action, details, targetID string) (Entry, error) {
	id, err := s.ids.Next(ctx, ids.Log)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:        id,
		Timestamp: s.now().UTC(),
		Action:    action,
		Details:   details,
		TargetID:  targetID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("load audit log: %w", err)
	}

	entries = append([]Entry{entry}, entries...)
	if len(entries) > Retention {
		entries = entries[:Retention]
	}

	if err := kv.SetJSON(ctx, s.kv, logsKey, entries); err != nil {
		return Entry{}, fmt.Errorf("store audit log: %w", err)
	}

	s.logger.Info("audit entry recorded", "id", entry.ID, "action", action, "target", targetID)
	return entry, nil
}

func (s *store) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	entries, err := s.load(ctx)
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}

	if limit = clampLimit(limit); len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
