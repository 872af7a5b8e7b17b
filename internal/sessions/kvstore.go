package sessions

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
)

const sessionPrefix = "session_"

type kvStore struct {
	mu     sync.Mutex
	kv     kv.Store
	cfg    pagination.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewKVStore creates a store that keeps one JSON document per session.
func NewKVStore(s kv.Store, cfg pagination.Config, logger *slog.Logger) Store {
	return &kvStore{
		kv:     s,
		cfg:    cfg,
		logger: logger.With("system", "sessions", "backend", "kv"),
		now:    time.Now,
	}
}

func (s *kvStore) load(ctx context.Context, id string) (*Session, error) {
	sess, err := kv.GetJSON[Session](ctx, s.kv, sessionPrefix+id)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *kvStore) Save(ctx context.Context, sess Session) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	sess.CreatedAt = now
	if existing, err := s.load(ctx, sess.ID); err == nil {
		sess.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	sess.State = StateActive
	sess.SavedAt = now
	sess.TrashedAt = nil

	if err := kv.SetJSON(ctx, s.kv, sessionPrefix+sess.ID, sess); err != nil {
		return nil, fmt.Errorf("save session %s: %w", sess.ID, err)
	}

	s.logger.Info("session stored", "id", sess.ID, "cases", len(sess.Cases))
	return &sess, nil
}

func (s *kvStore) Find(ctx context.Context, id string, state State) (*Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.State != state {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

func (s *kvStore) List(ctx context.Context, state State, page pagination.PageRequest) (*pagination.PageResult[Summary], error) {
	page.Normalize(s.cfg)

	keys, err := s.kv.Keys(ctx, sessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list session keys: %w", err)
	}

	summaries := make([]Summary, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, key := range keys {
		g.Go(func() error {
			sess, err := kv.GetJSON[Session](gctx, s.kv, key)
			if errors.Is(err, kv.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", key, err)
			}
			summaries[i] = sess.Summarize()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := slices.DeleteFunc(summaries, func(sum Summary) bool {
		return sum.ID == "" || sum.State != state || !sum.Matches(page.Search)
	})

	slices.SortStableFunc(filtered, func(a, b Summary) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(b.ID), strings.ToLower(a.ID))
	})

	result := pagination.Slice(filtered, page)
	return &result, nil
}

func (s *kvStore) SetState(ctx context.Context, id string, from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.Find(ctx, id, from)
	if err != nil {
		return err
	}

	sess.State = to
	sess.TrashedAt = nil
	if to == StateTrashed {
		now := s.now().UTC()
		sess.TrashedAt = &now
	}

	if err := kv.SetJSON(ctx, s.kv, sessionPrefix+id, sess); err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	return nil
}

func (s *kvStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Find(ctx, id, StateTrashed); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, sessionPrefix+id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
