package sessions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/jurispanel/internal/audit"
	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
)

// Audit action names.
const (
	ActionSaved    = "Sessão Salva"
	ActionTrashed  = "Sessão Movida para Lixeira"
	ActionRestored = "Sessão Restaurada"
	ActionPurged   = "Sessão Excluída Permanentemente"
)

// Recorder receives audit entries for lifecycle changes.
type Recorder interface {
	Record(ctx context.Context, action, details, targetID string) (audit.Entry, error)
}

// System manages the session lifecycle over a Store.
type System interface {
	Handler() *Handler

	// Save assigns an L- code on first save and upserts the session.
	Save(ctx context.Context, s Session) (*Session, error)
	Find(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Summary], error)
	Trash(ctx context.Context, id string) error
	ListTrash(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Summary], error)
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}

type manager struct {
	store      Store
	ids        ids.Allocator
	audit      Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the session system.
func New(store Store, alloc ids.Allocator, recorder Recorder, logger *slog.Logger, cfg pagination.Config) System {
	return &manager{
		store:      store,
		ids:        alloc,
		audit:      recorder,
		logger:     logger.With("system", "sessions"),
		pagination: cfg,
	}
}

func (m *manager) Handler() *Handler {
	return NewHandler(m, m.logger, m.pagination)
}

func (m *manager) record(ctx context.Context, action, details, target string) {
	if _, err := m.audit.Record(ctx, action, details, target); err != nil {
		m.logger.Warn("audit record failed", "action", action, "target", target, "error", err)
	}
}

func (m *manager) Save(ctx context.Context, s Session) (*Session, error) {
	if s.Metadata.IsZero() || len(s.Cases) == 0 {
		return nil, ErrEmpty
	}

	if s.ID == "" {
		id, err := m.ids.Next(ctx, ids.Session)
		if err != nil {
			return nil, err
		}
		s.ID = id
	}

	saved, err := m.store.Save(ctx, s)
	if err != nil {
		return nil, err
	}

	m.record(ctx, ActionSaved, fmt.Sprintf("Sessão %s salva com %d processos", saved.ID, len(saved.Cases)), saved.ID)
	return saved, nil
}

func (m *manager) Find(ctx context.Context, id string) (*Session, error) {
	return m.store.Find(ctx, id, StateActive)
}

func (m *manager) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Summary], error) {
	return m.store.List(ctx, StateActive, page)
}

func (m *manager) ListTrash(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Summary], error) {
	return m.store.List(ctx, StateTrashed, page)
}

func (m *manager) Trash(ctx context.Context, id string) error {
	if err := m.store.SetState(ctx, id, StateActive, StateTrashed); err != nil {
		return err
	}
	m.record(ctx, ActionTrashed, "Sessão "+id, id)
	return nil
}

func (m *manager) Restore(ctx context.Context, id string) error {
	if err := m.store.SetState(ctx, id, StateTrashed, StateActive); err != nil {
		return err
	}
	m.record(ctx, ActionRestored, "Sessão "+id, id)
	return nil
}

func (m *manager) Purge(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.record(ctx, ActionPurged, "Sessão "+id, id)
	return nil
}
