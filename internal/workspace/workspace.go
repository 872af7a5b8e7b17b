// Package workspace owns the working case list of the single reviewer
// session: extraction into it, review transitions on it, selection, and
// saving or loading it as a stored session.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/internal/extraction"
	"github.com/JaimeStill/jurispanel/internal/gateway"
	"github.com/JaimeStill/jurispanel/internal/review"
	"github.com/JaimeStill/jurispanel/internal/sessions"
)

// Audit action names.
const (
	ActionProcessed = "Processamento IA"
	ActionFailed    = "Erro Processamento"
	ActionLoaded    = "Sessão Carregada"
)

// Snapshot is a copy of the workspace state.
type Snapshot struct {
	SessionID string            `json:"session_id,omitempty"`
	Metadata  cases.Metadata    `json:"metadata"`
	Cases     []cases.Case      `json:"cases"`
	Selection []string          `json:"selection"`
	Source    *documents.Source `json:"source,omitempty"`
	Busy      bool              `json:"busy"`
}

// Deps are the systems the workspace drives.
type Deps struct {
	Pipeline  *extraction.Pipeline
	Gateway   gateway.System
	Documents documents.System
	Review    *review.Machine
	Sessions  sessions.System
	Audit     review.Recorder
	Logger    *slog.Logger
}

// Workspace is the session controller. Mutations replace the whole case
// list under mu; extraction runs outside mu and at most once at a time.
type Workspace struct {
	deps   Deps
	logger *slog.Logger
	busy   atomic.Bool

	mu        sync.Mutex
	sessionID string
	metadata  cases.Metadata
	cases     []cases.Case
	selection []string
	source    *documents.Source
}

// New creates an empty workspace.
func New(deps Deps) *Workspace {
	return &Workspace{
		deps:      deps,
		logger:    deps.Logger.With("system", "workspace"),
		cases:     []cases.Case{},
		selection: []string{},
	}
}

// Handler returns the HTTP handler for the workspace.
func (w *Workspace) Handler(maxUploadSize int64) *Handler {
	return NewHandler(w, w.logger, maxUploadSize)
}

// Snapshot returns a deep copy of the current state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Workspace) snapshot() Snapshot {
	s := Snapshot{
		SessionID: w.sessionID,
		Metadata:  w.metadata,
		Cases:     cases.CloneAll(w.cases),
		Selection: slices.Clone(w.selection),
		Busy:      w.busy.Load(),
	}
	if w.source != nil {
		src := *w.source
		s.Source = &src
	}
	return s
}

func (w *Workspace) acquire() error {
	if !w.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (w *Workspace) release() {
	w.busy.Store(false)
}

func (w *Workspace) record(ctx context.Context, action, details, target string) {
	if _, err := w.deps.Audit.Record(ctx, action, details, target); err != nil {
		w.logger.Warn("audit record failed", "action", action, "error", err)
	}
}

// Extract converts up, runs the extraction pipeline, archives the original,
// and replaces the working list with the result as a new unsaved session.
func (w *Workspace) Extract(ctx context.Context, up documents.Upload, md cases.Metadata) (Snapshot, error) {
	if err := w.acquire(); err != nil {
		return Snapshot{}, err
	}
	defer w.release()

	in, err := w.deps.Documents.Prepare(up)
	if err != nil {
		return Snapshot{}, err
	}

	res, err := w.deps.Pipeline.Run(ctx, in.Document)
	if err != nil {
		w.record(ctx, ActionFailed, "Falha na chamada da API", "")
		return Snapshot{}, err
	}

	// Only documents that produced a case list are archived.
	if err := w.deps.Documents.Archive(ctx, in); err != nil {
		return Snapshot{}, err
	}

	w.record(ctx, ActionProcessed, fmt.Sprintf("Análise concluída. %d processos identificados.", len(res.Cases)), "")

	w.mu.Lock()
	defer w.mu.Unlock()

	src := in.Source
	w.sessionID = ""
	w.metadata = md.WithTotal(len(res.Cases))
	w.cases = res.Cases
	w.selection = []string{}
	w.source = &src

	w.logger.Info("workspace replaced by extraction", "cases", len(res.Cases), "cached", res.Cached)
	return w.snapshot(), nil
}

// Autofill extracts session metadata from up and overlays the non-empty
// extracted fields on current.
func (w *Workspace) Autofill(ctx context.Context, up documents.Upload, current cases.Metadata) (cases.Metadata, error) {
	if err := w.acquire(); err != nil {
		return cases.Metadata{}, err
	}
	defer w.release()

	doc, _, err := documents.Convert(w.logger, up)
	if err != nil {
		return cases.Metadata{}, err
	}

	extracted, err := w.deps.Gateway.ExtractMetadata(ctx, doc)
	if err != nil {
		return cases.Metadata{}, err
	}
	return current.Overlay(extracted), nil
}

// UpdateMetadata replaces the session metadata.
func (w *Workspace) UpdateMetadata(md cases.Metadata) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.metadata = md
	return w.snapshot()
}

// Vote applies a vote with the batch rule and clears the selection.
func (w *Workspace) Vote(ctx context.Context, voteType *string, target string) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out, err := w.deps.Review.Vote(ctx, w.cases, w.selection, voteType, target)
	if err != nil {
		return Snapshot{}, err
	}

	w.cases = out
	w.selection = []string{}
	return w.snapshot(), nil
}

// Annotate creates or replaces the note on target.
func (w *Workspace) Annotate(ctx context.Context, target, text string) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out, err := w.deps.Review.Annotate(ctx, w.cases, target, text)
	if err != nil {
		return Snapshot{}, err
	}

	w.cases = out
	return w.snapshot(), nil
}

// DeleteNote removes the note on target after confirmation.
func (w *Workspace) DeleteNote(ctx context.Context, target string, confirmed bool) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out, err := w.deps.Review.DeleteNote(ctx, w.cases, target, confirmed)
	if err != nil {
		return Snapshot{}, err
	}

	w.cases = out
	return w.snapshot(), nil
}

// Select replaces the selection, dropping IDs not in the working list.
func (w *Workspace) Select(ids []string) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if cases.IndexOf(w.cases, id) >= 0 && !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	w.selection = sel
	return w.snapshot()
}

// Toggle adds id to the selection or removes it.
func (w *Workspace) Toggle(id string) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if cases.IndexOf(w.cases, id) < 0 {
		return Snapshot{}, fmt.Errorf("%w: %s", review.ErrCaseNotFound, id)
	}

	if i := slices.Index(w.selection, id); i >= 0 {
		w.selection = slices.Delete(slices.Clone(w.selection), i, i+1)
	} else {
		w.selection = append(slices.Clone(w.selection), id)
	}
	return w.snapshot(), nil
}

// ToggleAll clears the selection when every case is selected, otherwise
// selects every case.
func (w *Workspace) ToggleAll() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.selection) == len(w.cases) {
		w.selection = []string{}
	} else {
		w.selection = make([]string, len(w.cases))
		for i, c := range w.cases {
			w.selection[i] = c.ID
		}
	}
	return w.snapshot()
}

// ClearSelection empties the selection.
func (w *Workspace) ClearSelection() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.selection = []string{}
	return w.snapshot()
}

// Save stores the working list. The first save assigns the session code.
func (w *Workspace) Save(ctx context.Context) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.metadata.IsZero() || len(w.cases) == 0 {
		return Snapshot{}, ErrNothingToSave
	}

	md := w.metadata.WithTotal(len(w.cases))
	saved, err := w.deps.Sessions.Save(ctx, sessions.Session{
		ID:       w.sessionID,
		Metadata: md,
		Cases:    cases.CloneAll(w.cases),
		Source:   w.source,
	})
	if err != nil {
		return Snapshot{}, err
	}

	w.sessionID = saved.ID
	w.metadata = md
	return w.snapshot(), nil
}

// Load replaces the workspace with a stored active session.
func (w *Workspace) Load(ctx context.Context, id string) (Snapshot, error) {
	sess, err := w.deps.Sessions.Find(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sessionID = sess.ID
	w.metadata = sess.Metadata
	w.cases = sess.Cases
	if w.cases == nil {
		w.cases = []cases.Case{}
	}
	w.selection = []string{}
	w.source = sess.Source

	w.record(ctx, ActionLoaded, fmt.Sprintf("Sessão %s carregada", sess.ID), sess.ID)
	return w.snapshot(), nil
}

// Reset discards the working list after confirmation.
func (w *Workspace) Reset(confirmed bool) (Snapshot, error) {
	if !confirmed {
		return Snapshot{}, ErrConfirmationRequired
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sessionID = ""
	w.metadata = cases.Metadata{}
	w.cases = []cases.Case{}
	w.selection = []string{}
	w.source = nil
	return w.snapshot(), nil
}
