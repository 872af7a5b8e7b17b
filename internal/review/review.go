// Package review applies reviewer transitions (votes and notes) to a case
// list. Every operation returns a new list and leaves its input untouched.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/jurispanel/internal/audit"
	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/pkg/metrics"
)

// Audit action names.
const (
	ActionVote        = "Voto Registrado"
	ActionNoteCreated = "Anotação Criada"
	ActionNoteUpdated = "Anotação Atualizada"
	ActionNoteDeleted = "Anotação Excluída"
)

// Recorder receives one entry per transition.
type Recorder interface {
	Record(ctx context.Context, action, details, targetID string) (audit.Entry, error)
}

// Machine applies review transitions.
type Machine struct {
	ids     ids.Allocator
	audit   Recorder
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Machine.
func New(alloc ids.Allocator, recorder Recorder, m *metrics.Metrics, logger *slog.Logger) *Machine {
	return &Machine{
		ids:     alloc,
		audit:   recorder,
		metrics: m,
		logger:  logger.With("system", "review"),
		now:     time.Now,
	}
}

// Batch returns the case IDs a vote on target applies to: the whole
// selection when it contains target, otherwise target alone.
func Batch(selection []string, target string) []string {
	if len(selection) > 0 && slices.Contains(selection, target) {
		return slices.Clone(selection)
	}
	return []string{target}
}

// Vote sets (or with a nil voteType clears) the vote on target and, per
// Batch, on the rest of the selection. All affected cases share one vote ID
// and timestamp.
func (m *Machine) Vote(ctx context.Context, list []cases.Case, selection []string, voteType *string, target string) ([]cases.Case, error) {
	if cases.IndexOf(list, target) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, target)
	}

	batch := Batch(selection, target)

	voteID, err := m.ids.Next(ctx, ids.VotePrefix(voteType))
	if err != nil {
		return nil, err
	}

	var vote *cases.Vote
	if voteType != nil {
		vote = &cases.Vote{ID: voteID, Type: *voteType, Timestamp: m.now().UTC()}
	}

	out := cases.CloneAll(list)
	var applied []string
	for i := range out {
		if !slices.Contains(batch, out[i].ID) {
			continue
		}
		if vote != nil {
			v := *vote
			out[i].Vote = &v
		} else {
			out[i].Vote = nil
		}
		applied = append(applied, out[i].ID)
	}

	label := "Removido"
	if voteType != nil {
		label = *voteType
	}

	// The entry names every case the vote landed on.
	details := fmt.Sprintf("Voto %s para %d processos", label, len(applied))
	if err := m.record(ctx, ActionVote, details, strings.Join(applied, ",")); err != nil {
		return nil, err
	}

	m.logger.Info("vote applied", "vote_id", voteID, "type", label, "cases", len(applied))
	return out, nil
}

// Annotate creates or replaces the note on target, keeping an existing
// note ID and refreshing its timestamp.
func (m *Machine) Annotate(ctx context.Context, list []cases.Case, target, text string) ([]cases.Case, error) {
	idx := cases.IndexOf(list, target)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, target)
	}

	action := ActionNoteCreated
	var noteID string
	if existing := list[idx].Note; existing != nil {
		action = ActionNoteUpdated
		noteID = existing.ID
	} else {
		id, err := m.ids.Next(ctx, ids.Note)
		if err != nil {
			return nil, err
		}
		noteID = id
	}

	out := cases.CloneAll(list)
	out[idx].Note = &cases.Note{ID: noteID, Text: text, CreatedAt: m.now().UTC()}

	details := fmt.Sprintf("Nota no processo %s", out[idx].NumeroProcesso)
	if err := m.record(ctx, action, details, noteID); err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteNote removes the note on target. The caller must pass confirmed.
func (m *Machine) DeleteNote(ctx context.Context, list []cases.Case, target string, confirmed bool) ([]cases.Case, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	idx := cases.IndexOf(list, target)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, target)
	}

	note := list[idx].Note
	if note == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, target)
	}

	out := cases.CloneAll(list)
	out[idx].Note = nil

	if err := m.record(ctx, ActionNoteDeleted, fmt.Sprintf("Nota %s removida", note.ID), note.ID); err != nil {
		return nil, err
	}

	return out, nil
}

func (m *Machine) record(ctx context.Context, action, details, target string) error {
	if _, err := m.audit.Record(ctx, action, details, target); err != nil {
		return fmt.Errorf("record %q: %w", action, err)
	}
	m.metrics.ReviewTransitions.WithLabelValues(action).Inc()
	return nil
}
