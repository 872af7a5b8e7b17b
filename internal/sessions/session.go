// Package sessions persists reviewed case lists as named sessions with a
// soft-delete lifecycle: active, trashed, and purged.
package sessions

import (
	"context"
	"strings"
	"time"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
)

// State is the lifecycle position of a stored session. Purged sessions no
// longer exist.
type State string

const (
	StateActive  State = "active"
	StateTrashed State = "trashed"
)

// Session is a saved case list with its metadata.
type Session struct {
	ID        string            `json:"id"`
	Metadata  cases.Metadata    `json:"metadata"`
	Cases     []cases.Case      `json:"cases"`
	Source    *documents.Source `json:"source,omitempty"`
	State     State             `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
	SavedAt   time.Time         `json:"saved_at"`
	TrashedAt *time.Time        `json:"trashed_at,omitempty"`
}

// Summary is the list view of a session.
type Summary struct {
	ID        string         `json:"id"`
	Metadata  cases.Metadata `json:"metadata"`
	CaseCount int            `json:"case_count"`
	State     State          `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
	SavedAt   time.Time      `json:"saved_at"`
	TrashedAt *time.Time     `json:"trashed_at,omitempty"`
}

// Summarize returns the list view of s.
func (s Session) Summarize() Summary {
	return Summary{
		ID:        s.ID,
		Metadata:  s.Metadata,
		CaseCount: len(s.Cases),
		State:     s.State,
		CreatedAt: s.CreatedAt,
		SavedAt:   s.SavedAt,
		TrashedAt: s.TrashedAt,
	}
}

// Matches reports whether search occurs in the code, orgao, or relator,
// ignoring case. A nil or empty search matches everything.
func (s Summary) Matches(search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	needle := strings.ToLower(*search)
	for _, field := range []string{s.ID, s.Metadata.Orgao, s.Metadata.Relator} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Store is the persistence contract implemented by the PostgreSQL and
// key-value backends.
type Store interface {
	// Save upserts s by ID, marks it active, and stamps SavedAt. CreatedAt
	// is kept from the first save.
	Save(ctx context.Context, s Session) (*Session, error)
	// Find returns the session with id in the given state.
	Find(ctx context.Context, id string, state State) (*Session, error)
	// List returns summaries in state, most recently saved first.
	List(ctx context.Context, state State, page pagination.PageRequest) (*pagination.PageResult[Summary], error)
	// SetState moves a session between active and trashed.
	SetState(ctx context.Context, id string, from, to State) error
	// Delete removes a trashed session permanently.
	Delete(ctx context.Context, id string) error
}
