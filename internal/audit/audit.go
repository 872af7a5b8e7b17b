// Package audit keeps the bounded, newest-first activity log of reviewer
// and system actions.
package audit

import (
	"context"
	"time"
)

// Retention is the maximum number of entries kept.
const Retention = 1000

// Entry is one recorded action.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	TargetID  string    `json:"target_id,omitempty"`
}

// System records and lists audit entries.
type System interface {
	Handler() *Handler

	// Record allocates a LOG- identifier and stores the entry as the newest.
	Record(ctx context.Context, action, details, targetID string) (Entry, error)
	// List returns up to limit entries, newest first. A limit outside
	// (0, Retention] is treated as Retention.
	List(ctx context.Context, limit int) ([]Entry, error)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > Retention {
		return Retention
	}
	return limit
}
