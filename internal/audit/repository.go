package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/pkg/repository"
)

type repo struct {
	db     *sql.DB
	ids    ids.Allocator
	logger *slog.Logger
}

// New creates an audit log backed by the PostgreSQL logs table. Entries are
// ordered by the table's insertion sequence, not by their text codes.
func New(db *sql.DB, alloc ids.Allocator, logger *slog.Logger) System {
	return &repo{
		db:     db,
		ids:    alloc,
		logger: logger.With("system", "audit", "backend", "postgres"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	var target sql.NullString
	err := s.Scan(&e.ID, &e.Timestamp, &e.Action, &e.Details, &target)
	e.TargetID = target.String
	return e, err
}

func (r *repo) Record(ctx context.Context, action, details, targetID string) (Entry, error) {
	code, err := r.ids.Next(ctx, ids.Log)
	if err != nil {
		return Entry{}, err
	}

	var target sql.NullString
	if targetID != "" {
		target = sql.NullString{String: targetID, Valid: true}
	}

	q := `
		INSERT INTO logs(id, log_code, logged_at, action, details, target_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING log_code, logged_at, action, details, target_id`

	args := []any{uuid.New(), code, time.Now().UTC(), action, details, target}

	entry, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		e, err := repository.QueryOne(ctx, tx, q, args, scanEntry)
		if err != nil {
			return Entry{}, err
		}

		trim := `
			DELETE FROM logs WHERE id IN (
				SELECT id FROM logs ORDER BY seq DESC OFFSET $1
			)`
		if _, err := tx.ExecContext(ctx, trim, Retention); err != nil {
			return Entry{}, err
		}
		return e, nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("record audit entry: %w", err)
	}

	r.logger.Info("audit entry recorded", "id", entry.ID, "action", action, "target", targetID)
	return entry, nil
}

func (r *repo) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `
		SELECT log_code, logged_at, action, details, target_id
		FROM logs
		ORDER BY seq DESC
		LIMIT $1`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{clampLimit(limit)}, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	return entries, nil
}
