package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
	"github.com/JaimeStill/jurispanel/pkg/query"
	"github.com/JaimeStill/jurispanel/pkg/repository"
)

type repo struct {
	db     *sql.DB
	cfg    pagination.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewRepository creates a store over the PostgreSQL sessions, cases, notes,
// votes, and documents tables.
func NewRepository(db *sql.DB, cfg pagination.Config, logger *slog.Logger) Store {
	return &repo{
		db:     db,
		cfg:    cfg,
		logger: logger.With("system", "sessions", "backend", "postgres"),
		now:    time.Now,
	}
}

func (r *repo) Save(ctx context.Context, s Session) (*Session, error) {
	now := r.now().UTC()

	upsert := `
		INSERT INTO sessions(id, session_code, orgao, relator, data, tipo, hora, total_processos, case_count, created_at, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (session_code) DO UPDATE SET
			orgao = EXCLUDED.orgao,
			relator = EXCLUDED.relator,
			data = EXCLUDED.data,
			tipo = EXCLUDED.tipo,
			hora = EXCLUDED.hora,
			total_processos = EXCLUDED.total_processos,
			case_count = EXCLUDED.case_count,
			saved_at = EXCLUDED.saved_at,
			trashed_at = NULL
		RETURNING id, created_at`

	md := s.Metadata
	args := []any{uuid.New(), s.ID, md.Orgao, md.Relator, md.Data, md.Tipo, md.Hora, md.TotalProcessos, len(s.Cases), now}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (time.Time, error) {
		var pk uuid.UUID
		var createdAt time.Time
		if err := tx.QueryRowContext(ctx, upsert, args...).Scan(&pk, &createdAt); err != nil {
			return time.Time{}, err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM cases WHERE session_id = $1", pk); err != nil {
			return time.Time{}, err
		}
		for i, c := range s.Cases {
			if err := insertCase(ctx, tx, pk, i, c); err != nil {
				return time.Time{}, fmt.Errorf("case %s: %w", c.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE session_id = $1", pk); err != nil {
			return time.Time{}, err
		}
		if s.Source != nil {
			if err := insertSource(ctx, tx, pk, *s.Source); err != nil {
				return time.Time{}, err
			}
		}

		return createdAt, nil
	})
	if err != nil {
		return nil, fmt.Errorf("save session %s: %w", s.ID, repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	s.State = StateActive
	s.CreatedAt = created.UTC()
	s.SavedAt = now
	s.TrashedAt = nil

	r.logger.Info("session stored", "id", s.ID, "cases", len(s.Cases))
	return &s, nil
}

func insertCase(ctx context.Context, tx *sql.Tx, sessionPK uuid.UUID, position int, c cases.Case) error {
	partes, err := json.Marshal(nonNil(c.Partes))
	if err != nil {
		return err
	}
	tags, err := json.Marshal(nonNil(c.Tags))
	if err != nil {
		return err
	}

	casePK := uuid.New()
	q := `
		INSERT INTO cases(id, case_code, session_id, position, content_hash, chamada, numero_processo, classe,
			partes, juiz_sentenciante, ementa, resumo_estruturado, tags, observacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	if _, err := tx.ExecContext(ctx, q,
		casePK, c.ID, sessionPK, position, c.ContentHash, c.Chamada, c.NumeroProcesso, c.Classe,
		partes, c.JuizSentenciante, c.Ementa, c.ResumoEstruturado, tags, nullString(c.Observacao),
	); err != nil {
		return err
	}

	if c.Note != nil {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO notes(id, note_code, case_id, text, created_at) VALUES ($1, $2, $3, $4, $5)",
			uuid.New(), c.Note.ID, casePK, c.Note.Text, c.Note.CreatedAt,
		); err != nil {
			return err
		}
	}

	if c.Vote != nil {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO votes(id, vote_code, case_id, vote_type, voted_at) VALUES ($1, $2, $3, $4, $5)",
			uuid.New(), c.Vote.ID, casePK, c.Vote.Type, c.Vote.Timestamp,
		); err != nil {
			return err
		}
	}

	return nil
}

func insertSource(ctx context.Context, tx *sql.Tx, sessionPK uuid.UUID, src documents.Source) error {
	q := `
		INSERT INTO documents(id, session_id, filename, mime_type, size_bytes, page_count, storage_key, content_hash, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.ExecContext(ctx, q,
		uuid.New(), sessionPK, src.Filename, src.MimeType, src.Size, nullInt(src.PageCount),
		src.StorageKey, src.ContentHash, src.UploadedAt,
	)
	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r *repo) Find(ctx context.Context, id string, state State) (*Session, error) {
	q := fmt.Sprintf("SELECT s.id, %s FROM %s WHERE s.session_code = $1", projection.Select(), projection.Source())

	row, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanSessionRow)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repository.MapError(err, ErrNotFound, ErrDuplicate), id)
	}
	if row.summary.State != state {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	sess := &Session{
		ID:        row.summary.ID,
		Metadata:  row.summary.Metadata,
		State:     row.summary.State,
		CreatedAt: row.summary.CreatedAt.UTC(),
		SavedAt:   row.summary.SavedAt.UTC(),
		TrashedAt: row.summary.TrashedAt,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q := fmt.Sprintf(`
			SELECT %s
			FROM public.cases c
			LEFT JOIN public.notes n ON n.case_id = c.id
			LEFT JOIN public.votes v ON v.case_id = c.id
			WHERE c.session_id = $1
			ORDER BY c.position`, caseColumns)

		list, err := repository.QueryMany(gctx, r.db, q, []any{row.pk}, scanCase)
		if err != nil {
			return fmt.Errorf("load cases: %w", err)
		}
		sess.Cases = list
		return nil
	})

	g.Go(func() error {
		q := `
			SELECT filename, mime_type, size_bytes, page_count, storage_key, content_hash, uploaded_at
			FROM public.documents WHERE session_id = $1`

		src, err := repository.QueryOne(gctx, r.db, q, []any{row.pk}, scanSource)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load source: %w", err)
		}
		src.UploadedAt = src.UploadedAt.UTC()
		sess.Source = &src
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("find session %s: %w", id, err)
	}
	return sess, nil
}

func (r *repo) List(ctx context.Context, state State, page pagination.PageRequest) (*pagination.PageResult[Summary], error) {
	page.Normalize(r.cfg)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereNull("TrashedAt", state == StateActive).
		WhereSearch(page.Search, "ID", "Orgao", "Relator")

	if len(page.Sort) > 0 {
		qb.OrderBy(page.Sort)
	}

	countSQL, countArgs := qb.Count()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.Page(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) SetState(ctx context.Context, id string, from, to State) error {
	var q string
	args := []any{id}

	switch {
	case from == StateActive && to == StateTrashed:
		q = "UPDATE sessions SET trashed_at = $2 WHERE session_code = $1 AND trashed_at IS NULL"
		args = append(args, r.now().UTC())
	case from == StateTrashed && to == StateActive:
		q = "UPDATE sessions SET trashed_at = NULL WHERE session_code = $1 AND trashed_at IS NOT NULL"
	default:
		return fmt.Errorf("unsupported transition %s -> %s", from, to)
	}

	if err := repository.ExecExpectOne(ctx, r.db, q, args...); err != nil {
		return fmt.Errorf("%w: %s", repository.MapError(err, ErrNotFound, ErrDuplicate), id)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM sessions WHERE session_code = $1 AND trashed_at IS NOT NULL",
			id,
		)
	})
	if err != nil {
		return fmt.Errorf("%w: %s", repository.MapError(err, ErrNotFound, ErrDuplicate), id)
	}

	r.logger.Info("session purged", "id", id)
	return nil
}
