package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

// MapError replaces sql.ErrNoRows with notFound and unique violations with
// duplicate. Anything else, nil included, passes through.
func MapError(err, notFound, duplicate error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return duplicate
	}
	return err
}
