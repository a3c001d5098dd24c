package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a row is absent or owned by someone else.
	// The two cases are never distinguished.
	ErrNotFound = errors.New("repository: not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("repository: conflict")
)

// uniqueViolation is the SQLSTATE of unique_violation.
const uniqueViolation = "23505"

// wrap classifies driver errors. Anything not mapped to a sentinel is
// wrapped with the operation name and treated as a store failure upstream.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return fmt.Errorf("repository: %s: %w", op, err)
}
