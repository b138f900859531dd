// Package pgerr classifies postgres constraint violations so repositories
// can translate them into domain sentinels at the storage boundary.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextRepr     = "22P02"
)

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to a specific constraint or index name.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsInvalidInput reports an invalid text representation, typically a
// malformed uuid in an id lookup. Repositories treat it as not-found: a
// value that cannot be a key cannot match a row.
func IsInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepr
}
