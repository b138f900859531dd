package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "idx_books_serial_number"}

	if !IsUniqueViolation(err, "idx_books_serial_number") {
		t.Error("expected match on constraint name")
	}
	if !IsUniqueViolation(err, "") {
		t.Error("expected match with no constraint filter")
	}
	if IsUniqueViolation(err, "idx_other") {
		t.Error("expected mismatch on a different constraint")
	}
	if IsUniqueViolation(errors.New("plain"), "") {
		t.Error("plain errors are not violations")
	}

	wrapped := fmt.Errorf("create book: %w", err)
	if !IsUniqueViolation(wrapped, "idx_books_serial_number") {
		t.Error("expected match through wrapping")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected foreign key match")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is not a foreign key violation")
	}
}

func TestIsInvalidInput(t *testing.T) {
	malformedUUID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`}

	if !IsInvalidInput(malformedUUID) {
		t.Error("expected malformed uuid to classify as invalid input")
	}
	if !IsInvalidInput(fmt.Errorf("get book: %w", malformedUUID)) {
		t.Error("expected match through wrapping")
	}
	if IsInvalidInput(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is not invalid input")
	}
	if IsInvalidInput(nil) {
		t.Error("nil is not invalid input")
	}
}
