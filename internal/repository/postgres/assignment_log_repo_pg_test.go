package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyUndefinedTable(t *testing.T) {
	err := classify(&pgconn.PgError{Code: "42P01", Message: `relation "role_assignment_log" does not exist`})
	if !errors.Is(err, ErrAssignmentLogMissing) {
		t.Fatalf("expected ErrAssignmentLogMissing, got %v", err)
	}
}

func TestClassifyPassesOtherErrors(t *testing.T) {
	if classify(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	other := &pgconn.PgError{Code: "23505"}
	if err := classify(other); err != other {
		t.Fatalf("expected unique violation to pass through unchanged, got %v", err)
	}
}
