package repos

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/domain/errs"
)

func TestMapError_PostgresCodes(t *testing.T) {
	cases := map[string]errs.Code{
		"23505": errs.CodeConflict,
		"23503": errs.CodePreconditionFailed,
		"23514": errs.CodeValidation,
		"40001": errs.CodeStorageUnavailable,
		"40P01": errs.CodeStorageUnavailable,
		"08006": errs.CodeStorageUnavailable,
	}
	for code, want := range cases {
		err := MapError("op", fmt.Errorf("insert: %w", &pgconn.PgError{Code: code}))
		if !errs.IsCode(err, want) {
			t.Fatalf("pg %s: expected %q, got %q (%v)", code, want, errs.CodeOf(err), err)
		}
	}
}

func TestMapError_SQLiteMessages(t *testing.T) {
	cases := map[string]errs.Code{
		"UNIQUE constraint failed: data_sources.name": errs.CodeConflict,
		"FOREIGN KEY constraint failed":               errs.CodePreconditionFailed,
		"CHECK constraint failed: check_mood_score":   errs.CodeValidation,
		"database is locked":                          errs.CodeStorageUnavailable,
		"something nobody anticipated":                errs.CodeInternal,
	}
	for msg, want := range cases {
		err := MapError("op", errors.New(msg))
		if !errs.IsCode(err, want) {
			t.Fatalf("%q: expected %q, got %q", msg, want, errs.CodeOf(err))
		}
	}
}

func TestMapError_NotFoundAndPassthrough(t *testing.T) {
	if err := MapError("op", gorm.ErrRecordNotFound); !errs.IsCode(err, errs.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	in := errs.New(errs.CodeInvalidMood, "journal.upsert", "mood out of range")
	if out := MapError("other", in); out != in {
		t.Fatalf("expected passthrough of coded error")
	}
	if MapError("op", nil) != nil {
		t.Fatal("nil must stay nil")
	}
}
