package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/domain/errs"
)

// MapError maps driver and GORM failures into domain error codes. Errors that
// already carry a code pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *errs.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.Wrap(errs.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Wrap(errs.CodeConflict, op, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errs.Wrap(errs.CodePreconditionFailed, op, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return errs.Wrap(errs.CodeValidation, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.CodeStorageUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return errs.Wrap(errs.CodeConflict, op, err) // unique_violation
		case "23503":
			return errs.Wrap(errs.CodePreconditionFailed, op, err) // foreign_key_violation
		case "23514", "23502", "22P02", "22003":
			return errs.Wrap(errs.CodeValidation, op, err) // check/not_null/invalid_text/out_of_range
		case "40001", "40P01", "55P03", "57P01", "53300":
			return errs.Wrap(errs.CodeStorageUnavailable, op, err)
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return errs.Wrap(errs.CodeStorageUnavailable, op, err) // connection_exception class
		}
	}

	// SQLite reports constraint failures only through the message text.
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "duplicate key"):
		return errs.Wrap(errs.CodeConflict, op, err)
	case strings.Contains(msg, "foreign key constraint failed"),
		strings.Contains(msg, "violates foreign key"):
		return errs.Wrap(errs.CodePreconditionFailed, op, err)
	case strings.Contains(msg, "check constraint failed"):
		return errs.Wrap(errs.CodeValidation, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "temporar"):
		return errs.Wrap(errs.CodeStorageUnavailable, op, err)
	default:
		return errs.Wrap(errs.CodeInternal, op, err)
	}
}
