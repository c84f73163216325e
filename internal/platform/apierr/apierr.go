package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/healx-backend/internal/domain/errs"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code errs.Code) int {
	switch code {
	case errs.CodeValidation, errs.CodeInvalidMood, errs.CodeInvalidDateRange:
		return http.StatusBadRequest
	case errs.CodeUnauthorized:
		return http.StatusUnauthorized
	case errs.CodeForbidden:
		return http.StatusForbidden
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeConflict:
		return http.StatusConflict
	case errs.CodePreconditionFailed:
		return http.StatusUnprocessableEntity
	case errs.CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts any error into an API error. Errors without a code are
// reported as internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var api *Error
	if errors.As(err, &api) {
		return api
	}
	code := errs.CodeOf(err)
	if code == "" {
		code = errs.CodeInternal
	}
	return New(StatusFor(code), string(code), err)
}
