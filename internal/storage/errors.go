package storage

import (
	"context"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Kind categorizes storage failures so callers can tell retryable
// conditions from programming errors.
type Kind string

const (
	// KindUnavailable covers connectivity problems, lock contention and
	// statement timeouts. Retryable by the calling layer.
	KindUnavailable Kind = "UNAVAILABLE"

	// KindSyntax marks bad generated SQL. Never retryable; a bug in the
	// query builder or a schema drift.
	KindSyntax Kind = "SYNTAX"

	// KindTooManyRows means the query exceeded the engine's row cap and
	// the caller must paginate.
	KindTooManyRows Kind = "TOO_MANY_ROWS"

	// KindConstraint marks a rejected write (uniqueness, NOT NULL). In a
	// batch it means the whole batch was rolled back.
	KindConstraint Kind = "CONSTRAINT"
)

// Error is a typed storage failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a retryable storage failure.
func IsUnavailable(err error) bool { return hasKind(err, KindUnavailable) }

// IsSyntax reports whether err is a generated-SQL programming error.
func IsSyntax(err error) bool { return hasKind(err, KindSyntax) }

// IsTooManyRows reports whether err means the row cap was exceeded.
func IsTooManyRows(err error) bool { return hasKind(err, KindTooManyRows) }

// IsConstraint reports whether err is a constraint rejection.
func IsConstraint(err error) bool { return hasKind(err, KindConstraint) }

func hasKind(err error, k Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == k
}

// classify wraps a driver error as a typed storage error.
func classify(message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUnavailable, Message: message, Err: err}
	}

	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrProtocol:
			return &Error{Kind: KindUnavailable, Message: message, Err: err}
		case sqlite3.ErrConstraint:
			return &Error{Kind: KindConstraint, Message: message, Err: err}
		case sqlite3.ErrError, sqlite3.ErrMisuse, sqlite3.ErrRange:
			return &Error{Kind: KindSyntax, Message: message, Err: err}
		}
	}
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}
