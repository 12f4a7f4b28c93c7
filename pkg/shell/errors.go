package shell

import (
	"os"

	"github.com/pkg/errors"

	"github.com/lsql-dev/lsql/pkg/vtable"
)

// Kind buckets dispatch failures for presentation.
type Kind int

const (
	// KindExecution is an engine or storage rejection of an otherwise
	// well-formed command; the default bucket.
	KindExecution Kind = iota
	// KindNotFound is a missing database or table that was required.
	KindNotFound
	// KindValidation is a malformed directive argument or set clause.
	KindValidation
	// KindIO is a file access failure (history, CSV, table files).
	KindIO
)

// Error attaches a Kind to an underlying cause. It is created at the point
// where the failure's nature is known and read back with Classify at the
// dispatch boundary.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string { return e.cause.Error() }

func (e *Error) Unwrap() error { return e.cause }

// WithKind tags err with the given kind. A nil err stays nil.
func WithKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: err}
}

// Validationf builds a tagged validation error.
func Validationf(format string, args ...any) error {
	return WithKind(KindValidation, errors.Errorf(format, args...))
}

// NotFoundf builds a tagged not-found error.
func NotFoundf(format string, args ...any) error {
	return WithKind(KindNotFound, errors.Errorf(format, args...))
}

// Classify determines the kind of an arbitrary dispatch error. Explicit
// tags win; otherwise storage not-found and file errors are recognized and
// everything else counts as an execution failure.
func Classify(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	if errors.Is(err, vtable.ErrNotFound) {
		return KindNotFound
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}
	return KindExecution
}
