package liteddl

import (
	"errors"
	"fmt"
)

// ErrInvariant is returned (wrapped in an *InvariantError) when a schema
// description misuses the builder API. It signals a bug in the calling code,
// never a transient or data-dependent condition.
var ErrInvariant = errors.New("liteddl: invariant violation")

// Invariant kinds reported by the builders.
const (
	// KindDuplicatePrimaryKey is reported when a table-level primary key
	// is declared more than once on the same table.
	KindDuplicatePrimaryKey = "duplicate primary key"

	// KindUnresolvedReference is reported when a foreign key omits its
	// destination columns and the referenced table has no primary key.
	KindUnresolvedReference = "unresolved reference"
)

// InvariantError describes a misuse of the schema builders detected at
// render time, before any statement is executed.
type InvariantError struct {
	Table string // Table being defined or altered
	Kind  string // One of the Kind* constants
	msg   string
}

// Error returns the error string.
func (e *InvariantError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("liteddl: %s on table %q: %s", e.Kind, e.Table, e.msg)
	}
	return fmt.Sprintf("liteddl: %s: %s", e.Kind, e.msg)
}

// Is reports whether the target error matches InvariantError.
// This allows errors.Is(err, ErrInvariant) to return true.
func (e *InvariantError) Is(err error) bool {
	return err == ErrInvariant
}

// NewInvariantError returns a new InvariantError of the given kind.
func NewInvariantError(table, kind, format string, args ...any) *InvariantError {
	return &InvariantError{Table: table, Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// IsInvariantViolation returns true if the error is an InvariantError.
func IsInvariantViolation(err error) bool {
	if err == nil {
		return false
	}
	var e *InvariantError
	return errors.As(err, &e) || errors.Is(err, ErrInvariant)
}
