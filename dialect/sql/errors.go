package sql

import (
	"errors"
	"strings"
)

// errorCoder is implemented by errors carrying an extended SQLite result
// code, like modernc.org/sqlite's *sqlite.Error.
type errorCoder interface {
	Code() int
}

// SQLite extended result codes for constraint violations.
const (
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// IsConstraintError returns true if the error resulted from a database
// constraint violation. Schema statements report one when a new constraint
// does not hold for existing rows, e.g. CREATE UNIQUE INDEX over duplicates.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err) ||
		IsNotNullConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a uniqueness
// constraint violation, of a UNIQUE or a PRIMARY KEY constraint.
func IsUniqueConstraintError(err error) bool {
	return isConstraint(err, []int{sqliteConstraintUnique, sqliteConstraintPrimaryKey},
		"UNIQUE constraint failed", "PRIMARY KEY constraint failed")
}

// IsForeignKeyConstraintError reports if the error resulted from a foreign
// key constraint violation.
func IsForeignKeyConstraintError(err error) bool {
	return isConstraint(err, []int{sqliteConstraintForeignKey}, "FOREIGN KEY constraint failed")
}

// IsCheckConstraintError reports if the error resulted from a check
// constraint violation.
func IsCheckConstraintError(err error) bool {
	return isConstraint(err, []int{sqliteConstraintCheck}, "CHECK constraint failed")
}

// IsNotNullConstraintError reports if the error resulted from a NOT NULL
// constraint violation.
func IsNotNullConstraintError(err error) bool {
	return isConstraint(err, []int{sqliteConstraintNotNull}, "NOT NULL constraint failed")
}

func isConstraint(err error, codes []int, messages ...string) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorCoder](err); ok {
		for _, c := range codes {
			if e.Code() == c {
				return true
			}
		}
	}
	// mattn/go-sqlite3 exposes its codes as struct fields only.
	return containsAny(err.Error(), messages...)
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
