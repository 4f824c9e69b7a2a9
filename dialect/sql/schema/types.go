package schema

import (
	"fmt"
	"strings"
)

// ColumnType is the declared type of a column.
type ColumnType string

// Column types.
const (
	Text     ColumnType = "TEXT"
	Integer  ColumnType = "INTEGER"
	Double   ColumnType = "DOUBLE"
	Numeric  ColumnType = "NUMERIC"
	Boolean  ColumnType = "BOOLEAN"
	Blob     ColumnType = "BLOB"
	Date     ColumnType = "DATE"
	Datetime ColumnType = "DATETIME"
)

var columnTypes = []ColumnType{Text, Integer, Double, Numeric, Boolean, Blob, Date, Datetime}

// UnmarshalText parses a column type name, case-insensitively.
func (t *ColumnType) UnmarshalText(b []byte) error {
	v, err := parseToken("column type", string(b), columnTypes)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ConflictResolution is the ON CONFLICT policy of a PRIMARY KEY, NOT NULL
// or UNIQUE constraint.
type ConflictResolution string

// Conflict resolutions.
const (
	Rollback ConflictResolution = "ROLLBACK"
	Abort    ConflictResolution = "ABORT"
	Fail     ConflictResolution = "FAIL"
	Ignore   ConflictResolution = "IGNORE"
	Replace  ConflictResolution = "REPLACE"
)

var conflictResolutions = []ConflictResolution{Rollback, Abort, Fail, Ignore, Replace}

// UnmarshalText parses a conflict resolution name, case-insensitively.
func (r *ConflictResolution) UnmarshalText(b []byte) error {
	v, err := parseToken("conflict resolution", string(b), conflictResolutions)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ReferenceOption is a foreign key action for ON DELETE and ON UPDATE.
type ReferenceOption string

// Reference options.
const (
	Cascade    ReferenceOption = "CASCADE"
	Restrict   ReferenceOption = "RESTRICT"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

var referenceOptions = []ReferenceOption{Cascade, Restrict, SetNull, SetDefault}

// UnmarshalText parses a reference option. Both the SQL form ("set null")
// and the constant form ("set_null", "SetNull") are accepted.
func (r *ReferenceOption) UnmarshalText(b []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	s = strings.ReplaceAll(s, "_", " ")
	switch s {
	case "SETNULL":
		s = string(SetNull)
	case "SETDEFAULT":
		s = string(SetDefault)
	}
	v, err := parseToken("reference option", s, referenceOptions)
	if err != nil {
		return fmt.Errorf("schema: unknown reference option %q", string(b))
	}
	*r = v
	return nil
}

// Collation is a collating sequence name. Besides the built-in sequences,
// any name registered on the connection can be used, e.g. Collation("unicode").
type Collation string

// Built-in collations.
const (
	Binary Collation = "BINARY"
	NoCase Collation = "NOCASE"
	RTrim  Collation = "RTRIM"
)

// UnmarshalText maps the built-in collation names to their canonical form
// and keeps any other name verbatim.
func (c *Collation) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return fmt.Errorf("schema: empty collation name")
	}
	*c = Collation(s)
	for _, v := range []Collation{Binary, NoCase, RTrim} {
		if strings.EqualFold(s, string(v)) {
			*c = v
		}
	}
	return nil
}

func parseToken[T ~string](what, s string, valid []T) (T, error) {
	s = strings.TrimSpace(s)
	for _, v := range valid {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("schema: unknown %s %q", what, s)
}
