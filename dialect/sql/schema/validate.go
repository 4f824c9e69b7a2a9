package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a structural problem of a schema definition.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err returns the validation errors joined into one error, or nil.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("schema: invalid definition: %s", strings.Join(msgs, "; "))
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) merge(o *ValidationResult) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// ValidateTable checks the structure of a single table definition. It
// does not consult the database.
//
//	if err := schema.ValidateTable(t).Err(); err != nil {
//		return err
//	}
func ValidateTable(t *TableDef) *ValidationResult {
	result := &ValidationResult{}
	if t.err != nil {
		result.Errors = append(result.Errors, &ValidationError{Table: t.name, Message: t.err.Error()})
	}
	if len(t.columns) == 0 {
		result.Errors = append(result.Errors, &ValidationError{Table: t.name, Message: "table has no columns"})
	}

	colNames := make(map[string]bool)
	var pkColumns []string
	for _, c := range t.columns {
		key := strings.ToLower(c.name)
		if colNames[key] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.name,
				Column:  c.name,
				Message: "duplicate column name",
			})
		}
		colNames[key] = true
		if pk := c.primaryKey; pk != nil {
			pkColumns = append(pkColumns, c.name)
			if pk.autoIncrement && c.typ != Integer {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.name,
					Column:  c.name,
					Message: "AUTOINCREMENT is only allowed on an INTEGER primary key",
				})
			}
		}
	}

	switch {
	case len(pkColumns) > 1:
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.name,
			Message: fmt.Sprintf("more than one column primary key: %s", strings.Join(pkColumns, ", ")),
		})
	case len(pkColumns) == 1 && t.primaryKey != nil:
		result.Errors = append(result.Errors, &ValidationError{
			Table:   t.name,
			Message: "both a column and a table primary key are defined",
		})
	case len(pkColumns) == 0 && t.primaryKey == nil:
		msg := "table has no primary key"
		if t.withoutRowID {
			result.Errors = append(result.Errors, &ValidationError{Table: t.name, Message: msg + ", required by WITHOUT ROWID"})
		} else {
			result.Warnings = append(result.Warnings, &ValidationError{Table: t.name, Message: msg})
		}
	}

	checkColumns := func(what string, columns []string) {
		if len(columns) == 0 {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.name,
				Message: what + " has no columns",
			})
		}
		for _, name := range columns {
			if !colNames[strings.ToLower(name)] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.name,
					Message: fmt.Sprintf("%s references non-existent column %q", what, name),
				})
			}
		}
	}
	if t.primaryKey != nil {
		checkColumns("primary key", t.primaryKey.Columns)
	}
	for _, u := range t.uniqueKeys {
		checkColumns("unique key", u.Columns)
	}
	for _, fk := range t.foreignKeys {
		checkColumns("foreign key", fk.Columns)
		if n := len(fk.Reference.Columns); n > 0 && n != len(fk.Columns) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.name,
				Message: fmt.Sprintf("foreign key has %d columns but references %d", len(fk.Columns), n),
			})
		}
	}
	return result
}

// ValidateIndex checks an index against the definition of its table.
// A nil table is reported only as a warning, the table may already exist.
func ValidateIndex(idx *IndexDef, t *TableDef) *ValidationResult {
	result := &ValidationResult{}
	if len(idx.columns) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Table:   idx.table,
			Message: fmt.Sprintf("index %q has no columns", idx.name),
		})
	}
	if t == nil {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   idx.table,
			Message: fmt.Sprintf("index %q is on a table not defined here", idx.name),
		})
		return result
	}
	for _, name := range idx.columns {
		found := false
		for _, c := range t.columns {
			if strings.EqualFold(c.name, name) {
				found = true
				break
			}
		}
		if !found {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   idx.table,
				Message: fmt.Sprintf("index %q references non-existent column %q", idx.name, name),
			})
		}
	}
	return result
}

// ValidateSchema validates a set of tables and indexes created together.
func ValidateSchema(tables []*TableDef, indexes []*IndexDef) *ValidationResult {
	result := &ValidationResult{}
	byName := make(map[string]*TableDef, len(tables))
	for _, t := range tables {
		key := strings.ToLower(t.name)
		if byName[key] != nil {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.name,
				Message: "duplicate table name",
			})
		} else {
			byName[key] = t
		}
		result.merge(ValidateTable(t))
	}

	// References to tables outside the set may be resolved by the database.
	for _, t := range tables {
		refs := make([]*Reference, 0, len(t.foreignKeys))
		for _, c := range t.columns {
			if c.reference != nil {
				refs = append(refs, c.reference)
			}
		}
		for _, fk := range t.foreignKeys {
			refs = append(refs, fk.Reference)
		}
		for _, ref := range refs {
			if byName[strings.ToLower(ref.Table)] == nil {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   t.name,
					Message: fmt.Sprintf("foreign key references table %q not defined here", ref.Table),
				})
			}
		}
	}

	idxNames := make(map[string]bool, len(indexes))
	for _, idx := range indexes {
		key := strings.ToLower(idx.name)
		if idxNames[key] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   idx.table,
				Message: fmt.Sprintf("duplicate index name: %s", idx.name),
			})
		}
		idxNames[key] = true
		result.merge(ValidateIndex(idx, byName[strings.ToLower(idx.table)]))
	}
	return result
}
