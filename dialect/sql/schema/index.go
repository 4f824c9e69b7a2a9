package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/liteddl/dialect/sql"
)

// IndexDef describes a CREATE INDEX statement.
type IndexDef struct {
	name        string
	table       string
	columns     []string
	unique      bool
	ifNotExists bool
	where       sql.Expression
}

// IndexOption configures an IndexDef.
type IndexOption func(*IndexDef)

// UniqueIndex creates a UNIQUE index.
func UniqueIndex() IndexOption {
	return func(i *IndexDef) {
		i.unique = true
	}
}

// IndexIfNotExists adds the IF NOT EXISTS clause.
func IndexIfNotExists() IndexOption {
	return func(i *IndexDef) {
		i.ifNotExists = true
	}
}

// Where makes the index partial. Values of the condition are embedded in
// the statement.
//
//	schema.Where(sql.Expr("score > ?", 0)) // WHERE score > 0
func Where(cond sql.Expression) IndexOption {
	return func(i *IndexDef) {
		i.where = cond
	}
}

// NewIndex returns a new index definition.
func NewIndex(name, table string, columns []string, opts ...IndexOption) *IndexDef {
	i := &IndexDef{name: name, table: table, columns: columns}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SQL renders the CREATE INDEX statement.
func (i *IndexDef) SQL() (string, error) {
	var b strings.Builder
	b.WriteString("CREATE ")
	if i.unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	if i.ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(sql.Quote(i.name))
	b.WriteString(" ON ")
	b.WriteString(sql.Quote(i.table))
	b.WriteByte('(')
	b.WriteString(sql.QuoteList(i.columns))
	b.WriteByte(')')
	if !i.where.IsZero() {
		s, err := i.where.SQL()
		if err != nil {
			return "", fmt.Errorf("schema: condition of index %q: %w", i.name, err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(s)
	}
	return b.String(), nil
}
