package schema

import (
	"context"
	"strings"

	"github.com/syssam/liteddl/dialect/sql"
)

// AlterDef describes a batch of ALTER TABLE statements on one table.
type AlterDef struct {
	name    string
	columns []*ColumnDef
}

// NewAlter returns a new alteration of the named table.
func NewAlter(name string) *AlterDef {
	return &AlterDef{name: name}
}

// Name returns the altered table name.
func (a *AlterDef) Name() string { return a.name }

// AddColumn appends a column to add and returns it for refinement.
func (a *AlterDef) AddColumn(name string, typ ColumnType) *ColumnDef {
	c := &ColumnDef{name: name, typ: typ}
	a.columns = append(a.columns, c)
	return c
}

// SQL renders one ALTER TABLE ... ADD COLUMN statement per added column,
// joined with "; ". An alteration without columns renders an empty string.
func (a *AlterDef) SQL(ctx context.Context, insp Inspector) (string, error) {
	r := newResolver(ctx, insp, a.name)
	stmts := make([]string, 0, len(a.columns))
	for _, c := range a.columns {
		var b strings.Builder
		b.WriteString("ALTER TABLE ")
		b.WriteString(sql.Quote(a.name))
		b.WriteString(" ADD COLUMN ")
		if err := c.sql(&b, r); err != nil {
			return "", err
		}
		stmts = append(stmts, b.String())
	}
	return strings.Join(stmts, "; "), nil
}
