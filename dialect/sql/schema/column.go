package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/liteddl/dialect/sql"
)

// ColumnDef describes one column of a created or altered table. It is
// obtained from TableDef.Column or AlterDef.AddColumn and refined with
// chained calls:
//
//	t.Column("email", schema.Text).
//		NotNull().
//		Unique(schema.OnConflict(schema.Replace)).
//		Collate(schema.NoCase)
//
// Each facet is set by a single call; calling it again replaces the
// previous value.
type ColumnDef struct {
	name       string
	typ        ColumnType
	primaryKey *keyConfig
	notNull    *keyConfig
	unique     *keyConfig
	check      *sql.Expression
	dflt       *sql.Expression
	collation  Collation
	reference  *Reference
}

// Name returns the column name.
func (c *ColumnDef) Name() string { return c.name }

// Type returns the declared type of the column.
func (c *ColumnDef) Type() ColumnType { return c.typ }

// KeyOption configures a PRIMARY KEY, NOT NULL or UNIQUE constraint.
type KeyOption func(*keyConfig)

type keyConfig struct {
	conflict      ConflictResolution
	autoIncrement bool
}

// OnConflict sets the conflict resolution of the constraint.
func OnConflict(r ConflictResolution) KeyOption {
	return func(c *keyConfig) {
		c.conflict = r
	}
}

// AutoIncrement adds the AUTOINCREMENT keyword to a column primary key.
// It is ignored by other constraints.
func AutoIncrement() KeyOption {
	return func(c *keyConfig) {
		c.autoIncrement = true
	}
}

func newKeyConfig(conflict ConflictResolution, opts []KeyOption) *keyConfig {
	c := &keyConfig{conflict: conflict}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PrimaryKey marks the column as the primary key of its table. The
// ON CONFLICT clause is rendered only when OnConflict is given.
func (c *ColumnDef) PrimaryKey(opts ...KeyOption) *ColumnDef {
	c.primaryKey = newKeyConfig("", opts)
	return c
}

// NotNull adds a NOT NULL constraint. The conflict resolution defaults to
// Abort, which is the engine default and renders no ON CONFLICT clause.
func (c *ColumnDef) NotNull(opts ...KeyOption) *ColumnDef {
	c.notNull = newKeyConfig(Abort, opts)
	return c
}

// Unique adds a UNIQUE constraint. The conflict resolution defaults to
// Abort, as for NotNull.
func (c *ColumnDef) Unique(opts ...KeyOption) *ColumnDef {
	c.unique = newKeyConfig(Abort, opts)
	return c
}

// Check adds a CHECK constraint on the column.
//
//	t.Column("score", schema.Double).Check(sql.Expr("score >= ?", 0))
func (c *ColumnDef) Check(cond sql.Expression) *ColumnDef {
	c.check = &cond
	return c
}

// Default sets the DEFAULT value of the column. Expression values are
// used as is and any other value is converted with sql.Literal. A zero
// Expression fails to render, use Default(nil) for DEFAULT NULL.
//
//	t.Column("role", schema.Text).Default("guest")
//	t.Column("created_at", schema.Datetime).Default(sql.Raw("CURRENT_TIMESTAMP"))
func (c *ColumnDef) Default(v any) *ColumnDef {
	e, ok := v.(sql.Expression)
	if !ok {
		e = sql.Lit(v)
	}
	c.dflt = &e
	return c
}

// Collate sets the collating sequence of the column.
func (c *ColumnDef) Collate(name Collation) *ColumnDef {
	c.collation = name
	return c
}

// References adds a foreign key on the column. When RefColumns is not
// given, the referenced columns are the primary key of the referenced
// table, looked up when the statement is rendered.
//
//	t.Column("author_id", schema.Integer).
//		References("authors", schema.OnDelete(schema.Cascade))
func (c *ColumnDef) References(table string, opts ...RefOption) *ColumnDef {
	c.reference = newReference(table, opts)
	return c
}

// sql writes the column definition to b.
func (c *ColumnDef) sql(b *strings.Builder, r *resolver) error {
	b.WriteString(sql.Quote(c.name))
	if c.typ != "" {
		b.WriteByte(' ')
		b.WriteString(string(c.typ))
	}
	if pk := c.primaryKey; pk != nil {
		b.WriteString(" PRIMARY KEY")
		writeConflict(b, pk.conflict)
		if pk.autoIncrement {
			b.WriteString(" AUTOINCREMENT")
		}
	}
	if nn := c.notNull; nn != nil {
		b.WriteString(" NOT NULL")
		writeConflict(b, omitAbort(nn.conflict))
	}
	if u := c.unique; u != nil {
		b.WriteString(" UNIQUE")
		writeConflict(b, omitAbort(u.conflict))
	}
	if c.check != nil {
		s, err := c.check.SQL()
		if err != nil {
			return fmt.Errorf("schema: check of column %q: %w", c.name, err)
		}
		b.WriteString(" CHECK (")
		b.WriteString(s)
		b.WriteByte(')')
	}
	if c.dflt != nil {
		s, err := c.dflt.SQL()
		if err != nil {
			return fmt.Errorf("schema: default of column %q: %w", c.name, err)
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(s)
	}
	if c.collation != "" {
		b.WriteString(" COLLATE ")
		b.WriteString(string(c.collation))
	}
	if c.reference != nil {
		b.WriteByte(' ')
		if err := c.reference.sql(b, r); err != nil {
			return err
		}
	}
	return nil
}

func writeConflict(b *strings.Builder, r ConflictResolution) {
	if r != "" {
		b.WriteString(" ON CONFLICT ")
		b.WriteString(string(r))
	}
}

// omitAbort drops the engine default resolution of NOT NULL and UNIQUE.
func omitAbort(r ConflictResolution) ConflictResolution {
	if r == Abort {
		return ""
	}
	return r
}
