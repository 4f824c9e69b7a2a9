package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/syssam/liteddl"
	"github.com/syssam/liteddl/dialect/sql"
)

// TableDef describes a CREATE TABLE statement. Columns and each category
// of table constraints render in declaration order, and the categories
// render after all columns in the order: primary key, unique keys,
// foreign keys, checks.
type TableDef struct {
	name         string
	temporary    bool
	ifNotExists  bool
	withoutRowID bool
	columns      []*ColumnDef
	primaryKey   *PrimaryKeyConstraint
	uniqueKeys   []*UniqueConstraint
	foreignKeys  []*ForeignKeyConstraint
	checks       []*CheckConstraint
	// err holds the first invariant violation recorded while building.
	err error
}

// TableOption configures a TableDef.
type TableOption func(*TableDef)

// Temporary creates a TEMPORARY table.
func Temporary() TableOption {
	return func(t *TableDef) {
		t.temporary = true
	}
}

// IfNotExists adds the IF NOT EXISTS clause.
func IfNotExists() TableOption {
	return func(t *TableDef) {
		t.ifNotExists = true
	}
}

// WithoutRowID creates a WITHOUT ROWID table.
func WithoutRowID() TableOption {
	return func(t *TableDef) {
		t.withoutRowID = true
	}
}

// NewTable returns a new table definition.
func NewTable(name string, opts ...TableOption) *TableDef {
	t := &TableDef{name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the table name.
func (t *TableDef) Name() string { return t.name }

// Column appends a column to the table and returns it for refinement.
func (t *TableDef) Column(name string, typ ColumnType) *ColumnDef {
	c := &ColumnDef{name: name, typ: typ}
	t.columns = append(t.columns, c)
	return c
}

// PrimaryKey sets the table primary key. A table has at most one primary
// key, and declaring a second one is reported as an invariant violation
// when the table is rendered.
//
//	t.PrimaryKey([]string{"author_id", "book_id"}, schema.OnConflict(schema.Ignore))
func (t *TableDef) PrimaryKey(columns []string, opts ...KeyOption) *TableDef {
	if t.primaryKey != nil {
		if t.err == nil {
			t.err = liteddl.NewInvariantError(t.name, liteddl.KindDuplicatePrimaryKey,
				"primary key (%s) already defined, got (%s)", sql.QuoteList(t.primaryKey.Columns), sql.QuoteList(columns))
		}
		return t
	}
	t.primaryKey = &PrimaryKeyConstraint{
		Columns:    columns,
		OnConflict: newKeyConfig("", opts).conflict,
	}
	return t
}

// UniqueKey appends a table UNIQUE constraint. Like the table primary key,
// the ON CONFLICT clause is rendered whenever OnConflict is given.
func (t *TableDef) UniqueKey(columns []string, opts ...KeyOption) *TableDef {
	t.uniqueKeys = append(t.uniqueKeys, &UniqueConstraint{
		Columns:    columns,
		OnConflict: newKeyConfig("", opts).conflict,
	})
	return t
}

// ForeignKey appends a table FOREIGN KEY constraint. When RefColumns is
// not given, the referenced columns are the primary key of the referenced
// table.
//
//	t.ForeignKey([]string{"author_id"}, "authors", schema.OnDelete(schema.Cascade), schema.Deferred())
func (t *TableDef) ForeignKey(columns []string, table string, opts ...RefOption) *TableDef {
	t.foreignKeys = append(t.foreignKeys, &ForeignKeyConstraint{
		Columns:   columns,
		Reference: newReference(table, opts),
	})
	return t
}

// Check appends a table CHECK constraint.
func (t *TableDef) Check(cond sql.Expression) *TableDef {
	t.checks = append(t.checks, &CheckConstraint{Expr: cond})
	return t
}

// CheckSQL appends a table CHECK constraint given as raw SQL.
func (t *TableDef) CheckSQL(cond string) *TableDef {
	return t.Check(sql.Raw(cond))
}

// SQL renders the CREATE TABLE statement. The inspector resolves the
// columns of references that omit them; it may be nil when every
// reference lists its columns or points at the table itself.
func (t *TableDef) SQL(ctx context.Context, insp Inspector) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	r := newResolver(ctx, insp, t.name)
	r.self = t.ownPrimaryKey
	var b strings.Builder
	b.WriteString("CREATE ")
	if t.temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("TABLE ")
	if t.ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(sql.Quote(t.name))
	b.WriteString(" (")
	sep := func(i int) {
		if i > 0 {
			b.WriteString(", ")
		}
	}
	n := 0
	for _, c := range t.columns {
		sep(n)
		n++
		if err := c.sql(&b, r); err != nil {
			return "", err
		}
	}
	if t.primaryKey != nil {
		sep(n)
		n++
		t.primaryKey.sql(&b)
	}
	for _, u := range t.uniqueKeys {
		sep(n)
		n++
		u.sql(&b)
	}
	for _, fk := range t.foreignKeys {
		sep(n)
		n++
		if err := fk.sql(&b, r); err != nil {
			return "", err
		}
	}
	for _, c := range t.checks {
		sep(n)
		n++
		if err := c.sql(&b); err != nil {
			return "", err
		}
	}
	b.WriteByte(')')
	if t.withoutRowID {
		b.WriteString(" WITHOUT ROWID")
	}
	return b.String(), nil
}

// ownPrimaryKey returns the primary key being defined, used for
// references of the table to itself.
func (t *TableDef) ownPrimaryKey() []string {
	if t.primaryKey != nil {
		return t.primaryKey.Columns
	}
	var cols []string
	for _, c := range t.columns {
		if c.primaryKey != nil {
			cols = append(cols, c.name)
		}
	}
	return cols
}

// PrimaryKeyConstraint is a table PRIMARY KEY constraint.
type PrimaryKeyConstraint struct {
	Columns    []string
	OnConflict ConflictResolution
}

func (c *PrimaryKeyConstraint) sql(b *strings.Builder) {
	b.WriteString("PRIMARY KEY (")
	b.WriteString(sql.QuoteList(c.Columns))
	b.WriteByte(')')
	writeConflict(b, c.OnConflict)
}

// UniqueConstraint is a table UNIQUE constraint.
type UniqueConstraint struct {
	Columns    []string
	OnConflict ConflictResolution
}

func (c *UniqueConstraint) sql(b *strings.Builder) {
	b.WriteString("UNIQUE (")
	b.WriteString(sql.QuoteList(c.Columns))
	b.WriteByte(')')
	writeConflict(b, c.OnConflict)
}

// ForeignKeyConstraint is a table FOREIGN KEY constraint.
type ForeignKeyConstraint struct {
	Columns   []string
	Reference *Reference
}

func (c *ForeignKeyConstraint) sql(b *strings.Builder, r *resolver) error {
	b.WriteString("FOREIGN KEY (")
	b.WriteString(sql.QuoteList(c.Columns))
	b.WriteString(") ")
	return c.Reference.sql(b, r)
}

// CheckConstraint is a table CHECK constraint.
type CheckConstraint struct {
	Expr sql.Expression
}

func (c *CheckConstraint) sql(b *strings.Builder) error {
	s, err := c.Expr.SQL()
	if err != nil {
		return fmt.Errorf("schema: check constraint: %w", err)
	}
	b.WriteString("CHECK (")
	b.WriteString(s)
	b.WriteByte(')')
	return nil
}

// Reference is the REFERENCES clause of a column or table foreign key.
type Reference struct {
	Table    string
	Columns  []string // Empty for the primary key of Table.
	OnDelete ReferenceOption
	OnUpdate ReferenceOption
	Deferred bool
}

// RefOption configures a Reference.
type RefOption func(*Reference)

// RefColumns sets the referenced columns.
func RefColumns(columns ...string) RefOption {
	return func(r *Reference) {
		r.Columns = columns
	}
}

// OnDelete sets the ON DELETE action.
func OnDelete(opt ReferenceOption) RefOption {
	return func(r *Reference) {
		r.OnDelete = opt
	}
}

// OnUpdate sets the ON UPDATE action.
func OnUpdate(opt ReferenceOption) RefOption {
	return func(r *Reference) {
		r.OnUpdate = opt
	}
}

// Deferred makes the foreign key DEFERRABLE INITIALLY DEFERRED.
func Deferred() RefOption {
	return func(r *Reference) {
		r.Deferred = true
	}
}

func newReference(table string, opts []RefOption) *Reference {
	r := &Reference{Table: table}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (ref *Reference) sql(b *strings.Builder, r *resolver) error {
	columns, err := r.columns(ref)
	if err != nil {
		return err
	}
	b.WriteString("REFERENCES ")
	b.WriteString(sql.Quote(ref.Table))
	b.WriteByte('(')
	b.WriteString(sql.QuoteList(columns))
	b.WriteByte(')')
	if ref.OnDelete != "" {
		b.WriteString(" ON DELETE ")
		b.WriteString(string(ref.OnDelete))
	}
	if ref.OnUpdate != "" {
		b.WriteString(" ON UPDATE ")
		b.WriteString(string(ref.OnUpdate))
	}
	if ref.Deferred {
		b.WriteString(" DEFERRABLE INITIALLY DEFERRED")
	}
	return nil
}

// resolver looks up the referenced columns of references that omit them.
// Lookups are memoized for the duration of one rendering.
type resolver struct {
	ctx   context.Context
	insp  Inspector
	table string
	self  func() []string
	seen  map[string][]string
}

func newResolver(ctx context.Context, insp Inspector, table string) *resolver {
	return &resolver{ctx: ctx, insp: insp, table: table, seen: make(map[string][]string)}
}

func (r *resolver) columns(ref *Reference) ([]string, error) {
	if len(ref.Columns) > 0 {
		return ref.Columns, nil
	}
	if cols, ok := r.seen[ref.Table]; ok {
		return cols, nil
	}
	var cols []string
	switch {
	case r.self != nil && strings.EqualFold(ref.Table, r.table):
		cols = r.self()
	case r.insp != nil:
		pk, err := r.insp.PrimaryKey(r.ctx, ref.Table)
		if err != nil {
			return nil, fmt.Errorf("schema: inspect primary key of %q: %w", ref.Table, err)
		}
		cols = pk
	}
	if len(cols) == 0 {
		return nil, liteddl.NewInvariantError(r.table, liteddl.KindUnresolvedReference,
			"referenced table %q has no primary key and no columns were given", ref.Table)
	}
	r.seen[ref.Table] = cols
	return cols, nil
}
