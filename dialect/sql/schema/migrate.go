package schema

import (
	"context"
	"strings"

	"github.com/syssam/liteddl/dialect"
	"github.com/syssam/liteddl/dialect/sql"
)

// Migrator renders schema statements and executes them on a driver or a
// transaction. Every operation renders one statement (or, for AlterTable,
// one batch) and executes it once; nothing is executed if rendering fails.
//
//	m := schema.NewMigrator(drv)
//	err := m.CreateTable(ctx, "books", func(t *schema.TableDef) {
//		t.Column("id", schema.Integer).PrimaryKey(schema.AutoIncrement())
//		t.Column("title", schema.Text).NotNull()
//		t.Column("author_id", schema.Integer).References("authors", schema.OnDelete(schema.Cascade))
//	}, schema.IfNotExists())
type Migrator struct {
	drv  dialect.ExecQuerier
	insp Inspector
}

// MigrateOption configures a Migrator.
type MigrateOption func(*Migrator)

// WithInspector sets the inspector used to resolve foreign key columns.
// The default reads the table_info pragma through the migrator driver.
func WithInspector(insp Inspector) MigrateOption {
	return func(m *Migrator) {
		m.insp = insp
	}
}

// NewMigrator returns a Migrator executing statements through drv.
func NewMigrator(drv dialect.ExecQuerier, opts ...MigrateOption) *Migrator {
	m := &Migrator{drv: drv}
	for _, opt := range opts {
		opt(m)
	}
	if m.insp == nil {
		m.insp = NewPragmaInspector(drv)
	}
	return m
}

// Inspector returns the inspector of the migrator.
func (m *Migrator) Inspector() Inspector { return m.insp }

// CreateTable executes the CREATE TABLE statement of the table populated
// by define.
func (m *Migrator) CreateTable(ctx context.Context, name string, define func(*TableDef), opts ...TableOption) error {
	t := NewTable(name, opts...)
	if define != nil {
		define(t)
	}
	stmt, err := t.SQL(ctx, m.insp)
	if err != nil {
		return err
	}
	return m.exec(ctx, stmt)
}

// RenameTable executes ALTER TABLE "name" RENAME TO "newName".
func (m *Migrator) RenameTable(ctx context.Context, name, newName string) error {
	return m.exec(ctx, "ALTER TABLE "+sql.Quote(name)+" RENAME TO "+sql.Quote(newName))
}

// AlterTable executes the ALTER TABLE statements of the alteration
// populated by define. An alteration without columns executes nothing.
func (m *Migrator) AlterTable(ctx context.Context, name string, define func(*AlterDef)) error {
	a := NewAlter(name)
	if define != nil {
		define(a)
	}
	stmt, err := a.SQL(ctx, m.insp)
	if err != nil || stmt == "" {
		return err
	}
	return m.exec(ctx, stmt)
}

// DropOption configures DropTable and DropIndex.
type DropOption func(*dropConfig)

type dropConfig struct {
	ifExists bool
}

// IfExists adds the IF EXISTS clause.
func IfExists() DropOption {
	return func(c *dropConfig) {
		c.ifExists = true
	}
}

// DropTable executes DROP TABLE "name".
func (m *Migrator) DropTable(ctx context.Context, name string, opts ...DropOption) error {
	return m.exec(ctx, dropSQL("TABLE", name, opts))
}

// CreateIndex executes the CREATE INDEX statement of the given index.
//
//	m.CreateIndex(ctx, "books_score", "books", []string{"score"}, schema.Where(sql.Expr("score > ?", 0)))
func (m *Migrator) CreateIndex(ctx context.Context, name, table string, columns []string, opts ...IndexOption) error {
	stmt, err := NewIndex(name, table, columns, opts...).SQL()
	if err != nil {
		return err
	}
	return m.exec(ctx, stmt)
}

// DropIndex executes DROP INDEX "name".
func (m *Migrator) DropIndex(ctx context.Context, name string, opts ...DropOption) error {
	return m.exec(ctx, dropSQL("INDEX", name, opts))
}

// TableExists reports whether a table with the given name exists.
func (m *Migrator) TableExists(ctx context.Context, name string) (bool, error) {
	rows := &sql.Rows{}
	if err := m.drv.Query(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", []any{name}, rows); err != nil {
		return false, err
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, err
		}
	}
	return n > 0, rows.Err()
}

func (m *Migrator) exec(ctx context.Context, stmt string) error {
	return m.drv.Exec(ctx, stmt, []any{}, nil)
}

func dropSQL(kind, name string, opts []DropOption) string {
	c := &dropConfig{}
	for _, opt := range opts {
		opt(c)
	}
	var b strings.Builder
	b.WriteString("DROP ")
	b.WriteString(kind)
	if c.ifExists {
		b.WriteString(" IF EXISTS")
	}
	b.WriteByte(' ')
	b.WriteString(sql.Quote(name))
	return b.String()
}
