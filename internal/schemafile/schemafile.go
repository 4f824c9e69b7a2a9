// Package schemafile decodes declarative YAML schema documents and turns
// them into schema definitions and Migrator calls.
//
//	tables:
//	  - name: authors
//	    columns:
//	      - {name: id, type: integer, primary_key: {autoincrement: true}}
//	      - {name: name, type: text, not_null: true, collate: nocase}
//	  - name: books
//	    columns:
//	      - {name: id, type: integer, primary_key: true}
//	      - {name: author_id, type: integer, references: {table: authors, on_delete: cascade}}
//	      - {name: score, type: double, default: 0, check: "score >= 0"}
//	    unique: [{columns: [author_id, title], on_conflict: replace}]
//	indexes:
//	  - {name: books_score, table: books, columns: [score], where: "score > 0"}
package schemafile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/liteddl/dialect/sql"
	"github.com/syssam/liteddl/dialect/sql/schema"
)

// Document is a schema document. Tables and indexes are created in
// declaration order.
type Document struct {
	Tables  []*Table `yaml:"tables"`
	Indexes []*Index `yaml:"indexes"`
}

// Table describes a table to create.
type Table struct {
	Name         string        `yaml:"name"`
	Temporary    bool          `yaml:"temporary"`
	IfNotExists  bool          `yaml:"if_not_exists"`
	WithoutRowID bool          `yaml:"without_rowid"`
	Columns      []*Column     `yaml:"columns"`
	PrimaryKey   *Key          `yaml:"primary_key"`
	Unique       []*Key        `yaml:"unique"`
	ForeignKeys  []*ForeignKey `yaml:"foreign_keys"`
	Checks       []string      `yaml:"checks"`
}

// Column describes a column of a table.
type Column struct {
	Name        string            `yaml:"name"`
	Type        schema.ColumnType `yaml:"type"`
	PrimaryKey  *Key              `yaml:"primary_key"`
	NotNull     *Key              `yaml:"not_null"`
	Unique      *Key              `yaml:"unique"`
	Check       string            `yaml:"check"`
	Default     *yaml.Node        `yaml:"default"`
	DefaultExpr string            `yaml:"default_expr"`
	Collate     schema.Collation  `yaml:"collate"`
	References  *Reference        `yaml:"references"`
}

// Key is a PRIMARY KEY, NOT NULL or UNIQUE constraint. On columns, the
// shorthand `true` declares the constraint with its defaults.
type Key struct {
	Columns       []string                  `yaml:"columns"`
	OnConflict    schema.ConflictResolution `yaml:"on_conflict"`
	AutoIncrement bool                      `yaml:"autoincrement"`
}

// UnmarshalYAML accepts either a mapping or the scalar true.
func (k *Key) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var on bool
		if err := n.Decode(&on); err != nil || !on {
			return fmt.Errorf("line %d: constraint must be true or a mapping, got %q", n.Line, n.Value)
		}
		return nil
	}
	type plain Key
	return n.Decode((*plain)(k))
}

func (k *Key) options() []schema.KeyOption {
	var opts []schema.KeyOption
	if k.OnConflict != "" {
		opts = append(opts, schema.OnConflict(k.OnConflict))
	}
	if k.AutoIncrement {
		opts = append(opts, schema.AutoIncrement())
	}
	return opts
}

// Reference is the target of a foreign key.
type Reference struct {
	Table    string                 `yaml:"table"`
	Columns  []string               `yaml:"columns"`
	OnDelete schema.ReferenceOption `yaml:"on_delete"`
	OnUpdate schema.ReferenceOption `yaml:"on_update"`
	Deferred bool                   `yaml:"deferred"`
}

func (r *Reference) options() []schema.RefOption {
	var opts []schema.RefOption
	if len(r.Columns) > 0 {
		opts = append(opts, schema.RefColumns(r.Columns...))
	}
	if r.OnDelete != "" {
		opts = append(opts, schema.OnDelete(r.OnDelete))
	}
	if r.OnUpdate != "" {
		opts = append(opts, schema.OnUpdate(r.OnUpdate))
	}
	if r.Deferred {
		opts = append(opts, schema.Deferred())
	}
	return opts
}

// ForeignKey is a table foreign key.
type ForeignKey struct {
	Columns    []string   `yaml:"columns"`
	References *Reference `yaml:"references"`
}

// Index describes an index to create.
type Index struct {
	Name        string   `yaml:"name"`
	Table       string   `yaml:"table"`
	Columns     []string `yaml:"columns"`
	Unique      bool     `yaml:"unique"`
	IfNotExists bool     `yaml:"if_not_exists"`
	Where       string   `yaml:"where"`
}

// Def returns the index definition.
func (i *Index) Def() *schema.IndexDef {
	return schema.NewIndex(i.Name, i.Table, i.Columns, i.options()...)
}

func (i *Index) options() []schema.IndexOption {
	var opts []schema.IndexOption
	if i.Unique {
		opts = append(opts, schema.UniqueIndex())
	}
	if i.IfNotExists {
		opts = append(opts, schema.IndexIfNotExists())
	}
	if i.Where != "" {
		opts = append(opts, schema.Where(sql.Raw(i.Where)))
	}
	return opts
}

// Load reads and decodes the schema document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse decodes a schema document. Unknown keys, type names, conflict
// resolutions and reference actions are errors.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	doc := &Document{}
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Message: err.Error(), Err: err}
	}
	for i, t := range doc.Tables {
		if t == nil || t.Name == "" {
			return nil, &ParseError{Message: fmt.Sprintf("table %d has no name", i+1)}
		}
		for j, c := range t.Columns {
			if c == nil || c.Name == "" {
				return nil, &ParseError{Message: fmt.Sprintf("table %q: column %d has no name", t.Name, j+1)}
			}
			if c.Default != nil && c.DefaultExpr != "" {
				return nil, &ParseError{Message: fmt.Sprintf("table %q: column %q has both default and default_expr", t.Name, c.Name)}
			}
		}
		for _, fk := range t.ForeignKeys {
			if fk == nil || fk.References == nil || fk.References.Table == "" {
				return nil, &ParseError{Message: fmt.Sprintf("table %q: foreign key without referenced table", t.Name)}
			}
		}
	}
	for i, idx := range doc.Indexes {
		if idx == nil || idx.Name == "" || idx.Table == "" {
			return nil, &ParseError{Message: fmt.Sprintf("index %d needs a name and a table", i+1)}
		}
	}
	return doc, nil
}

// options returns the CREATE TABLE options of the table.
func (t *Table) options() []schema.TableOption {
	var opts []schema.TableOption
	if t.Temporary {
		opts = append(opts, schema.Temporary())
	}
	if t.IfNotExists {
		opts = append(opts, schema.IfNotExists())
	}
	if t.WithoutRowID {
		opts = append(opts, schema.WithoutRowID())
	}
	return opts
}

// definer returns the function populating the table definition. Column
// defaults are decoded up front, the definer itself cannot fail.
func (t *Table) definer() (func(*schema.TableDef), error) {
	defaults := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		switch {
		case c.DefaultExpr != "":
			defaults[i] = sql.Raw(c.DefaultExpr)
		case c.Default != nil:
			v, err := scalar(c.Default)
			if err != nil {
				return nil, fmt.Errorf("schemafile: table %q: default of column %q: %w", t.Name, c.Name, err)
			}
			defaults[i] = sql.Lit(v)
		}
	}
	return func(td *schema.TableDef) {
		for i, c := range t.Columns {
			cd := td.Column(c.Name, c.Type)
			if c.PrimaryKey != nil {
				cd.PrimaryKey(c.PrimaryKey.options()...)
			}
			if c.NotNull != nil {
				cd.NotNull(c.NotNull.options()...)
			}
			if c.Unique != nil {
				cd.Unique(c.Unique.options()...)
			}
			if c.Check != "" {
				cd.Check(sql.Raw(c.Check))
			}
			if defaults[i] != nil {
				cd.Default(defaults[i])
			}
			if c.Collate != "" {
				cd.Collate(c.Collate)
			}
			if r := c.References; r != nil {
				cd.References(r.Table, r.options()...)
			}
		}
		if pk := t.PrimaryKey; pk != nil {
			td.PrimaryKey(pk.Columns, pk.options()...)
		}
		for _, u := range t.Unique {
			td.UniqueKey(u.Columns, u.options()...)
		}
		for _, fk := range t.ForeignKeys {
			td.ForeignKey(fk.Columns, fk.References.Table, fk.References.options()...)
		}
		for _, c := range t.Checks {
			td.CheckSQL(c)
		}
	}, nil
}

// Def returns the table definition.
func (t *Table) Def() (*schema.TableDef, error) {
	define, err := t.definer()
	if err != nil {
		return nil, err
	}
	td := schema.NewTable(t.Name, t.options()...)
	define(td)
	return td, nil
}

// scalar decodes a YAML scalar into a value accepted by sql.Literal.
func scalar(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: default must be a scalar", n.Line)
	}
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int64
		err := n.Decode(&i)
		return i, err
	case "!!float":
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!str":
		return n.Value, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported default %s %q", n.Line, n.ShortTag(), n.Value)
	}
}

// Inspector returns the primary keys declared by the document, so that
// references between its tables resolve without a database.
func (d *Document) Inspector() schema.StaticInspector {
	return d.primaryKeys(func(*Table) bool { return true })
}

// Resolver returns the inspector resolving references of the document.
// Tables the document always creates resolve from the document. An
// if_not_exists table may already exist with another key, so db is asked
// first and the document is the fallback. db may be nil.
func (d *Document) Resolver(db schema.Inspector) schema.Inspector {
	return schema.ChainInspector(
		d.primaryKeys(func(t *Table) bool { return !t.IfNotExists }),
		db,
		d.primaryKeys(func(t *Table) bool { return t.IfNotExists }),
	)
}

func (d *Document) primaryKeys(keep func(*Table) bool) schema.StaticInspector {
	insp := make(schema.StaticInspector, len(d.Tables))
	for _, t := range d.Tables {
		if !keep(t) {
			continue
		}
		var pk []string
		if t.PrimaryKey != nil {
			pk = t.PrimaryKey.Columns
		} else {
			for _, c := range t.Columns {
				if c.PrimaryKey != nil {
					pk = append(pk, c.Name)
				}
			}
		}
		insp[t.Name] = pk
	}
	return insp
}

// Definitions returns the table and index definitions of the document.
func (d *Document) Definitions() ([]*schema.TableDef, []*schema.IndexDef, error) {
	tables := make([]*schema.TableDef, 0, len(d.Tables))
	for _, t := range d.Tables {
		td, err := t.Def()
		if err != nil {
			return nil, nil, err
		}
		tables = append(tables, td)
	}
	indexes := make([]*schema.IndexDef, 0, len(d.Indexes))
	for _, i := range d.Indexes {
		indexes = append(indexes, i.Def())
	}
	return tables, indexes, nil
}

// Validate checks the structure of the document.
func (d *Document) Validate() (*schema.ValidationResult, error) {
	tables, indexes, err := d.Definitions()
	if err != nil {
		return nil, err
	}
	return schema.ValidateSchema(tables, indexes), nil
}

// Render returns the statements of the document without executing them.
// References are resolved with d.Resolver(insp); insp may be nil.
func (d *Document) Render(ctx context.Context, insp schema.Inspector) ([]string, error) {
	tables, indexes, err := d.Definitions()
	if err != nil {
		return nil, err
	}
	resolve := d.Resolver(insp)
	stmts := make([]string, 0, len(tables)+len(indexes))
	for _, t := range tables {
		stmt, err := t.SQL(ctx, resolve)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	for _, i := range indexes {
		stmt, err := i.SQL()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// Apply creates the tables and indexes of the document through m, in
// declaration order. It stops at the first failure.
func (d *Document) Apply(ctx context.Context, m *schema.Migrator) error {
	for _, t := range d.Tables {
		define, err := t.definer()
		if err != nil {
			return err
		}
		if err := m.CreateTable(ctx, t.Name, define, t.options()...); err != nil {
			return fmt.Errorf("create table %q: %w", t.Name, err)
		}
	}
	for _, i := range d.Indexes {
		if err := m.CreateIndex(ctx, i.Name, i.Table, i.Columns, i.options()...); err != nil {
			return fmt.Errorf("create index %q: %w", i.Name, err)
		}
	}
	return nil
}
