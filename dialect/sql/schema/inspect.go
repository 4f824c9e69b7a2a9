package schema

import (
	"context"
	"fmt"
	"strings"

	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/liteddl/dialect"
	"github.com/syssam/liteddl/dialect/sql"
)

// Inspector reports the primary key of existing tables. It is consulted
// when a foreign key omits its referenced columns.
type Inspector interface {
	// PrimaryKey returns the ordered primary key columns of the table,
	// or nil if the table has no declared primary key or does not exist.
	PrimaryKey(ctx context.Context, table string) ([]string, error)
}

// The InspectorFunc type is an adapter to allow the use of ordinary
// functions as Inspector.
type InspectorFunc func(context.Context, string) ([]string, error)

// PrimaryKey calls f(ctx, table).
func (f InspectorFunc) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	return f(ctx, table)
}

const pragmaPrimaryKeyQuery = "SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk"

// PragmaInspector reads primary keys with the table_info pragma.
type PragmaInspector struct {
	q dialect.ExecQuerier
}

// NewPragmaInspector returns an inspector querying through q.
func NewPragmaInspector(q dialect.ExecQuerier) *PragmaInspector {
	return &PragmaInspector{q: q}
}

// PrimaryKey implements Inspector.
func (i *PragmaInspector) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	rows := &sql.Rows{}
	if err := i.q.Query(ctx, pragmaPrimaryKeyQuery, []any{table}, rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return columns, nil
}

// AtlasInspector reads primary keys with the SQLite inspector of Atlas.
// Each call inspects only the requested table.
type AtlasInspector struct {
	db     sql.ExecQuerier
	schema string
}

// NewAtlasInspector returns an inspector of the "main" database of db.
func NewAtlasInspector(db sql.ExecQuerier) *AtlasInspector {
	return &AtlasInspector{db: db, schema: "main"}
}

// PrimaryKey implements Inspector.
func (i *AtlasInspector) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	drv, err := sqlite.Open(i.db)
	if err != nil {
		return nil, fmt.Errorf("open atlas driver: %w", err)
	}
	s, err := drv.InspectSchema(ctx, i.schema, &atlas.InspectOptions{
		Tables: []string{table},
	})
	if err != nil {
		return nil, err
	}
	t, ok := s.Table(table)
	if !ok || t.PrimaryKey == nil {
		return nil, nil
	}
	columns := make([]string, 0, len(t.PrimaryKey.Parts))
	for _, p := range t.PrimaryKey.Parts {
		if p.C != nil {
			columns = append(columns, p.C.Name)
		}
	}
	return columns, nil
}

// StaticInspector is an Inspector backed by a fixed table name to primary
// key map. Table names match case-insensitively, as in SQLite.
type StaticInspector map[string][]string

// PrimaryKey implements Inspector.
func (s StaticInspector) PrimaryKey(_ context.Context, table string) ([]string, error) {
	if cols, ok := s[table]; ok {
		return cols, nil
	}
	for name, cols := range s {
		if strings.EqualFold(name, table) {
			return cols, nil
		}
	}
	return nil, nil
}

// ChainInspector returns an Inspector that consults the given inspectors
// in order and returns the first non-empty primary key.
func ChainInspector(insps ...Inspector) Inspector {
	return InspectorFunc(func(ctx context.Context, table string) ([]string, error) {
		for _, insp := range insps {
			if insp == nil {
				continue
			}
			cols, err := insp.PrimaryKey(ctx, table)
			if err != nil {
				return nil, err
			}
			if len(cols) > 0 {
				return cols, nil
			}
		}
		return nil, nil
	})
}

var (
	_ Inspector = (*PragmaInspector)(nil)
	_ Inspector = (*AtlasInspector)(nil)
	_ Inspector = StaticInspector(nil)
)
