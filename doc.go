// Package liteddl renders SQLite schema statements.
//
// Tables, alterations and indexes are described with the builders of
// package dialect/sql/schema and rendered to CREATE TABLE, ALTER TABLE and
// CREATE INDEX statements. A schema.Migrator executes the rendered
// statements on a dialect.Driver or a transaction.
//
// Misuse of the builders, such as declaring two table primary keys or
// referencing a table without a primary key, is reported at render time
// as an *InvariantError:
//
//	stmt, err := t.SQL(ctx, insp)
//	if liteddl.IsInvariantViolation(err) {
//		// fix the definition
//	}
package liteddl
