// Package dialect defines the execution collaborator used by the schema
// builders.
//
// Statements rendered by dialect/sql/schema are handed to an ExecQuerier.
// Both Driver and Tx implement it, so a batch of schema changes can run
// either directly against a connection or inside a transaction:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db?_pragma=foreign_keys(1)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	tx, err := drv.Tx(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := schema.NewMigrator(tx)
//
// # Sub-packages
//
//   - dialect/sql: database/sql backed Driver, identifier quoting, literal
//     conversion and the Expression node used inside DDL
//   - dialect/sql/schema: table, column, alteration and index definitions,
//     their renderers, introspection and the Migrator entry points
package dialect
