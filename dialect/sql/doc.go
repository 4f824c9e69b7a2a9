// Package sql provides the database/sql backed driver and the rendering
// primitives shared by the schema builders.
//
// # Driver
//
// Driver wraps a *sql.DB (or *sql.Tx through Tx) and implements
// dialect.Driver:
//
//	drv, err := sql.Open("sqlite", "file:app.db?_pragma=foreign_keys(1)")
//
// StatsDriver and DebugDriver decorate a Driver with execution statistics
// and statement logging through log/slog.
//
// # Identifiers and literals
//
//	sql.Quote(`my"table`)        // "my""table"
//	sql.QuoteList([]string{"a"}) // "a"
//	sql.Literal("it's")          // 'it''s'
//	sql.Literal(true)            // 1
//	sql.Literal([]byte{0xca})    // X'ca'
//
// # Expressions
//
// Expression values carry CHECK conditions, DEFAULT values and partial
// index predicates. They always render with their values inlined:
//
//	sql.Raw("length(name) > 0")
//	sql.Expr("score > ?", 0) // score > 0
//	sql.Lit("guest")         // 'guest'
package sql
