// Package schema renders and executes SQLite schema statements from
// typed definitions.
//
//	CREATE TABLE       TableDef    Migrator.CreateTable
//	ALTER TABLE        AlterDef    Migrator.AlterTable, Migrator.RenameTable
//	CREATE INDEX       IndexDef    Migrator.CreateIndex
//	DROP TABLE/INDEX               Migrator.DropTable, Migrator.DropIndex
//
// Definitions render deterministically: columns and constraints appear in
// declaration order, identifiers are always quoted and values of CHECK,
// DEFAULT and WHERE expressions are embedded as literals.
//
// Foreign keys that omit their referenced columns reference the primary
// key of the target table, obtained from an Inspector when the statement
// is rendered. A target without a primary key is a liteddl.InvariantError,
// as is a table declaring two primary keys.
package schema
