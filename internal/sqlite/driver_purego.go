//go:build !cgo_sqlite

package sqlite

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"
	// foreignKeysParam enables foreign key enforcement on every connection.
	foreignKeysParam = "_pragma=foreign_keys(1)"
)
