// Package sqlite opens SQLite databases with the driver selected at build
// time, pure Go (modernc.org/sqlite) by default or CGO
// (mattn/go-sqlite3) with the cgo_sqlite build tag.
package sqlite

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/syssam/liteddl/dialect/sql"
)

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// Info describes the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		Package:    driverPackage,
	}
}

// LogValue implements slog.LogValuer.
func (i Info) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", i.DriverName),
		slog.String("type", i.DriverType),
	)
}

// DSN returns the data source name of the database file at path with
// foreign key enforcement turned on. Existing query parameters are kept.
func DSN(path string) string {
	if strings.Contains(path, foreignKeysParam) {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + foreignKeysParam
}

// Open opens the database at path and returns a driver for the schema
// migrator.
func Open(path string) (*sql.Driver, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}
	drv, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return drv, nil
}
