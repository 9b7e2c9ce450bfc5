package store

import (
	"database/sql"
)

// DriverName returns the database/sql driver name in use: "sqlite" for
// modernc.org/sqlite, "sqlite3" for mattn/go-sqlite3.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// openDB opens a SQLite database with the driver selected at build time.
func openDB(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: DriverName(),
		DriverType: DriverType(),
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
