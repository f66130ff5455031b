package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// RequiredTables must exist once migrations have run.
var RequiredTables = []string{"departments", "employees"}

// HasTable reports whether table exists in the connected schema.
func HasTable(ctx context.Context, db *sqlx.DB, driver, table string) bool {
	var q string
	switch driver {
	case DriverMySQL:
		q = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ? LIMIT 1`
	case DriverPostgres:
		q = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ? LIMIT 1`
	case DriverSQLite:
		q = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? LIMIT 1`
	default:
		return false
	}

	var name sql.NullString
	// no row and a bad connection both report false
	if err := db.QueryRowxContext(ctx, db.Rebind(q), table).Scan(&name); err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// MissingTables lists the RequiredTables that HasTable cannot find.
func MissingTables(ctx context.Context, db *sqlx.DB, driver string) []string {
	missing := []string{}
	for _, t := range RequiredTables {
		if !HasTable(ctx, db, driver, t) {
			missing = append(missing, t)
		}
	}
	return missing
}
