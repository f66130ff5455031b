package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/guironm/crew-center/internal/utils"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending up migration for driver. The connection is
// left open; closing it stays with the caller.
func Migrate(db *sqlx.DB, driver string) error {
	m, src, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	defer src.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		utils.LogEvent("", "db", "migrate", "schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}
	version, _, _ := m.Version()
	utils.LogEvent("", "db", "migrate", fmt.Sprintf("schema migrated to version %d", version))
	return nil
}

// MigrateDown reverts every applied migration.
func MigrateDown(db *sqlx.DB, driver string) error {
	m, src, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down %s: %w", driver, err)
	}
	return nil
}

func newMigrator(db *sqlx.DB, driver string) (*migrate.Migrate, interface{ Close() error }, error) {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case DriverMySQL:
		target, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case DriverPostgres:
		target, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return nil, nil, fmt.Errorf("migrations are not supported for store driver %q", driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("migration driver %s: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("migration init: %w", err)
	}
	return m, src, nil
}
