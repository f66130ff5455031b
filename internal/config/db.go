package config

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	intdb "github.com/guironm/crew-center/internal/db"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	DB   *sqlx.DB
	dbMu sync.Mutex
)

// sqlDriverName maps a store driver onto the registered database/sql driver.
func sqlDriverName(store string) (string, error) {
	switch store {
	case intdb.DriverMySQL:
		return "mysql", nil
	case intdb.DriverPostgres:
		return "pgx", nil
	case intdb.DriverSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("store driver %q has no SQL backend", store)
}

// dataSourceName returns the DSN handed to the driver. MySQL always gets
// parseTime with UTC so DATETIME columns scan into time.Time, plus the
// connection timeouts when the DSN sets none.
func dataSourceName(env Env) (string, error) {
	if env.StoreDriver != intdb.DriverMySQL {
		return env.DatabaseDSN, nil
	}
	cfg, err := mysql.ParseDSN(env.DatabaseDSN)
	if err != nil {
		return "", fmt.Errorf("parse mysql DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	return cfg.FormatDSN(), nil
}

// ConnectDB initializes the shared DB connection (idempotent).
func ConnectDB(env Env) (*sqlx.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB, nil
	}
	if env.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required for store driver %q", env.StoreDriver)
	}

	name, err := sqlDriverName(env.StoreDriver)
	if err != nil {
		return nil, err
	}

	dsn, err := dataSourceName(env)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", env.StoreDriver, err)
	}

	if env.StoreDriver == intdb.DriverSQLite {
		// one writer; also keeps a :memory: database alive across calls
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(10 * time.Minute)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", env.StoreDriver, err)
	}

	if env.StoreDriver == intdb.DriverSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	DB = db
	log.Printf("connected to %s store", env.StoreDriver)
	return DB, nil
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
