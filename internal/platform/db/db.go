// Package db opens the catalog databases used by the service: SQLite for
// self-contained local runs, Postgres when DATABASE_URL points at a shared
// instance.
package db

import (
	"database/sql"
	"fmt"
	"time"
)

// OpenSQLite opens the embedded catalog database. Callers must blank-import
// modernc.org/sqlite to register the driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", path, err)
	}

	return db, nil
}

// OpenPostgres opens a Postgres pool via the pgx stdlib driver. Callers must
// blank-import github.com/jackc/pgx/v5/stdlib to register the driver.
func OpenPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
