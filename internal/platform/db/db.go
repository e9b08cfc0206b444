package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Dialect selects placeholder style and DDL for a database/sql driver.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

// Open connects to Postgres through the pgx stdlib driver.
// The caller must import _ "github.com/jackc/pgx/v5/stdlib".
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open(string(Postgres), databaseURL)
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

// OpenSQLite opens a local SQLite file through modernc.org/sqlite.
// The caller must import _ "modernc.org/sqlite".
func OpenSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(string(SQLite), dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
