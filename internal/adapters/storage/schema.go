package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"trip-planner-service/internal/platform/db"
)

// InitSchema creates the cache and local storage tables for the given dialect.
func InitSchema(conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	realType := "REAL"
	if dialect == db.Postgres {
		realType = "DOUBLE PRECISION"
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlaceCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS place_cache (
        ref_id TEXT PRIMARY KEY,
        lat %[1]s NOT NULL,
        lng %[1]s NOT NULL,
        name TEXT NOT NULL DEFAULT '',
        display TEXT NOT NULL DEFAULT ''
    );
	`, realType)

	createLocalStorageQuery := `
	CREATE TABLE IF NOT EXISTS local_storage (
        session_id TEXT NOT NULL,
        item_key TEXT NOT NULL,
        item_value TEXT NOT NULL,
        PRIMARY KEY (session_id, item_key)
    );
	`

	statements := []string{
		createPlaceCacheQuery,
		createLocalStorageQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
