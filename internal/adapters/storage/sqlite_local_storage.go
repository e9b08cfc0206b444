package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// SQLite-backed implementation of the LocalStorage port.
type SqliteLocalStorage struct{ DB *sql.DB }

func NewSqliteLocalStorage(db *sql.DB) *SqliteLocalStorage {
	return &SqliteLocalStorage{DB: db}
}

func (s *SqliteLocalStorage) GetItem(ctx context.Context, sessionID, key string) (_ string, err error) {
	defer obs.Time(ctx, "local_storage.GetItem")(&err)

	if s.DB == nil {
		return "", errors.New("sqlite local storage: DB is nil")
	}

	var value string
	err = s.DB.QueryRowContext(ctx, `
	SELECT item_value
    FROM local_storage
    WHERE session_id = ? AND item_key = ?;
	`, sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get item %q: %w", key, err)
	}

	return value, nil
}

func (s *SqliteLocalStorage) SetItem(ctx context.Context, sessionID, key, value string) error {
	if s.DB == nil {
		return errors.New("sqlite local storage: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO local_storage (
		session_id,
		item_key,
		item_value
	)
	VALUES (?, ?, ?);
	`, sessionID, key, value)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}

	return nil
}

func (s *SqliteLocalStorage) RemoveItem(ctx context.Context, sessionID, key string) error {
	if s.DB == nil {
		return errors.New("sqlite local storage: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `
	DELETE FROM local_storage
	WHERE session_id = ? AND item_key = ?;
	`, sessionID, key); err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}

	return nil
}
