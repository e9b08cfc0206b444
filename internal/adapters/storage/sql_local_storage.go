package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// SQLLocalStorage is a Postgres-backed implementation of the LocalStorage port.
type SQLLocalStorage struct {
	DB *sql.DB
}

func NewSQLLocalStorage(db *sql.DB) *SQLLocalStorage {
	return &SQLLocalStorage{DB: db}
}

func (s *SQLLocalStorage) GetItem(ctx context.Context, sessionID, key string) (_ string, err error) {
	defer obs.Time(ctx, "local_storage.GetItem")(&err)

	if s.DB == nil {
		return "", errors.New("local storage: db is nil")
	}

	var value string
	err = s.DB.QueryRowContext(ctx, `
	SELECT item_value
    FROM local_storage
    WHERE session_id = $1 AND item_key = $2;
	`, sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get item %q: %w", key, err)
	}

	return value, nil
}

func (s *SQLLocalStorage) SetItem(ctx context.Context, sessionID, key, value string) error {
	if s.DB == nil {
		return errors.New("local storage: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO local_storage (session_id, item_key, item_value)
    VALUES ($1, $2, $3)
	ON CONFLICT (session_id, item_key) DO UPDATE
	SET item_value = EXCLUDED.item_value;
	`, sessionID, key, value)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}

	return nil
}

func (s *SQLLocalStorage) RemoveItem(ctx context.Context, sessionID, key string) error {
	if s.DB == nil {
		return errors.New("local storage: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `
	DELETE FROM local_storage
    WHERE session_id = $1 AND item_key = $2;
	`, sessionID, key); err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}

	return nil
}
