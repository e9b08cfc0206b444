package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// SQLite backed cache mapping Vietmap reference ids to place details.
type SqlitePlaceCache struct {
	DB *sql.DB
}

func NewSqlitePlaceCache(db *sql.DB) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db}
}

// Fetch cached details for the given reference ids.
func (s *SqlitePlaceCache) GetMany(
	ctx context.Context,
	refIDs []string,
) (_ map[string]domain.PlaceDetail, err error) {
	defer obs.Time(ctx, "place.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	uniq := uniqueKeys(refIDs)
	if len(uniq) == 0 {
		return map[string]domain.PlaceDetail{}, nil
	}

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		ph = append(ph, "?")
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        ref_id,
        lat,
        lng,
        name,
        display
    FROM place_cache
    WHERE ref_id IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	return scanPlaceRows(rows, len(uniq))
}

// Store reference id -> detail mappings in the cache.
func (s *SqlitePlaceCache) PutMany(ctx context.Context, details map[string]domain.PlaceDetail) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if len(details) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert place cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO place_cache (
        ref_id,
        lat,
        lng,
        name,
        display
    )
    VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert place cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for refID, d := range details {
		if strings.TrimSpace(refID) == "" {
			return fmt.Errorf("insert place cache: empty ref id key")
		}

		if _, err := stmt.ExecContext(ctx, refID, d.Lat, d.Lng, d.Name, d.Display); err != nil {
			return fmt.Errorf("insert place cache ref_id=%q: %w", refID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}
