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

// SQLPlaceCache is a Postgres-backed cache mapping reference ids to place details.
type SQLPlaceCache struct {
	DB *sql.DB
}

func NewSQLPlaceCache(db *sql.DB) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db}
}

// Fetch cached details for the given reference ids.
func (s *SQLPlaceCache) GetMany(
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

	q := `
	SELECT ref_id, lat, lng, name, display
    FROM place_cache
    WHERE ref_id = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	return scanPlaceRows(rows, len(uniq))
}

// Store reference id -> detail mappings in the cache.
func (s *SQLPlaceCache) PutMany(ctx context.Context, details map[string]domain.PlaceDetail) error {
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
	INSERT INTO place_cache (ref_id, lat, lng, name, display)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (ref_id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		name = EXCLUDED.name,
		display = EXCLUDED.display;
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

func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

func scanPlaceRows(rows *sql.Rows, sizeHint int) (map[string]domain.PlaceDetail, error) {
	out := make(map[string]domain.PlaceDetail, sizeHint)
	for rows.Next() {
		var d domain.PlaceDetail
		if err := rows.Scan(&d.RefID, &d.Lat, &d.Lng, &d.Name, &d.Display); err != nil {
			return nil, fmt.Errorf("get place cache: scan rows: %w", err)
		}
		out[d.RefID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get place cache: row iteration: %w", err)
	}

	return out, nil
}
