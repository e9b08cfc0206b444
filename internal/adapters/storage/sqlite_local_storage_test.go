package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every new :memory: connection is a fresh database.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func TestSqliteLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSqliteLocalStorage(openTestDB(t))

	if _, err := s.GetItem(ctx, "sess-1", "authToken"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("err = %v, want ErrKeyNotFound", err)
	}

	if err := s.SetItem(ctx, "sess-1", "authToken", "t1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetItem(ctx, "sess-1", "authToken", "t2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := s.GetItem(ctx, "sess-1", "authToken")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "t2" {
		t.Fatalf("value = %q, want t2", got)
	}

	// Sessions do not see each other's items.
	if _, err := s.GetItem(ctx, "sess-2", "authToken"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("cross-session err = %v, want ErrKeyNotFound", err)
	}

	if err := s.RemoveItem(ctx, "sess-1", "authToken"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.GetItem(ctx, "sess-1", "authToken"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("after remove err = %v, want ErrKeyNotFound", err)
	}
}

type recordingPlaceCache struct {
	got map[string]domain.PlaceDetail
}

func (r *recordingPlaceCache) GetMany(ctx context.Context, ids []string) (map[string]domain.PlaceDetail, error) {
	return nil, nil
}

func (r *recordingPlaceCache) PutMany(ctx context.Context, d map[string]domain.PlaceDetail) error {
	r.got = d
	return nil
}

func TestSeedPlacesFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.json")
	body := `[
		{"ref_id": "r1", "lat": 10.77, "lng": 106.70, "name": " Chợ Bến Thành ", "display": "Ben Thanh Market"},
		{"ref_id": "r2", "lat": 10.79, "lng": 106.71, "name": "Thảo Cầm Viên"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	cache := &recordingPlaceCache{}
	n, err := SeedPlacesFromJSON(context.Background(), cache, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d, want 2", n)
	}
	if cache.got["r1"].Name != "Chợ Bến Thành" {
		t.Fatalf("name not trimmed: %q", cache.got["r1"].Name)
	}
}

func TestSeedPlacesFromJSONRejectsMissingCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte(`[{"ref_id": "r1"}]`), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if _, err := SeedPlacesFromJSON(context.Background(), &recordingPlaceCache{}, path); err == nil {
		t.Fatal("expected error")
	}
}
