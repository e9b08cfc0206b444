package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type PlaceSeed struct {
	RefID   string  `json:"ref_id"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	Display string  `json:"display"`
}

// SeedPlacesFromJSON preloads the place-detail cache from a JSON file,
// so known places resolve without a Vietmap call.
func SeedPlacesFromJSON(ctx context.Context, cache ports.PlaceCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed places: parse json: %w", err)
	}

	details := make(map[string]domain.PlaceDetail, len(data))
	for i, item := range data {
		refID := strings.TrimSpace(item.RefID)
		if refID == "" {
			return 0, fmt.Errorf("seed places: item at index %d: ref_id cannot be empty", i+1)
		}
		if item.Lat == 0 || item.Lng == 0 {
			return 0, fmt.Errorf("seed places: item %q: coordinates are required", refID)
		}

		details[refID] = domain.PlaceDetail{
			RefID:   refID,
			Lat:     item.Lat,
			Lng:     item.Lng,
			Name:    strings.TrimSpace(item.Name),
			Display: strings.TrimSpace(item.Display),
		}
	}

	if err := cache.PutMany(ctx, details); err != nil {
		return 0, fmt.Errorf("seed places: %w", err)
	}

	return len(details), nil
}
