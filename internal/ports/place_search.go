package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for a geocoding/autocomplete service.
type PlaceSearcher interface {
	// Return suggestions for free text input.
	Autocomplete(ctx context.Context, text string) ([]domain.Suggestion, error)
	// Resolve a suggestion reference id into coordinates.
	PlaceDetail(ctx context.Context, refID string) (domain.PlaceDetail, error)
}
