package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Persistent cache of resolved place details keyed by reference id.
type PlaceCache interface {
	GetMany(ctx context.Context, refIDs []string) (map[string]domain.PlaceDetail, error)
	PutMany(ctx context.Context, details map[string]domain.PlaceDetail) error
}

// Short-lived cache of autocomplete responses keyed by query text.
// A miss is reported as ok=false with a nil error.
type SuggestionCache interface {
	Get(ctx context.Context, text string) (_ []domain.Suggestion, ok bool, err error)
	Put(ctx context.Context, text string, suggestions []domain.Suggestion) error
}
