package places

import (
	"context"
	"fmt"
	"sync"
	"trip-planner-service/internal/domain"
)

// MockPlaceSearcher serves canned suggestions and details and records queries.
type MockPlaceSearcher struct {
	Suggestions map[string][]domain.Suggestion
	Details     map[string]domain.PlaceDetail
	Err         error

	mu      sync.Mutex
	queries []string
}

func (m *MockPlaceSearcher) Autocomplete(ctx context.Context, text string) ([]domain.Suggestion, error) {
	m.mu.Lock()
	m.queries = append(m.queries, text)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Suggestions[text], nil
}

func (m *MockPlaceSearcher) PlaceDetail(ctx context.Context, refID string) (domain.PlaceDetail, error) {
	if m.Err != nil {
		return domain.PlaceDetail{}, m.Err
	}
	d, ok := m.Details[refID]
	if !ok {
		return domain.PlaceDetail{}, fmt.Errorf("missing detail %q", refID)
	}
	return d, nil
}

// Queries returns the autocomplete texts received so far.
func (m *MockPlaceSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
