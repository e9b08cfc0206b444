package routing

import (
	"context"
	"errors"
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MockRouteProvider returns canned results and records every call.
type MockRouteProvider struct {
	RouteResult domain.RouteResult
	RouteErr    error
	TripResult  ports.TripResult
	TripErr     error

	mu         sync.Mutex
	RouteCalls [][]domain.Coordinates
	TripCalls  [][]domain.Coordinates
}

func (m *MockRouteProvider) Route(ctx context.Context, profile domain.Profile, coords []domain.Coordinates) (domain.RouteResult, error) {
	m.mu.Lock()
	m.RouteCalls = append(m.RouteCalls, coords)
	m.mu.Unlock()

	if m.RouteErr != nil {
		return domain.RouteResult{}, m.RouteErr
	}
	return m.RouteResult, nil
}

func (m *MockRouteProvider) Trip(ctx context.Context, profile domain.Profile, coords []domain.Coordinates) (ports.TripResult, error) {
	m.mu.Lock()
	m.TripCalls = append(m.TripCalls, coords)
	m.mu.Unlock()

	if m.TripErr != nil {
		return ports.TripResult{}, m.TripErr
	}
	return m.TripResult, nil
}

func (m *MockRouteProvider) Calls() (route, trip int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.RouteCalls), len(m.TripCalls)
}

var ErrMockUnavailable = errors.New("mock routing service unavailable")
