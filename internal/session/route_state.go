package session

import (
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

// RouteState holds the last committed route of a session.
//
// Each fetch takes a ticket from Begin; Commit only accepts the newest
// ticket, so a slow response can never overwrite a newer one.
type RouteState struct {
	mu         sync.Mutex
	generation uint64
	result     domain.RouteResult
	index      *services.RouteIndex
}

func (s *RouteState) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Invalidate drops the stored route and supersedes any fetch still in
// flight. It is called whenever the selection changes.
func (s *RouteState) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.result = domain.RouteResult{}
	s.index = nil
}

// Commit stores result if ticket is still current and reports whether it did.
func (s *RouteState) Commit(ticket uint64, result domain.RouteResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.generation {
		return false
	}
	s.result = result
	s.index = nil
	return true
}

func (s *RouteState) Current() domain.RouteResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Index returns a spatial index over the current route, built on first use.
func (s *RouteState) Index() *services.RouteIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		s.index = services.NewRouteIndex(s.result)
	}
	return s.index
}
