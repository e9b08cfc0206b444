package session

import (
	"context"
	"log"
	"sync"
	"time"
	"trip-planner-service/internal/domain"
)

// Session is the planner state of one browser session.
type Session struct {
	ID        string
	Selection *domain.Selection
	Route     *RouteState

	lastSeen time.Time
}

type Registry struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = &Session{
			ID:        id,
			Selection: domain.NewSelection(),
			Route:     &RouteState{},
		}
		r.sessions[id] = s
	}
	s.lastSeen = r.now()
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every ttl/2 until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("session sweep: evicted=%d live=%d", n, r.Len())
			}
		}
	}
}
