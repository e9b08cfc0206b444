package session

import (
	"testing"
	"time"
	"trip-planner-service/internal/domain"
)

func TestRegistryGetReturnsSameSession(t *testing.T) {
	r := NewRegistry(time.Hour)

	a := r.Get("s1")
	a.Selection.Add(domain.Place{Tags: map[string]string{domain.TagName: "Hue"}})

	b := r.Get("s1")
	if a != b {
		t.Fatal("Get created a second session for the same id")
	}
	if b.Selection.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Selection.Len())
	}
	if r.Get("s2") == a {
		t.Fatal("sessions share state")
	}
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour)
	r.now = func() time.Time { return clock }

	r.Get("old")
	clock = clock.Add(50 * time.Minute)
	r.Get("fresh")
	clock = clock.Add(20 * time.Minute)

	if n := r.Sweep(); n != 1 {
		t.Fatalf("evicted = %d, want 1", n)
	}
	if r.Len() != 1 {
		t.Fatalf("live = %d, want 1", r.Len())
	}
	if r.Get("fresh").Selection == nil {
		t.Fatal("fresh session lost")
	}
}

func TestRouteStateRejectsStaleCommit(t *testing.T) {
	var s RouteState
	newer := domain.RouteResult{Route: []domain.LatLon{{1, 1}, {2, 2}}}

	first := s.Begin()
	second := s.Begin()

	if !s.Commit(second, newer) {
		t.Fatal("current ticket rejected")
	}
	if s.Commit(first, domain.RouteResult{Route: []domain.LatLon{{9, 9}}}) {
		t.Fatal("stale ticket accepted")
	}
	if got := s.Current(); len(got.Route) != 2 || got.Route[0] != (domain.LatLon{1, 1}) {
		t.Fatalf("current = %+v", got)
	}
}

func TestRouteStateIndexFollowsCommits(t *testing.T) {
	var s RouteState
	if s.Index().NearestSample(domain.LatLon{0, 0}) != -1 {
		t.Fatal("empty state indexed samples")
	}

	s.Commit(s.Begin(), domain.RouteResult{
		Route:     []domain.LatLon{{0, 0}, {0, 1}},
		Waypoints: []domain.WaypointRef{{Location: domain.Coordinates{Lon: 0, Lat: 0}}, {Location: domain.Coordinates{Lon: 1, Lat: 0}}},
	})

	if got := s.Index().NearestSample(domain.LatLon{0, 0.9}); got != 1 {
		t.Fatalf("nearest = %d, want 1", got)
	}
}

func TestRouteStateInvalidateSupersedesFetchInFlight(t *testing.T) {
	var s RouteState
	s.Commit(s.Begin(), domain.RouteResult{Route: []domain.LatLon{{0, 0}, {0, 1}}})

	inFlight := s.Begin()
	s.Invalidate()

	if s.Commit(inFlight, domain.RouteResult{Route: []domain.LatLon{{5, 5}}}) {
		t.Fatal("fetch started before the selection changed was committed")
	}
	if got := s.Current(); !got.Empty() {
		t.Fatalf("current = %+v, want empty", got)
	}
	if _, _, ok := s.Index().LegAt(domain.LatLon{0, 0}); ok {
		t.Fatal("index still covers the dropped route")
	}
}
