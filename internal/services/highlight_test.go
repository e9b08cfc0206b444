package services

import (
	"testing"
	"trip-planner-service/internal/domain"
)

// wpAt builds a waypoint sitting exactly on a (lat, lon) sample.
func wpAt(lat, lon float64) domain.WaypointRef {
	return domain.WaypointRef{Location: domain.Coordinates{Lon: lon, Lat: lat}}
}

var straightRoute = []domain.LatLon{{0, 0}, {0, 1}, {0, 2}, {0, 3}}

func equalSamples(a, b []domain.LatLon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHighlightSegmentInclusiveAscending(t *testing.T) {
	res := domain.RouteResult{
		Route:     straightRoute,
		Waypoints: []domain.WaypointRef{wpAt(0, 1), wpAt(0, 3)},
	}

	got, ok := HighlightSegment(0, res)
	if !ok {
		t.Fatal("expected a segment")
	}
	want := []domain.LatLon{{0, 1}, {0, 2}, {0, 3}}
	if !equalSamples(got, want) {
		t.Fatalf("segment = %v, want %v", got, want)
	}
}

func TestHighlightSegmentAscendingWhenWaypointsGoBackwards(t *testing.T) {
	res := domain.RouteResult{
		Route:     straightRoute,
		Waypoints: []domain.WaypointRef{wpAt(0, 3), wpAt(0, 1)},
	}

	got, ok := HighlightSegment(0, res)
	if !ok {
		t.Fatal("expected a segment")
	}
	want := []domain.LatLon{{0, 1}, {0, 2}, {0, 3}}
	if !equalSamples(got, want) {
		t.Fatalf("segment = %v, want %v", got, want)
	}
}

func TestHighlightSegmentLastWaypointHasNone(t *testing.T) {
	res := domain.RouteResult{
		Route:     straightRoute,
		Waypoints: []domain.WaypointRef{wpAt(0, 0), wpAt(0, 2), wpAt(0, 3)},
	}

	for _, idx := range []int{2, 3, -1} {
		if seg, ok := HighlightSegment(idx, res); ok {
			t.Fatalf("index %d: got %v, want none", idx, seg)
		}
	}

	if _, ok := HighlightSegment(0, domain.RouteResult{}); ok {
		t.Fatal("empty result produced a segment")
	}
}

func TestHighlightSegmentDoesNotAliasRoute(t *testing.T) {
	route := append([]domain.LatLon(nil), straightRoute...)
	res := domain.RouteResult{Route: route, Waypoints: []domain.WaypointRef{wpAt(0, 0), wpAt(0, 1)}}

	seg, _ := HighlightSegment(0, res)
	seg[0] = domain.LatLon{9, 9}

	if route[0] != (domain.LatLon{0, 0}) {
		t.Fatal("segment aliases the route")
	}
}

func TestNearestSampleIndexFirstMinimumWins(t *testing.T) {
	route := []domain.LatLon{{0, 0}, {0, 2}, {0, 0}}

	// Equidistant from samples 0 and 1; sample 2 repeats sample 0.
	if got := nearestSampleIndex(route, domain.Coordinates{Lon: 1, Lat: 0}); got != 0 {
		t.Fatalf("index = %d, want 0", got)
	}
	if got := nearestSampleIndex(nil, domain.Coordinates{}); got != -1 {
		t.Fatalf("empty route index = %d, want -1", got)
	}
}

func TestNearestSampleIndexComparesLatWithLat(t *testing.T) {
	route := []domain.LatLon{{10.0, 106.0}, {10.5, 106.5}}

	// A (lon, lat) waypoint at lat 10.5 / lon 106.5 must match sample 1.
	if got := nearestSampleIndex(route, domain.Coordinates{Lon: 106.5, Lat: 10.5}); got != 1 {
		t.Fatalf("index = %d, want 1", got)
	}
}

func TestRouteIndexLegAt(t *testing.T) {
	res := domain.RouteResult{
		Route:     []domain.LatLon{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
		Waypoints: []domain.WaypointRef{wpAt(0, 0), wpAt(0, 2), wpAt(0, 4)},
	}
	idx := NewRouteIndex(res)

	leg, seg, ok := idx.LegAt(domain.LatLon{0.01, 3.1})
	if !ok {
		t.Fatal("expected a leg")
	}
	if leg != 1 {
		t.Fatalf("leg = %d, want 1", leg)
	}
	if !equalSamples(seg, []domain.LatLon{{0, 2}, {0, 3}, {0, 4}}) {
		t.Fatalf("segment = %v", seg)
	}

	// The shared anchor sample belongs to the earlier leg.
	if leg, _, _ := idx.LegAt(domain.LatLon{0, 2}); leg != 0 {
		t.Fatalf("anchor leg = %d, want 0", leg)
	}
}

func TestRouteIndexEmptyRoute(t *testing.T) {
	idx := NewRouteIndex(domain.RouteResult{})

	if got := idx.NearestSample(domain.LatLon{0, 0}); got != -1 {
		t.Fatalf("nearest = %d, want -1", got)
	}
	if _, _, ok := idx.LegAt(domain.LatLon{0, 0}); ok {
		t.Fatal("empty index produced a leg")
	}
}
