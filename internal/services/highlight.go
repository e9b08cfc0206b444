package services

import (
	"math"
	"trip-planner-service/internal/domain"
)

// nearestSampleIndex returns the index of the route sample closest to c by
// planar distance, or -1 for an empty route.
//
// The scan is linear and the first index reaching the minimum wins.
// Both sequences share one local projection, so no geodesic correction
// is applied.
func nearestSampleIndex(route []domain.LatLon, c domain.Coordinates) int {
	best := -1
	minDistance := math.Inf(1)

	for i, s := range route {
		d := math.Hypot(s.Lat()-c.Lat, s.Lon()-c.Lon)
		if d < minDistance {
			minDistance = d
			best = i
		}
	}

	return best
}

// HighlightSegment returns the slice of the route between waypoint index
// and its successor, inclusive and in ascending sample order.
//
// The last waypoint has no successor, so it (and any out-of-range index)
// yields ok=false.
func HighlightSegment(index int, result domain.RouteResult) (_ []domain.LatLon, ok bool) {
	if index < 0 || index >= len(result.Waypoints)-1 {
		return nil, false
	}

	start := nearestSampleIndex(result.Route, result.Waypoints[index].Location)
	end := nearestSampleIndex(result.Route, result.Waypoints[index+1].Location)
	if start < 0 || end < 0 {
		return nil, false
	}

	lo, hi := min(start, end), max(start, end)

	segment := make([]domain.LatLon, hi-lo+1)
	copy(segment, result.Route[lo:hi+1])
	return segment, true
}
