package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Visiting position assigned by a trip optimization to one input place.
type TripWaypoint struct {
	WaypointIndex int
	Location      domain.Coordinates
	Name          string
}

// Outcome of a trip optimization request. Code is the service status ("Ok" on success).
type TripResult struct {
	Code      string
	Waypoints []TripWaypoint
}

// Contract for a routing engine serving routes and trip optimizations.
type RouteProvider interface {
	// Return the routed polyline and snapped waypoints through coords in order.
	Route(ctx context.Context, profile domain.Profile, coords []domain.Coordinates) (domain.RouteResult, error)
	// Return the visiting order for coords with the first location pinned as start.
	Trip(ctx context.Context, profile domain.Profile, coords []domain.Coordinates) (TripResult, error)
}
