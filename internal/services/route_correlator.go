package services

import (
	"context"
	"fmt"
	"log"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// Minimum number of places a route or trip request needs.
const minRoutePlaces = 2

// Messages surfaced to the user through the notifier.
const (
	msgOptimizeTooFew  = "At least 2 places are needed to optimize the route."
	msgOptimizeOK      = "The route has been optimized!"
	msgOptimizeFailed  = "Could not optimize the route. Please try again."
	msgOptimizeErrored = "Error while optimizing the route."
)

// Reorderer replaces the selection order wholesale.
type Reorderer interface {
	Reorder(order []domain.Place) error
}

func placeCoordinates(places []domain.Place) []domain.Coordinates {
	coords := make([]domain.Coordinates, 0, len(places))
	for _, p := range places {
		coords = append(coords, p.Coordinates())
	}
	return coords
}

// FetchRoute returns the routed polyline and waypoints through places in order.
//
// Fewer than two places yield an empty result without a network call.
// Failures are logged and reported only through ok=false; the result is
// then empty. Callers treat a route as best-effort decoration.
func FetchRoute(
	ctx context.Context,
	places []domain.Place,
	profile domain.Profile,
	routes ports.RouteProvider,
) (result domain.RouteResult, ok bool) {
	if len(places) < minRoutePlaces {
		return domain.RouteResult{Route: []domain.LatLon{}, Waypoints: []domain.WaypointRef{}}, true
	}

	res, err := routes.Route(ctx, profile, placeCoordinates(places))
	if err != nil {
		log.Printf("fetch route failed: places=%d profile=%s err=%v", len(places), profile, err)
		return domain.RouteResult{Route: []domain.LatLon{}, Waypoints: []domain.WaypointRef{}}, false
	}

	return res, true
}

type OptimizeOrderRequest struct {
	SessionID string
	Places    []domain.Place
	Profile   domain.Profile
}

// OptimizeOrder asks the routing service for a visiting order with the
// first place pinned as the start, applies it through reorderer and
// returns it.
//
// On any failure the input order is returned unchanged and the user is
// told through notifier.
func OptimizeOrder(
	ctx context.Context,
	req OptimizeOrderRequest,
	routes ports.RouteProvider,
	reorderer Reorderer,
	notifier ports.Notifier,
) []domain.Place {
	places := req.Places

	if len(places) < minRoutePlaces {
		notifier.Notify(ctx, req.SessionID, domain.Notice{Message: msgOptimizeTooFew, Severity: domain.SeverityWarning})
		return places
	}

	trip, err := routes.Trip(ctx, req.Profile, placeCoordinates(places))
	if err != nil {
		log.Printf("optimize order failed: places=%d err=%v", len(places), err)
		notifier.Notify(ctx, req.SessionID, domain.Notice{Message: msgOptimizeErrored, Severity: domain.SeverityDanger})
		return places
	}

	optimized, err := applyTripOrder(places, trip)
	if err != nil {
		log.Printf("optimize order rejected: %v", err)
		notifier.Notify(ctx, req.SessionID, domain.Notice{Message: msgOptimizeFailed, Severity: domain.SeverityDanger})
		return places
	}

	if err := reorderer.Reorder(optimized); err != nil {
		log.Printf("optimize order: apply new order: %v", err)
		notifier.Notify(ctx, req.SessionID, domain.Notice{Message: msgOptimizeFailed, Severity: domain.SeverityDanger})
		return places
	}

	notifier.Notify(ctx, req.SessionID, domain.Notice{Message: msgOptimizeOK, Severity: domain.SeveritySuccess})
	return optimized
}

// applyTripOrder maps the i-th returned waypoint to places[waypoint_index].
func applyTripOrder(places []domain.Place, trip ports.TripResult) ([]domain.Place, error) {
	if trip.Code != "Ok" {
		return nil, fmt.Errorf("trip service returned code %q", trip.Code)
	}
	if len(trip.Waypoints) == 0 {
		return nil, fmt.Errorf("trip service returned no waypoints")
	}

	out := make([]domain.Place, 0, len(trip.Waypoints))
	for i, wp := range trip.Waypoints {
		if wp.WaypointIndex < 0 || wp.WaypointIndex >= len(places) {
			return nil, fmt.Errorf("waypoint %d: index %d out of range [0,%d)", i, wp.WaypointIndex, len(places))
		}
		out = append(out, places[wp.WaypointIndex])
	}

	return out, nil
}
