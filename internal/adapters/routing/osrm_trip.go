package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

type tripResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Waypoints []osrmWaypoint `json:"waypoints"`
}

// Trip asks OSRM for a visiting order with the first coordinate pinned
// as the start and no return leg.
//
// A non-"Ok" code is returned as-is in TripResult; only transport and
// decode failures are errors.
func (o *OSRMRouteProvider) Trip(
	ctx context.Context,
	profile domain.Profile,
	coords []domain.Coordinates,
) (_ ports.TripResult, err error) {
	defer obs.Time(ctx, "osrm.Trip")(&err)

	if len(coords) < 2 {
		return ports.TripResult{}, errors.New("osrm trip: at least 2 coordinates are required")
	}

	endpoint := fmt.Sprintf("%s/trip/v1/%s/%s", o.baseURL, profile, coordinatePath(coords))

	var decoded tripResponse
	err = o.client.GetJSON(ctx, func() (*http.Request, error) {
		req, err := o.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("source", "first")
		q.Set("roundtrip", "false")
		q.Set("overview", "full")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return ports.TripResult{}, fmt.Errorf("osrm trip: %w", err)
	}

	out := ports.TripResult{
		Code:      decoded.Code,
		Waypoints: make([]ports.TripWaypoint, 0, len(decoded.Waypoints)),
	}
	for i, wp := range decoded.Waypoints {
		if wp.WaypointIndex == nil {
			return ports.TripResult{}, fmt.Errorf("osrm trip: waypoint %d has no waypoint_index", i)
		}
		c, err := wp.coordinates()
		if err != nil {
			return ports.TripResult{}, fmt.Errorf("osrm trip: waypoint %d: %w", i, err)
		}
		out.Waypoints = append(out.Waypoints, ports.TripWaypoint{
			WaypointIndex: *wp.WaypointIndex,
			Location:      c,
			Name:          wp.Name,
		})
	}

	return out, nil
}
