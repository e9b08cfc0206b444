package routing

import (
	"errors"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/httpx"
)

// OSRMRouteProvider implements RouteProvider against an OSRM HTTP server
// (/route/v1 and /trip/v1).
//
// The provider is safe for concurrent use.
type OSRMRouteProvider struct {
	client  *httpx.Client
	baseURL string
}

func NewOSRMRouteProvider(client *httpx.Client, baseURL string) (*OSRMRouteProvider, error) {
	if client == nil {
		return nil, errors.New("OSRM http client is nil")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}

	return &OSRMRouteProvider{client: client, baseURL: baseURL}, nil
}

// coordinatePath renders "lon,lat;lon,lat;..." in input order.
func coordinatePath(coords []domain.Coordinates) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, c.PathSegment())
	}
	return strings.Join(parts, ";")
}

type osrmWaypoint struct {
	Location      []float64 `json:"location"`
	Name          string    `json:"name"`
	WaypointIndex *int      `json:"waypoint_index,omitempty"`
}

func (w osrmWaypoint) coordinates() (domain.Coordinates, error) {
	if len(w.Location) != 2 {
		return domain.Coordinates{}, errors.New("invalid waypoint location format")
	}
	return domain.Coordinates{Lon: w.Location[0], Lat: w.Location[1]}, nil
}
