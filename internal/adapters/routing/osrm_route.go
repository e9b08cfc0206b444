package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry geojson.Geometry `json:"geometry"`
		Distance float64          `json:"distance"`
		Duration float64          `json:"duration"`
	} `json:"routes"`
	Waypoints []osrmWaypoint `json:"waypoints"`
}

// Route fetches the full-overview GeoJSON route through coords.
// The [lon, lat] geometry is converted to map-order samples.
func (o *OSRMRouteProvider) Route(
	ctx context.Context,
	profile domain.Profile,
	coords []domain.Coordinates,
) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if len(coords) < 2 {
		return domain.RouteResult{}, errors.New("osrm route: at least 2 coordinates are required")
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, profile, coordinatePath(coords))

	var decoded routeResponse
	err = o.client.GetJSON(ctx, func() (*http.Request, error) {
		req, err := o.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("osrm route: %w", err)
	}

	if decoded.Code != "" && decoded.Code != "Ok" {
		return domain.RouteResult{}, fmt.Errorf("osrm route: service returned code %q", decoded.Code)
	}
	if len(decoded.Routes) == 0 {
		return domain.RouteResult{}, errors.New("osrm route: no routes returned")
	}

	g := decoded.Routes[0].Geometry.Geometry()
	line, ok := g.(orb.LineString)
	if !ok {
		return domain.RouteResult{}, fmt.Errorf("osrm route: unexpected geometry type %T", g)
	}

	route := make([]domain.LatLon, 0, len(line))
	for _, pt := range line {
		route = append(route, domain.LatLon{pt.Lat(), pt.Lon()})
	}

	waypoints := make([]domain.WaypointRef, 0, len(decoded.Waypoints))
	for i, wp := range decoded.Waypoints {
		c, err := wp.coordinates()
		if err != nil {
			return domain.RouteResult{}, fmt.Errorf("osrm route: waypoint %d: %w", i, err)
		}
		waypoints = append(waypoints, domain.WaypointRef{Location: c, Name: wp.Name})
	}

	return domain.RouteResult{Route: route, Waypoints: waypoints}, nil
}
