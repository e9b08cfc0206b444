package dto

import (
	"trip-planner-service/internal/domain"

	"github.com/paulmach/orb/geojson"
)

type RouteRequest struct {
	Profile string `json:"profile"`
}

type WaypointResponse struct {
	Location [2]float64 `json:"location"`
	Name     string     `json:"name"`
}

// RouteResponse carries route samples as [lat, lon] pairs. Feature holds
// the same line as GeoJSON ([lon, lat]) for map layers.
type RouteResponse struct {
	OK         bool               `json:"ok"`
	Superseded bool               `json:"superseded,omitempty"`
	Route      []domain.LatLon    `json:"route"`
	Waypoints  []WaypointResponse `json:"waypoints"`
	Feature    *geojson.Feature   `json:"feature,omitempty"`
	Notices    []NoticeResponse   `json:"notices"`
}

type SegmentResponse struct {
	Index   int             `json:"index"`
	Segment []domain.LatLon `json:"segment"`
}

type OptimizeRequest struct {
	Profile string `json:"profile"`
}
