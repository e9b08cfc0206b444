package domain

import "fmt"

// A routing service's snapped version of an input place.
type WaypointRef struct {
	Location Coordinates
	Name     string
}

// Represents the routed path for an ordered list of places.
// Route is the decoded polyline in map order; Waypoints correspond 1:1
// with the input places as interpreted by the routing service.
// A RouteResult is replaced in full on each fetch and never mutated.
type RouteResult struct {
	Route     []LatLon
	Waypoints []WaypointRef
}

// Empty reports whether the result carries no polyline.
func (r RouteResult) Empty() bool { return len(r.Route) == 0 }

// Routing profile understood by the routing service.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileCycling Profile = "cycling"
	ProfileFoot    Profile = "foot"
)

// ParseProfile maps client vehicle names onto routing profiles.
// An empty value selects driving.
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "", "driving", "car":
		return ProfileDriving, nil
	case "cycling", "bike":
		return ProfileCycling, nil
	case "foot", "walking":
		return ProfileFoot, nil
	}

	return "", fmt.Errorf("parse profile: unknown profile %q", s)
}
