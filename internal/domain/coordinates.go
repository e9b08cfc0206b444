package domain

import "strconv"

// Immutable geographic coordinates (longitude, latitude).
// Routing services speak [lon, lat]; map clients speak [lat, lon].
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Return coordinates as a "lon,lat" path segment.
func (c Coordinates) PathSegment() string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// LatLon is a single polyline sample in map order.
type LatLon [2]float64

func (p LatLon) Lat() float64 { return p[0] }
func (p LatLon) Lon() float64 { return p[1] }
