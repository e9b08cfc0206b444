package services

import (
	"math"
	"trip-planner-service/internal/domain"

	"github.com/dhconnelly/rtreego"
)

// Half-width of the envelope around each indexed sample, in degrees.
const sampleTolerance = 1e-9

// Candidates pulled from the tree before the exact distance check.
const nearestCandidates = 8

type indexedSample struct {
	index    int
	point    domain.LatLon
	envelope rtreego.Rect
}

func (s *indexedSample) Bounds() rtreego.Rect {
	return s.envelope
}

// RouteIndex answers "which leg of the route is this point on" for map
// hover over the polyline. It is built once per RouteResult and is
// read-only afterwards.
type RouteIndex struct {
	result  domain.RouteResult
	tree    *rtreego.Rtree
	anchors []int // route sample index nearest to each waypoint
}

func NewRouteIndex(result domain.RouteResult) *RouteIndex {
	idx := &RouteIndex{
		result: result,
		tree:   rtreego.NewTree(2, 25, 50),
	}

	for i, s := range result.Route {
		rect, err := rtreego.NewRect(
			rtreego.Point{s.Lat() - sampleTolerance, s.Lon() - sampleTolerance},
			[]float64{2 * sampleTolerance, 2 * sampleTolerance},
		)
		if err != nil {
			continue
		}
		idx.tree.Insert(&indexedSample{index: i, point: s, envelope: rect})
	}

	idx.anchors = make([]int, 0, len(result.Waypoints))
	for _, wp := range result.Waypoints {
		idx.anchors = append(idx.anchors, nearestSampleIndex(result.Route, wp.Location))
	}

	return idx
}

// NearestSample returns the route sample index closest to p, or -1 for an
// empty route. Among equally close candidates the lowest index wins.
func (r *RouteIndex) NearestSample(p domain.LatLon) int {
	if r.tree.Size() == 0 {
		return -1
	}

	best := -1
	minDistance := math.Inf(1)
	for _, item := range r.tree.NearestNeighbors(nearestCandidates, rtreego.Point{p.Lat(), p.Lon()}) {
		s, ok := item.(*indexedSample)
		if !ok {
			continue
		}
		d := math.Hypot(s.point.Lat()-p.Lat(), s.point.Lon()-p.Lon())
		if d < minDistance || (d == minDistance && s.index < best) {
			minDistance = d
			best = s.index
		}
	}

	return best
}

// LegAt returns the waypoint leg whose sample range contains the route
// sample nearest to p, together with that leg's segment.
func (r *RouteIndex) LegAt(p domain.LatLon) (leg int, segment []domain.LatLon, ok bool) {
	sample := r.NearestSample(p)
	if sample < 0 {
		return 0, nil, false
	}

	for i := 0; i+1 < len(r.anchors); i++ {
		lo, hi := min(r.anchors[i], r.anchors[i+1]), max(r.anchors[i], r.anchors[i+1])
		if lo < 0 || sample < lo || sample > hi {
			continue
		}

		segment = make([]domain.LatLon, hi-lo+1)
		copy(segment, r.result.Route[lo:hi+1])
		return i, segment, true
	}

	return 0, nil, false
}
