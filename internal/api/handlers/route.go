package handlers

import (
	"net/http"
	"strconv"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
	"trip-planner-service/internal/session"

	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RouteHandler fetches, optimizes and inspects the session's route.
type RouteHandler struct {
	Sessions *session.Registry
	Routes   ports.RouteProvider
	Notifier ports.Notifier
}

// Fetch routes through the current selection and stores the result.
// Upstream failures are not errors here: the stored route becomes empty
// and the response says ok=false.
func (h *RouteHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	profile, err := domain.ParseProfile(req.Profile)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.Sessions.Get(obs.SessionID(r.Context()))
	ticket := sess.Route.Begin()

	res, ok := services.FetchRoute(r.Context(), sess.Selection.Places(), profile, h.Routes)
	committed := sess.Route.Commit(ticket, res)

	out := toRouteResponse(res)
	out.OK = ok
	out.Superseded = !committed
	writeJSON(w, r, http.StatusOK, out)
}

// Current returns the last stored route.
func (h *RouteHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Get(obs.SessionID(r.Context()))

	out := toRouteResponse(sess.Route.Current())
	out.OK = true
	writeJSON(w, r, http.StatusOK, out)
}

// Highlight answers 204 when the waypoint has no following leg.
func (h *RouteHandler) Highlight(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "index must be an integer")
		return
	}

	sess := h.Sessions.Get(obs.SessionID(r.Context()))
	segment, ok := services.HighlightSegment(index, sess.Route.Current())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SegmentResponse{Index: index, Segment: segment})
}

// Leg finds the waypoint leg under a map point; 204 when there is no route.
func (h *RouteHandler) Leg(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon must be numbers")
		return
	}

	sess := h.Sessions.Get(obs.SessionID(r.Context()))
	leg, segment, ok := sess.Route.Index().LegAt(domain.LatLon{lat, lon})
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SegmentResponse{Index: leg, Segment: segment})
}

// Optimize reorders the selection into the routing service's visiting order.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	profile, err := domain.ParseProfile(req.Profile)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := obs.SessionID(r.Context())
	sess := h.Sessions.Get(sessionID)
	notifier, notices := requestNotifier(h.Notifier)

	before := sess.Selection.Places()
	places := services.OptimizeOrder(r.Context(), services.OptimizeOrderRequest{
		SessionID: sessionID,
		Places:    before,
		Profile:   profile,
	}, h.Routes, sess.Selection, notifier)
	if !sameOrder(before, places) {
		sess.Route.Invalidate()
	}

	writeJSON(w, r, http.StatusOK, dto.SelectionResponse{
		Places:  toPlaces(places),
		Notices: toNotices(notices),
	})
}

func toRouteResponse(res domain.RouteResult) dto.RouteResponse {
	out := dto.RouteResponse{
		Route:     res.Route,
		Waypoints: make([]dto.WaypointResponse, 0, len(res.Waypoints)),
		Notices:   []dto.NoticeResponse{},
	}
	if out.Route == nil {
		out.Route = []domain.LatLon{}
	}
	for _, wp := range res.Waypoints {
		out.Waypoints = append(out.Waypoints, dto.WaypointResponse{
			Location: [2]float64{wp.Location.Lon, wp.Location.Lat},
			Name:     wp.Name,
		})
	}
	if !res.Empty() {
		out.Feature = routeFeature(res)
	}
	return out
}

// routeFeature renders the route as a GeoJSON LineString feature.
func routeFeature(res domain.RouteResult) *geojson.Feature {
	line := make(orb.LineString, 0, len(res.Route))
	for _, p := range res.Route {
		line = append(line, orb.Point{p.Lon(), p.Lat()})
	}

	f := geojson.NewFeature(line)
	f.Properties["waypoints"] = len(res.Waypoints)
	return f
}

func sameOrder(a, b []domain.Place) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
