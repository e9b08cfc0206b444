package handlers

import (
	"errors"
	"net/http"
	"strings"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
	"trip-planner-service/internal/session"

	"github.com/gorilla/mux"
)

// SelectionHandler exposes the session's ordered place list. Every
// change drops the session's stored route.
type SelectionHandler struct {
	Sessions *session.Registry
	Searcher ports.PlaceSearcher
	Notifier ports.Notifier
}

func (h *SelectionHandler) session(r *http.Request) *session.Session {
	return h.Sessions.Get(obs.SessionID(r.Context()))
}

func (h *SelectionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.SelectionResponse{
		Places:  toPlaces(h.session(r).Selection.Places()),
		Notices: []dto.NoticeResponse{},
	})
}

func (h *SelectionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required")
		return
	}

	tags := make(map[string]string, len(req.Tags)+1)
	for k, v := range req.Tags {
		tags[k] = v
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		tags[domain.TagName] = name
	}

	sess := h.session(r)
	sel := sess.Selection
	p, added := sel.Add(domain.Place{Lat: *req.Lat, Lon: *req.Lon, Tags: tags})

	status := http.StatusOK
	if added {
		sess.Route.Invalidate()
		status = http.StatusCreated
	}
	writeJSON(w, r, status, dto.AddPlaceResponse{
		Place:   toPlace(p),
		Added:   added,
		Places:  toPlaces(sel.Places()),
		Notices: []dto.NoticeResponse{},
	})
}

// Remove is idempotent: an unknown id still answers 200.
func (h *SelectionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	sel := sess.Selection
	if sel.Remove(mux.Vars(r)["id"]) {
		sess.Route.Invalidate()
	}

	writeJSON(w, r, http.StatusOK, dto.SelectionResponse{
		Places:  toPlaces(sel.Places()),
		Notices: []dto.NoticeResponse{},
	})
}

func (h *SelectionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess := h.session(r)
	sel := sess.Selection
	if err := sel.ReorderByID(req.IDs); err != nil {
		if errors.Is(err, domain.ErrNotPermutation) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	sess.Route.Invalidate()

	writeJSON(w, r, http.StatusOK, dto.SelectionResponse{
		Places:  toPlaces(sel.Places()),
		Notices: []dto.NoticeResponse{},
	})
}

func (h *SelectionHandler) SetStart(w http.ResponseWriter, r *http.Request) {
	var req dto.StartingLocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required")
		return
	}

	sess := h.session(r)
	sel := sess.Selection
	sel.SetStartingLocation(*req.Lat, *req.Lon, strings.TrimSpace(req.Name))
	sess.Route.Invalidate()

	writeJSON(w, r, http.StatusOK, dto.SelectionResponse{
		Places:  toPlaces(sel.Places()),
		Notices: []dto.NoticeResponse{},
	})
}

// Replace swaps the stop {id} for a resolved suggestion, keeping its place
// in the order.
func (h *SelectionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplacePlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sessionID := obs.SessionID(r.Context())
	sess := h.Sessions.Get(sessionID)
	notifier, notices := requestNotifier(h.Notifier)

	p, err := services.ReplaceWithSuggestion(r.Context(), services.ReplaceSuggestionRequest{
		SessionID: sessionID,
		ID:        mux.Vars(r)["id"],
		RefID:     req.RefID,
		Display:   req.Display,
	}, h.Searcher, sess.Selection, notifier)

	res := dto.AddPlaceResponse{
		Places:  toPlaces(sess.Selection.Places()),
		Notices: toNotices(notices),
	}

	switch {
	case errors.Is(err, services.ErrEmptyRefID):
		writeJSON(w, r, http.StatusBadRequest, res)
	case errors.Is(err, domain.ErrPlaceNotFound):
		writeJSON(w, r, http.StatusNotFound, res)
	case errors.Is(err, domain.ErrDuplicatePlace):
		writeJSON(w, r, http.StatusConflict, res)
	case err != nil:
		writeJSON(w, r, http.StatusBadGateway, res)
	default:
		sess.Route.Invalidate()
		res.Place = toPlace(p)
		res.Added = true
		res.Places = toPlaces(sess.Selection.Places())
		writeJSON(w, r, http.StatusOK, res)
	}
}
