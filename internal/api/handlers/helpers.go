package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"trip-planner-service/internal/adapters/notify"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object from the body and writes a
// 400 itself when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// requestNotifier sends notices to base and also records them so the
// handler can return them in its response.
func requestNotifier(base ports.Notifier) (ports.Notifier, *notify.Collector) {
	c := &notify.Collector{}
	return notify.Fanout{base, c}, c
}

func toNotices(c *notify.Collector) []dto.NoticeResponse {
	notices := c.Notices()
	out := make([]dto.NoticeResponse, 0, len(notices))
	for _, n := range notices {
		out = append(out, dto.NoticeResponse{Message: n.Message, Severity: n.Severity})
	}
	return out
}

func toPlace(p domain.Place) dto.PlaceResponse {
	return dto.PlaceResponse{
		ID:   p.ID,
		Lat:  p.Lat,
		Lon:  p.Lon,
		Name: p.DisplayName(),
		Tags: p.Tags,
	}
}

func toPlaces(places []domain.Place) []dto.PlaceResponse {
	out := make([]dto.PlaceResponse, 0, len(places))
	for _, p := range places {
		out = append(out, toPlace(p))
	}
	return out
}

func toSuggestions(s []domain.Suggestion) []dto.SuggestionResponse {
	out := make([]dto.SuggestionResponse, 0, len(s))
	for _, v := range s {
		out = append(out, dto.SuggestionResponse{RefID: v.RefID, Display: v.Display, Address: v.Address})
	}
	return out
}
