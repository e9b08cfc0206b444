package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
	"trip-planner-service/internal/adapters/notify"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
	"trip-planner-service/internal/session"
)

type SearchHandler struct {
	Sessions *session.Registry
	Searcher ports.PlaceSearcher
	Notifier ports.Notifier
	Hub      *notify.Hub
	Debounce time.Duration
}

// Autocomplete answers a single query without debouncing.
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")

	suggestions, err := h.Searcher.Autocomplete(r.Context(), text)
	if err != nil {
		log.Printf("autocomplete failed: text=%q err=%v", text, err)
		writeError(w, r, http.StatusBadGateway, "autocomplete unavailable")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AutocompleteResponse{
		Text:        text,
		Suggestions: toSuggestions(suggestions),
	})
}

// Select resolves a suggestion and adds it to the selection.
func (h *SearchHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectSuggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sessionID := obs.SessionID(r.Context())
	sess := h.Sessions.Get(sessionID)
	notifier, notices := requestNotifier(h.Notifier)

	p, added, err := services.SelectSuggestion(r.Context(), services.SelectSuggestionRequest{
		SessionID: sessionID,
		RefID:     req.RefID,
		Display:   req.Display,
	}, h.Searcher, sess.Selection, notifier)

	res := dto.AddPlaceResponse{
		Added:   added,
		Places:  toPlaces(sess.Selection.Places()),
		Notices: toNotices(notices),
	}

	switch {
	case errors.Is(err, services.ErrEmptyRefID):
		writeJSON(w, r, http.StatusBadRequest, res)
	case err != nil:
		writeJSON(w, r, http.StatusBadGateway, res)
	default:
		res.Place = toPlace(p)
		status := http.StatusOK
		if added {
			sess.Route.Invalidate()
			status = http.StatusCreated
		}
		writeJSON(w, r, status, res)
	}
}

// Stream serves debounced autocomplete over a websocket. Each client
// frame {"text": ...} supersedes the previous one.
func (h *SearchHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Hub.Upgrade(w, r)
	if err != nil {
		log.Printf("Error upgrading to websocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	emit := func(text string, suggestions []domain.Suggestion) {
		conn.Send(dto.SearchFrame{Type: "suggestions", Text: text, Suggestions: toSuggestions(suggestions)})
	}
	onError := func(text string, err error) {
		log.Printf("search stream: autocomplete failed session=%s text=%q err=%v", obs.SessionID(ctx), text, err)
		conn.Send(dto.SearchFrame{Type: "error", Text: text, Error: "autocomplete unavailable"})
	}

	stream := services.NewSuggestionStream(h.Searcher, services.NewDebouncer(h.Debounce), emit, onError)
	defer stream.Close()

	for {
		var in dto.SearchInput
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		stream.Input(ctx, in.Text)
	}
}
