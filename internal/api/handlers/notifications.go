package handlers

import (
	"net/http"
	"trip-planner-service/internal/adapters/notify"
	"trip-planner-service/internal/platform/obs"
)

// Notifications streams the session's notices over a websocket.
func Notifications(hub *notify.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, obs.SessionID(r.Context()))
	}
}
