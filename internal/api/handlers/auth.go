package handlers

import (
	"errors"
	"log"
	"net/http"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
)

type AuthHandler struct {
	Storage    ports.LocalStorage
	Profiles   ports.ProfileProvider
	AppBaseURL string
}

// Redirect completes the OAuth round trip and sends the browser home.
func (h *AuthHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	err := services.CompleteLogin(r.Context(), obs.SessionID(r.Context()), r.URL.Query().Get("token"), h.Storage, h.Profiles)
	if errors.Is(err, services.ErrMissingToken) {
		writeError(w, r, http.StatusBadRequest, "token is required")
		return
	}
	if err != nil {
		log.Printf("oauth redirect failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	http.Redirect(w, r, h.AppBaseURL, http.StatusFound)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := services.CurrentUser(r.Context(), obs.SessionID(r.Context()), h.Storage)
	if errors.Is(err, ports.ErrKeyNotFound) {
		writeError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}
	if err != nil {
		log.Printf("current user failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := services.Logout(r.Context(), obs.SessionID(r.Context()), h.Storage); err != nil {
		log.Printf("logout failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
