package api

import (
	"net/http"
	"strings"
	"time"
	"trip-planner-service/internal/adapters/notify"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/session"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Deps are the adapters the HTTP surface needs.
type Deps struct {
	Sessions *session.Registry
	Routes   ports.RouteProvider
	Searcher ports.PlaceSearcher
	Storage  ports.LocalStorage
	Profiles ports.ProfileProvider
	Hub      *notify.Hub

	AppBaseURL     string
	AllowedOrigins []string
	SearchDebounce time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Hub == nil {
		d.Hub = notify.NewHub(OriginChecker(d.AllowedOrigins))
	}
	notifier := notify.Fanout{d.Hub, notify.LogNotifier{}}

	selection := &handlers.SelectionHandler{Sessions: d.Sessions, Searcher: d.Searcher, Notifier: notifier}
	route := &handlers.RouteHandler{Sessions: d.Sessions, Routes: d.Routes, Notifier: notifier}
	search := &handlers.SearchHandler{
		Sessions: d.Sessions,
		Searcher: d.Searcher,
		Notifier: notifier,
		Hub:      d.Hub,
		Debounce: d.SearchDebounce,
	}
	auth := &handlers.AuthHandler{Storage: d.Storage, Profiles: d.Profiles, AppBaseURL: d.AppBaseURL}

	r := mux.NewRouter()
	r.Use(sessionMiddleware)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/selection", selection.List).Methods(http.MethodGet)
	api.HandleFunc("/selection", selection.Add).Methods(http.MethodPost)
	api.HandleFunc("/selection/order", selection.Reorder).Methods(http.MethodPut)
	api.HandleFunc("/selection/start", selection.SetStart).Methods(http.MethodPut)
	api.HandleFunc("/selection/{id}", selection.Replace).Methods(http.MethodPut)
	api.HandleFunc("/selection/{id}", selection.Remove).Methods(http.MethodDelete)

	api.HandleFunc("/route", route.Current).Methods(http.MethodGet)
	api.HandleFunc("/route", route.Fetch).Methods(http.MethodPost)
	api.HandleFunc("/route/optimize", route.Optimize).Methods(http.MethodPost)
	api.HandleFunc("/route/highlight/{index}", route.Highlight).Methods(http.MethodGet)
	api.HandleFunc("/route/leg", route.Leg).Methods(http.MethodGet)

	api.HandleFunc("/search/autocomplete", search.Autocomplete).Methods(http.MethodGet)
	api.HandleFunc("/search/select", search.Select).Methods(http.MethodPost)

	api.HandleFunc("/users/me", auth.Me).Methods(http.MethodGet)
	api.HandleFunc("/users/me", auth.Logout).Methods(http.MethodDelete)

	r.HandleFunc("/oauth2/redirect", auth.Redirect).Methods(http.MethodGet)
	r.HandleFunc("/ws/search", search.Stream).Methods(http.MethodGet)
	r.HandleFunc("/ws/notifications", handlers.Notifications(d.Hub)).Methods(http.MethodGet)

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(d.AllowedOrigins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", sessionHeader, requestHeader}),
		gorillahandlers.ExposedHeaders([]string{sessionHeader, requestHeader}),
	)

	return loggingMiddleware(cors(r))
}

// OriginChecker accepts websocket handshakes from the allowed origins.
// "*" allows any origin, and requests without an Origin header pass.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}
