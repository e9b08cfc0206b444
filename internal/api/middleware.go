package api

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
	"trip-planner-service/internal/platform/obs"

	"github.com/google/uuid"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "session_id"
	requestHeader = "X-Request-ID"
)

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets websocket upgrades pass through the logging wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// loggingMiddleware logs end-to-end request duration and response size for basic observability.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{
			ResponseWriter: w,
			status:         0,
		}

		next.ServeHTTP(sw, r)

		duration := time.Since(start).Milliseconds()

		log.Printf(
			"req_id=%s session=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			w.Header().Get(requestHeader), w.Header().Get(sessionHeader),
			r.Method, r.URL.RequestURI(), sw.status, sw.bytes, duration,
		)
	})
}

// sessionMiddleware resolves the caller's session id and tags the request
// context with it. Browsers cannot set headers on websocket handshakes,
// so a query parameter and a cookie are accepted as well.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := sessionIDFrom(r)
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		reqID := strings.TrimSpace(r.Header.Get(requestHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(sessionHeader, sessionID)
		w.Header().Set(requestHeader, reqID)

		next.ServeHTTP(w, r.WithContext(obs.WithRequestID(r.Context(), reqID, sessionID)))
	})
}

func sessionIDFrom(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(sessionHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get(sessionCookie)); id != "" {
		return id
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}
