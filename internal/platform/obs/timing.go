package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	SessionIDKey ctxKey = "session_id"
)

// WithRequestID attaches the request and session ids used by Time.
func WithRequestID(ctx context.Context, reqID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, reqID)
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// Time logs the duration of an operation, and its error when errp points to one.
//
//	defer obs.Time(ctx, "osrm.Route")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)
	sessionID, _ := ctx.Value(SessionIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s session=%s op=%s dur=%dms err=%v", reqID, sessionID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s session=%s op=%s dur=%dms", reqID, sessionID, name, dur.Milliseconds())
	}
}

// SessionID returns the session id attached by WithRequestID, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}
