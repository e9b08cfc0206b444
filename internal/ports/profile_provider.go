package ports

import (
	"context"
	"encoding/json"
)

// Contract for the identity service that owns user profiles.
type ProfileProvider interface {
	// Return the raw profile document for a bearer token.
	Profile(ctx context.Context, token string) (json.RawMessage, error)
}
