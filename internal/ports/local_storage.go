package ports

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Per-session key/value storage mirroring the browser's local storage.
type LocalStorage interface {
	// Return the value stored under key, or ErrKeyNotFound.
	GetItem(ctx context.Context, sessionID, key string) (string, error)
	SetItem(ctx context.Context, sessionID, key, value string) error
	RemoveItem(ctx context.Context, sessionID, key string) error
}
