package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"trip-planner-service/internal/ports"
)

// Local storage keys shared with the browser client.
const (
	AuthTokenKey = "authToken"
	UserKey      = "user"
)

var ErrMissingToken = errors.New("oauth redirect carried no token")

// CompleteLogin persists the bearer token from an OAuth redirect and
// caches the user's profile next to it.
//
// A failed profile fetch is logged and does not undo the login; the
// profile can be fetched again later.
func CompleteLogin(
	ctx context.Context,
	sessionID string,
	token string,
	storage ports.LocalStorage,
	profiles ports.ProfileProvider,
) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}

	if err := storage.SetItem(ctx, sessionID, AuthTokenKey, token); err != nil {
		return fmt.Errorf("complete login: store token: %w", err)
	}

	profile, err := profiles.Profile(ctx, token)
	if err != nil {
		log.Printf("complete login: fetch profile session=%s err=%v", sessionID, err)
		return nil
	}

	if err := storage.SetItem(ctx, sessionID, UserKey, string(profile)); err != nil {
		log.Printf("complete login: cache profile session=%s err=%v", sessionID, err)
	}

	return nil
}

// CurrentUser returns the cached profile, or ports.ErrKeyNotFound.
func CurrentUser(ctx context.Context, sessionID string, storage ports.LocalStorage) (json.RawMessage, error) {
	v, err := storage.GetItem(ctx, sessionID, UserKey)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(v), nil
}

// Logout forgets the token and the cached profile.
func Logout(ctx context.Context, sessionID string, storage ports.LocalStorage) error {
	for _, key := range []string{AuthTokenKey, UserKey} {
		if err := storage.RemoveItem(ctx, sessionID, key); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}
	return nil
}
