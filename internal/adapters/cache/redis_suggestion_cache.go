package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const suggestionKeyPrefix = "autocomplete:v3:"

// RedisSuggestionCache keeps autocomplete responses for a short TTL.
// Keys are the normalized query text.
type RedisSuggestionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{Client: client, TTL: ttl}
}

type cachedSuggestion struct {
	RefID   string `json:"ref_id"`
	Display string `json:"display"`
	Address string `json:"address,omitempty"`
}

func (r *RedisSuggestionCache) Get(
	ctx context.Context,
	text string,
) (_ []domain.Suggestion, _ bool, err error) {
	defer obs.Time(ctx, "suggestion.cache.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("suggestion cache: redis client is nil")
	}

	b, err := r.Client.Get(ctx, suggestionKeyPrefix+text).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get suggestion cache %q: %w", text, err)
	}

	var stored []cachedSuggestion
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil, false, fmt.Errorf("get suggestion cache %q: decode: %w", text, err)
	}

	out := make([]domain.Suggestion, 0, len(stored))
	for _, s := range stored {
		out = append(out, domain.Suggestion{RefID: s.RefID, Display: s.Display, Address: s.Address})
	}
	return out, true, nil
}

func (r *RedisSuggestionCache) Put(ctx context.Context, text string, suggestions []domain.Suggestion) error {
	if r.Client == nil {
		return errors.New("suggestion cache: redis client is nil")
	}

	stored := make([]cachedSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		stored = append(stored, cachedSuggestion{RefID: s.RefID, Display: s.Display, Address: s.Address})
	}

	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("put suggestion cache %q: encode: %w", text, err)
	}

	if err := r.Client.Set(ctx, suggestionKeyPrefix+text, b, r.TTL).Err(); err != nil {
		return fmt.Errorf("put suggestion cache %q: %w", text, err)
	}
	return nil
}
