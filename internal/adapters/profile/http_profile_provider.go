package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"trip-planner-service/internal/platform/httpx"
	"trip-planner-service/internal/platform/obs"
)

// HTTPProfileProvider fetches the signed-in user's profile from the
// identity service using a bearer token.
type HTTPProfileProvider struct {
	client *httpx.Client
	url    string
}

func NewHTTPProfileProvider(client *httpx.Client, url string) (*HTTPProfileProvider, error) {
	if client == nil {
		return nil, errors.New("profile http client is nil")
	}
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("profile url is empty")
	}
	return &HTTPProfileProvider{client: client, url: url}, nil
}

func (p *HTTPProfileProvider) Profile(ctx context.Context, token string) (_ json.RawMessage, err error) {
	defer obs.Time(ctx, "profile.Fetch")(&err)

	if strings.TrimSpace(token) == "" {
		return nil, errors.New("fetch profile: token must be non-empty")
	}

	var raw json.RawMessage
	err = p.client.GetJSON(ctx, func() (*http.Request, error) {
		req, err := p.client.NewRequest(ctx, http.MethodGet, p.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	return raw, nil
}
