package places

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/httpx"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"golang.org/x/sync/singleflight"
)

// VietmapPlaceSearcher implements PlaceSearcher using the Vietmap
// autocomplete (v3) and place (v4) APIs.
//
// It coordinates:
//   - Query normalization
//   - Short-lived autocomplete caching (optional)
//   - Persistent place-detail caching (optional)
//   - Collapsing concurrent lookups of the same reference id
//
// The searcher is safe for concurrent use.
type VietmapPlaceSearcher struct {
	client          *httpx.Client
	apiKey          string
	baseURL         string
	suggestionCache ports.SuggestionCache
	placeCache      ports.PlaceCache
	inflight        singleflight.Group
}

func NewVietmapPlaceSearcher(
	client *httpx.Client,
	baseURL string,
	apiKey string,
	suggestionCache ports.SuggestionCache,
	placeCache ports.PlaceCache,
) (*VietmapPlaceSearcher, error) {
	if client == nil {
		return nil, errors.New("vietmap http client is nil")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("vietmap api key is empty")
	}

	return &VietmapPlaceSearcher{
		client:          client,
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		suggestionCache: suggestionCache,
		placeCache:      placeCache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type suggestionResponse struct {
	RefID   string `json:"ref_id"`
	Display string `json:"display"`
	Address string `json:"address"`
}

// Autocomplete returns suggestions for text. Blank text yields no
// suggestions and no upstream call.
func (v *VietmapPlaceSearcher) Autocomplete(
	ctx context.Context,
	text string,
) (_ []domain.Suggestion, err error) {
	defer obs.Time(ctx, "vietmap.Autocomplete")(&err)

	norm := normalize(text)
	if norm == "" {
		return []domain.Suggestion{}, nil
	}

	// Check the suggestion cache before issuing external API calls.
	if v.suggestionCache != nil {
		cached, ok, err := v.suggestionCache.Get(ctx, norm)
		if err != nil {
			log.Printf("suggestion cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	endpoint := v.baseURL + "/autocomplete/v3"

	var decoded []suggestionResponse
	err = v.client.GetJSON(ctx, func() (*http.Request, error) {
		req, err := v.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("apikey", v.apiKey)
		q.Set("text", norm)
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return nil, fmt.Errorf("vietmap autocomplete %q: %w", norm, err)
	}

	out := make([]domain.Suggestion, 0, len(decoded))
	for _, s := range decoded {
		if s.RefID == "" {
			continue
		}
		out = append(out, domain.Suggestion{RefID: s.RefID, Display: s.Display, Address: s.Address})
	}

	if v.suggestionCache != nil {
		if err := v.suggestionCache.Put(ctx, norm, out); err != nil {
			log.Printf("suggestion cache write failed: %v", err)
		}
	}

	return out, nil
}

type placeResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	Display string  `json:"display"`
}

// PlaceDetail resolves a reference id, consulting the persistent cache
// first. Concurrent calls for the same id share one upstream request.
func (v *VietmapPlaceSearcher) PlaceDetail(
	ctx context.Context,
	refID string,
) (_ domain.PlaceDetail, err error) {
	defer obs.Time(ctx, "vietmap.PlaceDetail")(&err)

	refID = strings.TrimSpace(refID)
	if refID == "" {
		return domain.PlaceDetail{}, errors.New("place detail: ref id must be non-empty")
	}

	if v.placeCache != nil {
		hits, err := v.placeCache.GetMany(ctx, []string{refID})
		if err != nil {
			log.Printf("place cache read failed: %v", err)
		} else if d, ok := hits[refID]; ok {
			return d, nil
		}
	}

	// The shared lookup outlives any single caller giving up on it.
	res, err, _ := v.inflight.Do(refID, func() (any, error) {
		return v.fetchPlaceDetail(context.WithoutCancel(ctx), refID)
	})
	if err != nil {
		return domain.PlaceDetail{}, err
	}
	detail := res.(domain.PlaceDetail)

	if v.placeCache != nil {
		if err := v.placeCache.PutMany(ctx, map[string]domain.PlaceDetail{refID: detail}); err != nil {
			log.Printf("place cache write failed: %v", err)
		}
	}

	return detail, nil
}

func (v *VietmapPlaceSearcher) fetchPlaceDetail(ctx context.Context, refID string) (domain.PlaceDetail, error) {
	endpoint := v.baseURL + "/place/v4"

	var decoded placeResponse
	err := v.client.GetJSON(ctx, func() (*http.Request, error) {
		req, err := v.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("apikey", v.apiKey)
		q.Set("refid", refID)
		req.URL.RawQuery = q.Encode()
		return req, nil
	}, &decoded)
	if err != nil {
		return domain.PlaceDetail{}, fmt.Errorf("vietmap place %q: %w", refID, err)
	}

	// Vietmap answers unknown ids with an empty object.
	if decoded.Lat == 0 || decoded.Lng == 0 {
		return domain.PlaceDetail{}, fmt.Errorf("vietmap place %q: response has no coordinates", refID)
	}

	return domain.PlaceDetail{
		RefID:   refID,
		Lat:     decoded.Lat,
		Lng:     decoded.Lng,
		Name:    decoded.Name,
		Display: decoded.Display,
	}, nil
}
