package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/adapters/storage"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/session"

	"github.com/gorilla/websocket"
	_ "modernc.org/sqlite"
)

type stubProfiles struct{ err error }

func (s stubProfiles) Profile(ctx context.Context, token string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{"token":"` + token + `"}`), nil
}

type testEnv struct {
	handler  http.Handler
	routes   *routing.MockRouteProvider
	searcher *places.MockPlaceSearcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := storage.InitSchema(conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	env := &testEnv{
		routes:   &routing.MockRouteProvider{},
		searcher: &places.MockPlaceSearcher{},
	}
	env.handler = NewRouter(Deps{
		Sessions:       session.NewRegistry(time.Hour),
		Routes:         env.routes,
		Searcher:       env.searcher,
		Storage:        storage.NewSqliteLocalStorage(conn),
		Profiles:       stubProfiles{},
		AppBaseURL:     "/app",
		AllowedOrigins: []string{"*"},
		SearchDebounce: 10 * time.Millisecond,
	})
	return env
}

func (e *testEnv) do(t *testing.T, sessionID, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func names(ps []dto.PlaceResponse) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "", http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(sessionHeader) == "" {
		t.Fatal("no session id assigned")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Fatal("no session cookie set")
	}
}

func TestSelectionEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":10.77,"lon":106.70,"name":"Ben Thanh"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d body=%s", rec.Code, rec.Body)
	}
	first := decode[dto.AddPlaceResponse](t, rec)

	rec = env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":1,"lon":2,"name":"Ben Thanh"}`)
	if rec.Code != http.StatusOK || decode[dto.AddPlaceResponse](t, rec).Added {
		t.Fatalf("duplicate add: status=%d body=%s", rec.Code, rec.Body)
	}

	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":10.79,"lon":106.72,"tags":{"name":"Zoo","name:vi":"Thảo Cầm Viên"}}`)

	list := decode[dto.SelectionResponse](t, env.do(t, "s1", http.MethodGet, "/api/selection", ""))
	if got := names(list.Places); len(got) != 2 || got[0] != "Ben Thanh" || got[1] != "Thảo Cầm Viên" {
		t.Fatalf("names = %v", got)
	}

	if other := decode[dto.SelectionResponse](t, env.do(t, "s2", http.MethodGet, "/api/selection", "")); len(other.Places) != 0 {
		t.Fatalf("session s2 sees %v", names(other.Places))
	}

	body := `{"ids":["` + list.Places[1].ID + `","` + list.Places[0].ID + `"]}`
	rec = env.do(t, "s1", http.MethodPut, "/api/selection/order", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("reorder status = %d body=%s", rec.Code, rec.Body)
	}
	if got := names(decode[dto.SelectionResponse](t, rec).Places); got[0] != "Thảo Cầm Viên" {
		t.Fatalf("reordered names = %v", got)
	}

	rec = env.do(t, "s1", http.MethodPut, "/api/selection/order", `{"ids":["`+first.Place.ID+`"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("partial reorder status = %d, want 400", rec.Code)
	}

	rec = env.do(t, "s1", http.MethodPut, "/api/selection/start", `{"lat":10.7,"lon":106.6,"name":"Home"}`)
	start := decode[dto.SelectionResponse](t, rec)
	if start.Places[0].ID != domain.StartingLocationID || start.Places[0].Tags[domain.TagPlaceType] != domain.PlaceTypeStartingPoint {
		t.Fatalf("start = %+v", start.Places[0])
	}

	for i := 0; i < 2; i++ {
		rec = env.do(t, "s1", http.MethodDelete, "/api/selection/"+first.Place.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("remove #%d status = %d", i, rec.Code)
		}
	}
	if got := decode[dto.SelectionResponse](t, rec).Places; len(got) != 2 {
		t.Fatalf("after remove = %v", names(got))
	}
}

func TestSelectionRejectsBadBodies(t *testing.T) {
	env := newTestEnv(t)

	cases := []string{
		`{"name":"no coords"}`,
		`{"lat":1,"lon":2,"name":"x","extra":true}`,
		`{"lat":1,"lon":2,"name":"x"}{}`,
	}
	for _, body := range cases {
		if rec := env.do(t, "s1", http.MethodPost, "/api/selection", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

type routeBody struct {
	OK        bool                   `json:"ok"`
	Route     []domain.LatLon        `json:"route"`
	Waypoints []dto.WaypointResponse `json:"waypoints"`
	Feature   json.RawMessage        `json:"feature"`
}

func TestRouteFetchHighlightAndLeg(t *testing.T) {
	env := newTestEnv(t)
	env.routes.RouteResult = domain.RouteResult{
		Route: []domain.LatLon{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		Waypoints: []domain.WaypointRef{
			{Location: domain.Coordinates{Lon: 1, Lat: 0}, Name: "a"},
			{Location: domain.Coordinates{Lon: 3, Lat: 0}, Name: "b"},
		},
	}

	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":0,"lon":1,"name":"A"}`)
	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":0,"lon":3,"name":"B"}`)

	rec := env.do(t, "s1", http.MethodPost, "/api/route", `{"profile":"car"}`)
	res := decode[routeBody](t, rec)
	if !res.OK || len(res.Route) != 4 || len(res.Waypoints) != 2 {
		t.Fatalf("route = %+v", res)
	}
	if !strings.Contains(string(res.Feature), `"LineString"`) {
		t.Fatalf("feature = %s", res.Feature)
	}

	if cur := decode[routeBody](t, env.do(t, "s1", http.MethodGet, "/api/route", "")); len(cur.Route) != 4 {
		t.Fatalf("stored route = %+v", cur)
	}

	seg := decode[dto.SegmentResponse](t, env.do(t, "s1", http.MethodGet, "/api/route/highlight/0", ""))
	if len(seg.Segment) != 3 || seg.Segment[0] != (domain.LatLon{0, 1}) || seg.Segment[2] != (domain.LatLon{0, 3}) {
		t.Fatalf("segment = %v", seg.Segment)
	}

	if rec := env.do(t, "s1", http.MethodGet, "/api/route/highlight/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("last waypoint status = %d, want 204", rec.Code)
	}
	if rec := env.do(t, "s1", http.MethodGet, "/api/route/highlight/x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad index status = %d, want 400", rec.Code)
	}

	leg := decode[dto.SegmentResponse](t, env.do(t, "s1", http.MethodGet, "/api/route/leg?lat=0&lon=2.2", ""))
	if leg.Index != 0 || len(leg.Segment) != 3 {
		t.Fatalf("leg = %+v", leg)
	}

	if rec := env.do(t, "s1", http.MethodPost, "/api/route", `{"profile":"boat"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown profile status = %d, want 400", rec.Code)
	}
}

func TestRouteFetchFailureClearsRoute(t *testing.T) {
	env := newTestEnv(t)
	env.routes.RouteResult = domain.RouteResult{Route: []domain.LatLon{{0, 0}, {0, 1}}}

	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":0,"lon":0,"name":"A"}`)
	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":0,"lon":1,"name":"B"}`)
	env.do(t, "s1", http.MethodPost, "/api/route", "")

	env.routes.RouteErr = errors.New("osrm down")
	rec := env.do(t, "s1", http.MethodPost, "/api/route", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if res := decode[routeBody](t, rec); res.OK || len(res.Route) != 0 || res.Feature != nil {
		t.Fatalf("route = %+v", res)
	}
	if cur := decode[routeBody](t, env.do(t, "s1", http.MethodGet, "/api/route", "")); len(cur.Route) != 0 {
		t.Fatalf("stale route kept: %+v", cur)
	}
	if rec := env.do(t, "s1", http.MethodGet, "/api/route/leg?lat=0&lon=0", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("leg status = %d, want 204", rec.Code)
	}
}

func TestRouteOptimize(t *testing.T) {
	env := newTestEnv(t)
	env.routes.TripResult = ports.TripResult{
		Code:      "Ok",
		Waypoints: []ports.TripWaypoint{{WaypointIndex: 2}, {WaypointIndex: 0}, {WaypointIndex: 1}},
	}

	for _, n := range []string{"A", "B", "C"} {
		env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":10,"lon":106,"name":"`+n+`"}`)
	}

	res := decode[dto.SelectionResponse](t, env.do(t, "s1", http.MethodPost, "/api/route/optimize", ""))
	if got := names(res.Places); strings.Join(got, ",") != "C,A,B" {
		t.Fatalf("order = %v, want C,A,B", got)
	}
	if len(res.Notices) != 1 || res.Notices[0].Severity != domain.SeveritySuccess {
		t.Fatalf("notices = %+v", res.Notices)
	}

	list := decode[dto.SelectionResponse](t, env.do(t, "s1", http.MethodGet, "/api/selection", ""))
	if got := names(list.Places); strings.Join(got, ",") != "C,A,B" {
		t.Fatalf("stored order = %v", got)
	}
}

func TestSearchEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.searcher.Suggestions = map[string][]domain.Suggestion{"Hue": {{RefID: "r1", Display: "Hue, Vietnam"}}}
	env.searcher.Details = map[string]domain.PlaceDetail{"r1": {RefID: "r1", Lat: 16.46, Lng: 107.59, Name: "Huế"}}

	ac := decode[dto.AutocompleteResponse](t, env.do(t, "s1", http.MethodGet, "/api/search/autocomplete?text=Hue", ""))
	if len(ac.Suggestions) != 1 || ac.Suggestions[0].RefID != "r1" {
		t.Fatalf("suggestions = %+v", ac.Suggestions)
	}

	rec := env.do(t, "s1", http.MethodPost, "/api/search/select", `{"ref_id":"r1","display":"Hue, Vietnam"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("select status = %d body=%s", rec.Code, rec.Body)
	}
	res := decode[dto.AddPlaceResponse](t, rec)
	if res.Place.Name != "Huế" || res.Place.Lat != 16.46 || len(res.Notices) != 1 {
		t.Fatalf("select = %+v", res)
	}

	if rec := env.do(t, "s1", http.MethodPost, "/api/search/select", `{"ref_id":" "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank ref status = %d, want 400", rec.Code)
	}
	if rec := env.do(t, "s1", http.MethodPost, "/api/search/select", `{"ref_id":"unknown"}`); rec.Code != http.StatusBadGateway {
		t.Fatalf("unknown ref status = %d, want 502", rec.Code)
	}
}

func TestSearchWebsocketStreamsDebouncedSuggestions(t *testing.T) {
	env := newTestEnv(t)
	env.searcher.Suggestions = map[string][]domain.Suggestion{"Saigon Z": {{RefID: "zoo", Display: "Saigon Zoo"}}}

	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/search?session_id=s1", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	for _, text := range []string{"Saigon", "Saigon Z"} {
		if err := ws.WriteJSON(dto.SearchInput{Text: text}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame dto.SearchFrame
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Type != "suggestions" || frame.Text != "Saigon Z" || len(frame.Suggestions) != 1 {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "s1", http.MethodGet, "/api/users/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	rec = env.do(t, "s1", http.MethodGet, "/oauth2/redirect?token=abc", "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/app" {
		t.Fatalf("redirect status=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}

	rec = env.do(t, "s1", http.MethodGet, "/api/users/me", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"token":"abc"}` {
		t.Fatalf("me status=%d body=%s", rec.Code, rec.Body)
	}

	if rec := env.do(t, "s1", http.MethodDelete, "/api/users/me", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
	if rec := env.do(t, "s1", http.MethodGet, "/api/users/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout status = %d, want 401", rec.Code)
	}

	if rec := env.do(t, "s1", http.MethodGet, "/oauth2/redirect", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing token status = %d, want 400", rec.Code)
	}
}

func TestOriginChecker(t *testing.T) {
	check := OriginChecker([]string{"https://app.example.com/"})

	r := httptest.NewRequest(http.MethodGet, "/ws/notifications", nil)
	if !check(r) {
		t.Fatal("request without Origin rejected")
	}
	r.Header.Set("Origin", "https://app.example.com")
	if !check(r) {
		t.Fatal("allowed origin rejected")
	}
	r.Header.Set("Origin", "https://evil.example.com")
	if check(r) {
		t.Fatal("foreign origin accepted")
	}
}

func TestSelectionAcceptsNamelessPlaces(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":1,"lon":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first nameless status = %d body=%s", rec.Code, rec.Body)
	}

	// A second nameless place resolves to the same empty name.
	rec = env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":3,"lon":4}`)
	if rec.Code != http.StatusOK || decode[dto.AddPlaceResponse](t, rec).Added {
		t.Fatalf("second nameless: status=%d body=%s", rec.Code, rec.Body)
	}

	if got := decode[dto.SelectionResponse](t, env.do(t, "s1", http.MethodGet, "/api/selection", "")).Places; len(got) != 1 || got[0].Lat != 1 {
		t.Fatalf("places = %+v", got)
	}
}

func TestSelectionChangeDropsStoredRoute(t *testing.T) {
	env := newTestEnv(t)
	env.routes.RouteResult = domain.RouteResult{
		Route: []domain.LatLon{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		Waypoints: []domain.WaypointRef{
			{Location: domain.Coordinates{Lon: 0, Lat: 0}},
			{Location: domain.Coordinates{Lon: 3, Lat: 0}},
		},
	}

	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":0,"lon":0,"name":"A"}`)
	b := decode[dto.AddPlaceResponse](t, env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":0,"lon":3,"name":"B"}`))
	env.do(t, "s1", http.MethodPost, "/api/route", "")

	if rec := env.do(t, "s1", http.MethodGet, "/api/route/highlight/0", ""); rec.Code != http.StatusOK {
		t.Fatalf("highlight before removal status = %d", rec.Code)
	}

	env.do(t, "s1", http.MethodDelete, "/api/selection/"+b.Place.ID, "")

	if cur := decode[routeBody](t, env.do(t, "s1", http.MethodGet, "/api/route", "")); len(cur.Route) != 0 || len(cur.Waypoints) != 0 {
		t.Fatalf("route for removed place still stored: %+v", cur)
	}
	if rec := env.do(t, "s1", http.MethodGet, "/api/route/highlight/0", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("highlight after removal status = %d, want 204", rec.Code)
	}

	// Reordering drops a fresh route as well.
	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":0,"lon":3,"name":"B"}`)
	env.do(t, "s1", http.MethodPost, "/api/route", "")
	list := decode[dto.SelectionResponse](t, env.do(t, "s1", http.MethodGet, "/api/selection", ""))
	env.do(t, "s1", http.MethodPut, "/api/selection/order", `{"ids":["`+list.Places[1].ID+`","`+list.Places[0].ID+`"]}`)

	if cur := decode[routeBody](t, env.do(t, "s1", http.MethodGet, "/api/route", "")); len(cur.Route) != 0 {
		t.Fatalf("route kept after reorder: %+v", cur)
	}
}

func TestSelectionReplaceEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.searcher.Details = map[string]domain.PlaceDetail{
		"market": {RefID: "market", Lat: 10.77, Lng: 106.69, Name: "Chợ Bến Thành"},
		"zoo":    {RefID: "zoo", Lat: 10.79, Lng: 106.70, Name: "Thảo Cầm Viên"},
	}

	a := decode[dto.AddPlaceResponse](t, env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":1,"lon":1,"name":"A"}`))
	env.do(t, "s1", http.MethodPost, "/api/selection", `{"lat":10.79,"lon":106.70,"name":"Zoo"}`)

	rec := env.do(t, "s1", http.MethodPut, "/api/selection/"+a.Place.ID, `{"ref_id":"market"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d body=%s", rec.Code, rec.Body)
	}
	res := decode[dto.AddPlaceResponse](t, rec)
	if res.Place.ID != a.Place.ID || res.Places[0].Name != "Chợ Bến Thành" || len(res.Notices) != 1 {
		t.Fatalf("replace = %+v", res)
	}

	rec = env.do(t, "s1", http.MethodPut, "/api/selection/"+a.Place.ID, `{"ref_id":"zoo"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate location status = %d, want 409", rec.Code)
	}
	if res := decode[dto.AddPlaceResponse](t, rec); len(res.Notices) != 1 || res.Notices[0].Severity != domain.SeverityWarning {
		t.Fatalf("notices = %+v", res.Notices)
	}

	if rec := env.do(t, "s1", http.MethodPut, "/api/selection/missing", `{"ref_id":"market"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", rec.Code)
	}
}
