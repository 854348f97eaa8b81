package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SanderSepp/omicron-app/internal/hazards"
	"github.com/SanderSepp/omicron-app/internal/models"
	"github.com/SanderSepp/omicron-app/internal/resources"
	"github.com/SanderSepp/omicron-app/internal/session"
	"github.com/SanderSepp/omicron-app/internal/simulation"
	"github.com/SanderSepp/omicron-app/internal/state"
)

type fakeGeo struct {
	places []models.RawPlace
	err    error
}

func (f *fakeGeo) Query(ctx context.Context, center models.Coordinate, radiusMeters int, categories []models.Category) ([]models.RawPlace, error) {
	return f.places, f.err
}

type fakeWeather struct {
	report *models.WeatherReport
}

func (f *fakeWeather) Latest() *models.WeatherReport { return f.report }

type fakeHelp struct {
	requests []simulation.HelpRequest
}

func (f *fakeHelp) List() []simulation.HelpRequest { return f.requests }

type stubRouter struct{}

func (stubRouter) Route(ctx context.Context, origin, dest models.Coordinate) (*models.RouteInfo, error) {
	return &models.RouteInfo{DistanceText: "1.2 km", DurationText: "15 min"}, nil
}

type testEnv struct {
	router   *gin.Engine
	store    state.Store
	sessions *session.Manager
	deps     Deps
}

func setupTestEnv(t *testing.T, geo *fakeGeo) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := state.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sessions := session.NewManager(stubRouter{}, time.Minute, models.EventCalm)
	t.Cleanup(sessions.Stop)

	curated := []models.ResourcePoint{
		resources.CuratedPoint(0, "Drinking water - Old Town", models.Coordinate{Latitude: 59.437, Longitude: 24.745}),
		resources.CuratedPoint(1, "Shelter - City Hall", models.Coordinate{Latitude: 59.438, Longitude: 24.746}),
	}

	deps := Deps{
		Store:        store,
		Sessions:     sessions,
		Orchestrator: resources.NewOrchestrator(geo, curated),
		Custom:       resources.NewCustomStore(),
		Hazards: &hazards.Set{
			Flooded: []hazards.Polygon{{Name: "riverside", Coords: []models.Coordinate{
				{Latitude: 59.43, Longitude: 24.74},
				{Latitude: 59.44, Longitude: 24.74},
				{Latitude: 59.44, Longitude: 24.75},
			}}},
		},
		RadiusMeters:  2000,
		DefaultCenter: models.Coordinate{Latitude: 59.437, Longitude: 24.7536},
		AdminToken:    "secret",
	}

	router := gin.New()
	NewHandler(deps).RegisterRoutes(router)

	return &testEnv{router: router, store: store, sessions: sessions, deps: deps}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T, adminToken string) string {
	t.Helper()
	var body any
	if adminToken != "" {
		body = map[string]string{"adminToken": adminToken}
	}
	w := e.do(t, http.MethodPost, "/api/sessions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status %d", w.Code)
	}
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return resp.SessionID
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})
	w := env.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestGetResourcesQueriesLiveData(t *testing.T) {
	geo := &fakeGeo{places: []models.RawPlace{
		{Name: "Fountain", Latitude: 59.437, Longitude: 24.745, Tags: map[string]string{"amenity": "drinking_water"}},
		{Name: "Apteek", Latitude: 59.438, Longitude: 24.746, Tags: map[string]string{"amenity": "pharmacy"}},
	}}
	env := setupTestEnv(t, geo)

	w := env.do(t, http.MethodGet, "/api/resources", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Resources []models.ResourcePoint `json:"resources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resp.Resources))
	}
	if resp.Resources[0].Category != models.CategoryDrinkingWater {
		t.Errorf("expected drinking_water category, got %q", resp.Resources[0].Category)
	}
}

func TestGetResourcesFloodReturnsCuratedSet(t *testing.T) {
	geo := &fakeGeo{places: []models.RawPlace{
		{Name: "Fountain", Latitude: 59.437, Longitude: 24.745, Tags: map[string]string{"amenity": "drinking_water"}},
	}}
	env := setupTestEnv(t, geo)

	if err := env.store.SetEvent(context.Background(), models.EventFlood); err != nil {
		t.Fatalf("SetEvent: %v", err)
	}

	w := env.do(t, http.MethodGet, "/api/resources", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Resources []models.ResourcePoint `json:"resources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Resources) != 2 {
		t.Fatalf("expected 2 curated resources, got %d", len(resp.Resources))
	}
	for _, p := range resp.Resources {
		if p.Name == "Fountain" {
			t.Error("flood must not include live query results")
		}
	}
}

func TestGetResourcesSearchFilter(t *testing.T) {
	geo := &fakeGeo{places: []models.RawPlace{
		{Name: "Fountain", Latitude: 59.437, Longitude: 24.745, Tags: map[string]string{"amenity": "drinking_water"}},
		{Name: "Apteek", Latitude: 59.438, Longitude: 24.746, Tags: map[string]string{"amenity": "pharmacy"}},
	}}
	env := setupTestEnv(t, geo)

	w := env.do(t, http.MethodGet, "/api/resources?search=apteek", nil)
	var resp struct {
		Resources []models.ResourcePoint `json:"resources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Resources) != 1 || resp.Resources[0].Name != "Apteek" {
		t.Errorf("expected only the pharmacy, got %+v", resp.Resources)
	}
}

func TestGetResourcesGeoJSONFormat(t *testing.T) {
	geo := &fakeGeo{places: []models.RawPlace{
		{Name: "Fountain", Latitude: 59.437, Longitude: 24.745, Tags: map[string]string{"amenity": "drinking_water"}},
	}}
	env := setupTestEnv(t, geo)

	w := env.do(t, http.MethodGet, "/api/resources?format=geojson", nil)
	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected geo+json content type, got %q", ct)
	}
	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Errorf("unexpected feature collection: %+v", fc)
	}
}

func TestPutEventValidatesAndFansOut(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})
	id := env.createSession(t, "")

	w := env.do(t, http.MethodPut, "/api/event", map[string]string{"event": "earthquake"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown event, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/event", map[string]string{"event": "flood"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	s, ok := env.sessions.Get(id)
	if !ok {
		t.Fatal("session disappeared")
	}
	vis := s.Filter.Visibility()
	if !vis.Shelter || vis.Water {
		t.Errorf("expected flood defaults on session filter, got %+v", vis)
	}

	event, err := env.store.Event(context.Background())
	if err != nil || event != models.EventFlood {
		t.Errorf("expected persisted flood event, got %q err %v", event, err)
	}
}

func TestCategoryToggleIsSingleSelect(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})
	id := env.createSession(t, "")

	w := env.do(t, http.MethodPost, "/api/sessions/"+id+"/categories/toggle",
		map[string]string{"category": "pharmacy"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Visibility models.CategoryVisibility `json:"visibility"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Visibility.Pharmacy || resp.Visibility.Water || resp.Visibility.Shelter || resp.Visibility.Food {
		t.Errorf("expected pharmacy-only visibility, got %+v", resp.Visibility)
	}
}

func TestSelectAndRouteLifecycle(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})
	id := env.createSession(t, "")

	w := env.do(t, http.MethodPut, "/api/sessions/"+id+"/origin",
		map[string]float64{"lat": 59.437, "lng": 24.7536})
	if w.Code != http.StatusNoContent {
		t.Fatalf("put origin: status %d", w.Code)
	}

	point := models.ResourcePoint{ID: "r1", Name: "Shelter", Latitude: 59.44, Longitude: 24.76}
	w = env.do(t, http.MethodPost, "/api/sessions/"+id+"/select", point)
	if w.Code != http.StatusNoContent {
		t.Fatalf("select: status %d", w.Code)
	}

	s, _ := env.sessions.Get(id)
	s.Route.Wait()

	w = env.do(t, http.MethodGet, "/api/sessions/"+id+"/route", nil)
	var resp struct {
		Status string            `json:"status"`
		Route  *models.RouteInfo `json:"route"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "resolved" || resp.Route == nil {
		t.Fatalf("expected resolved route, got %+v", resp)
	}

	w = env.do(t, http.MethodDelete, "/api/sessions/"+id+"/select", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear selection: status %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/sessions/"+id+"/route", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "idle" || resp.Route != nil {
		t.Errorf("expected idle after clearing selection, got %+v", resp)
	}
}

func TestPlacementRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})

	coord := map[string]float64{"lat": 59.43, "lng": 24.74}

	regular := env.createSession(t, "")
	w := env.do(t, http.MethodPost, "/api/sessions/"+regular+"/placement", coord)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin placement, got %d", w.Code)
	}

	admin := env.createSession(t, "secret")
	w = env.do(t, http.MethodPost, "/api/sessions/"+admin+"/placement", coord)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for admin placement, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/sessions/"+admin+"/placement",
		map[string]float64{"lat": 95, "lng": 24.74})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range coordinate, got %d", w.Code)
	}
}

func TestCreatePoint(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})
	admin := env.createSession(t, "secret")
	regular := env.createSession(t, "")

	point := models.ResourcePoint{Name: "Water tank", Latitude: 59.44, Longitude: 24.75}

	req := httptest.NewRequest(http.MethodPost, "/api/points", bytes.NewReader(mustJSON(t, point)))
	req.Header.Set("X-Session-ID", regular)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/points", bytes.NewReader(mustJSON(t, point)))
	req.Header.Set("X-Session-ID", admin)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	bad := models.ResourcePoint{Name: "", Latitude: 59.44, Longitude: 24.75}
	req = httptest.NewRequest(http.MethodPost, "/api/points", bytes.NewReader(mustJSON(t, bad)))
	req.Header.Set("X-Session-ID", admin)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unnamed point, got %d", w.Code)
	}

	if len(env.deps.Custom.List()) != 1 {
		t.Errorf("expected 1 stored point, got %d", len(env.deps.Custom.List()))
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestGetGuidanceMatchesStoreState(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})

	if err := env.store.SetEvent(context.Background(), models.EventFlood); err != nil {
		t.Fatalf("SetEvent: %v", err)
	}

	w := env.do(t, http.MethodGet, "/api/guidance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Keys) == 0 || resp.Keys[0] != "flood" {
		t.Errorf("expected flood as the first guidance key, got %v", resp.Keys)
	}
}

func TestGetWeather(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})

	w := env.do(t, http.MethodGet, "/api/weather", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 without a weather source, got %d", w.Code)
	}

	env.deps.Weather = &fakeWeather{report: &models.WeatherReport{TemperatureC: 8, Description: "overcast"}}
	router := gin.New()
	NewHandler(env.deps).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/weather", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report models.WeatherReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Description != "overcast" {
		t.Errorf("expected cached report, got %+v", report)
	}
}

func TestGetHazardsForCurrentEvent(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})

	w := env.do(t, http.MethodGet, "/api/hazards", nil)
	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("calm should have no overlays, got %d", len(fc.Features))
	}

	if err := env.store.SetEvent(context.Background(), models.EventFlood); err != nil {
		t.Fatalf("SetEvent: %v", err)
	}
	w = env.do(t, http.MethodGet, "/api/hazards", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Properties["name"] != "riverside" {
		t.Errorf("expected the riverside overlay, got %+v", fc.Features)
	}
}

func TestGetHelpRequests(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})

	w := env.do(t, http.MethodGet, "/api/help-requests", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	env.deps.Help = &fakeHelp{requests: []simulation.HelpRequest{
		{ID: "h1", HelpType: "need water", Latitude: 59.42, Longitude: 24.7, CreatedAt: time.Now()},
	}}
	router := gin.New()
	NewHandler(env.deps).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/help-requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp struct {
		Requests []simulation.HelpRequest `json:"requests"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Requests) != 1 || resp.Requests[0].HelpType != "need water" {
		t.Errorf("expected the seeded request, got %+v", resp.Requests)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	env := setupTestEnv(t, &fakeGeo{})
	w := env.do(t, http.MethodGet, "/api/sessions/nope/route", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes[w.Code]++
	}
	if codes[http.StatusTooManyRequests] == 0 {
		t.Error("expected some requests to be rate limited")
	}
	if codes[http.StatusOK] == 0 {
		t.Error("expected some requests to pass")
	}
}
