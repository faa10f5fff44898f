package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/example/stargate/internal/adapters/persistence"
	"github.com/example/stargate/internal/app"
	"github.com/example/stargate/internal/db"
	"github.com/example/stargate/internal/ports/primary"
)

type testServer struct {
	handler  http.Handler
	registry *prometheus.Registry
	logs     *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	database, dialect, err := db.Open(ctx, db.Options{Driver: db.DriverSQLite3, SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.NewMigrator(database, dialect, nil).InitSchema(ctx); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}

	txManager := persistence.NewTxManager(database, dialect)
	personRepo := persistence.NewPersonRepository(database, dialect)
	dutyRepo := persistence.NewAstronautDutyRepository(database, dialect)
	detailRepo := persistence.NewAstronautDetailRepository(database, dialect)
	executor := app.NewEffectExecutor(dutyRepo, detailRepo, nil)

	logs := &bytes.Buffer{}
	registry := prometheus.NewRegistry()
	handler := NewHandler(Options{
		People:      app.NewPersonService(txManager, personRepo),
		Duties:      app.NewAstronautDutyService(txManager, personRepo, dutyRepo, detailRepo, executor, nil),
		Health:      database,
		Logger:      slog.New(slog.NewTextHandler(logs, nil)),
		Registry:    registry,
		CORSOrigins: []string{"http://localhost:4200"},
	})
	return &testServer{handler: handler, registry: registry, logs: logs}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, payload
}

func assertEnvelope(t *testing.T, payload map[string]any, status int, success bool) {
	t.Helper()
	if payload["success"] != success {
		t.Errorf("success = %v, want %v (payload %v)", payload["success"], success, payload)
	}
	if payload["responseCode"] != float64(status) {
		t.Errorf("responseCode = %v, want %d", payload["responseCode"], status)
	}
	if _, ok := payload["message"].(string); !ok {
		t.Errorf("message missing from %v", payload)
	}
}

func TestHandler_ArmstrongScenario(t *testing.T) {
	s := newTestServer(t)

	rec, payload := s.do(t, http.MethodPost, "/person", `{"name": "Armstrong, Neil"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create person status = %d: %s", rec.Code, rec.Body.String())
	}
	assertEnvelope(t, payload, http.StatusOK, true)
	if payload["id"] == nil {
		t.Error("expected id in response")
	}

	// Person without duties
	rec, payload = s.do(t, http.MethodGet, "/astronautduty/Armstrong,%20Neil", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get duties status = %d: %s", rec.Code, rec.Body.String())
	}
	if duties := payload["duties"].([]any); len(duties) != 0 {
		t.Errorf("expected no duties, got %v", duties)
	}
	if person := payload["person"].(map[string]any); person["careerStartDate"] != nil {
		t.Errorf("expected null careerStartDate, got %v", person["careerStartDate"])
	}

	steps := []struct {
		body string
	}{
		{`{"name":"Armstrong, Neil","rank":"1LT","dutyTitle":"Pilot","dutyStartDate":"2020-01-01"}`},
		{`{"name":"Armstrong, Neil","rank":"COL","dutyTitle":"Commander","dutyStartDate":"2020-06-01T00:00:00Z"}`},
		{`{"name":"Armstrong, Neil","rank":"COL","dutyTitle":"RETIRED","dutyStartDate":"2021-01-01"}`},
	}
	for _, step := range steps {
		rec, payload = s.do(t, http.MethodPost, "/astronautduty", step.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("create duty status = %d: %s", rec.Code, rec.Body.String())
		}
		assertEnvelope(t, payload, http.StatusOK, true)
	}

	rec, payload = s.do(t, http.MethodGet, "/astronautduty/Armstrong,%20Neil", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get duties status = %d", rec.Code)
	}
	person := payload["person"].(map[string]any)
	if person["currentRank"] != "COL" || person["currentDutyTitle"] != "RETIRED" {
		t.Errorf("unexpected person: %v", person)
	}
	if person["careerStartDate"] != "2020-01-01" || person["careerEndDate"] != "2020-12-31" {
		t.Errorf("unexpected career dates: %v", person)
	}

	duties := payload["duties"].([]any)
	if len(duties) != 3 {
		t.Fatalf("expected 3 duties, got %d", len(duties))
	}
	wantEnds := []any{"2020-05-31", "2020-12-31", nil}
	for i, d := range duties {
		if got := d.(map[string]any)["dutyEndDate"]; got != wantEnds[i] {
			t.Errorf("duty %d end = %v, want %v", i, got, wantEnds[i])
		}
	}
}

func TestHandler_People(t *testing.T) {
	s := newTestServer(t)

	rec, payload := s.do(t, http.MethodGet, "/person", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if people := payload["people"].([]any); len(people) != 0 {
		t.Errorf("expected empty list, got %v", people)
	}

	s.do(t, http.MethodPost, "/person", `{"name":"Young, John"}`)
	s.do(t, http.MethodPost, "/person", `{"name":"Aldrin, Buzz"}`)

	_, payload = s.do(t, http.MethodGet, "/person", "")
	people := payload["people"].([]any)
	if len(people) != 2 || people[0].(map[string]any)["name"] != "Aldrin, Buzz" {
		t.Errorf("unexpected people: %v", people)
	}

	rec, payload = s.do(t, http.MethodGet, "/person/Young,%20John", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["person"].(map[string]any)["name"] != "Young, John" {
		t.Errorf("unexpected person: %v", payload["person"])
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/person", `{"name":"Ride, Sally"}`)
	s.do(t, http.MethodPost, "/astronautduty", `{"name":"Ride, Sally","rank":"2LT","dutyTitle":"Mission Specialist","dutyStartDate":"1978-01-16"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed json", http.MethodPost, "/person", `{"name":`, http.StatusBadRequest},
		{"blank name", http.MethodPost, "/person", `{"name":"  "}`, http.StatusBadRequest},
		{"duplicate person", http.MethodPost, "/person", `{"name":"Ride, Sally"}`, http.StatusConflict},
		{"unknown person", http.MethodGet, "/person/Nobody", "", http.StatusNotFound},
		{"unknown person duties", http.MethodGet, "/astronautduty/Nobody", "", http.StatusNotFound},
		{"missing duty fields", http.MethodPost, "/astronautduty", `{"name":"Ride, Sally"}`, http.StatusBadRequest},
		{"bad duty date", http.MethodPost, "/astronautduty", `{"name":"Ride, Sally","rank":"1LT","dutyTitle":"X","dutyStartDate":"16/01/1978"}`, http.StatusBadRequest},
		{"duty for unknown person", http.MethodPost, "/astronautduty", `{"name":"Nobody","rank":"1LT","dutyTitle":"X","dutyStartDate":"1980-01-01"}`, http.StatusNotFound},
		{"duplicate duty start", http.MethodPost, "/astronautduty", `{"name":"Ride, Sally","rank":"1LT","dutyTitle":"X","dutyStartDate":"1978-01-16"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, payload := s.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			assertEnvelope(t, payload, tt.status, false)
		})
	}
}

func TestHandler_UnmatchedRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		method    string
		path      string
		wantCode  int
		wantAllow string
	}{
		{"delete people", http.MethodDelete, "/person", http.StatusMethodNotAllowed, "GET, POST"},
		{"put person", http.MethodPut, "/person/Ride,%20Sally", http.StatusMethodNotAllowed, "GET"},
		{"get duty collection", http.MethodGet, "/astronautduty", http.StatusMethodNotAllowed, "POST"},
		{"post health", http.MethodPost, "/healthz", http.StatusMethodNotAllowed, "GET"},
		{"duty without name", http.MethodGet, "/astronautduty/", http.StatusNotFound, ""},
		{"unknown path", http.MethodGet, "/missions", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, payload := s.do(t, tt.method, tt.path, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Fatalf("Content-Type = %q, want JSON envelope", ct)
			}
			assertEnvelope(t, payload, tt.wantCode, false)
			if got := rec.Header().Get("Allow"); got != tt.wantAllow {
				t.Errorf("Allow = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestHandler_Health(t *testing.T) {
	s := newTestServer(t)
	rec, payload := s.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertEnvelope(t, payload, http.StatusOK, true)
}

type failingPinger struct{}

func (failingPinger) PingContext(ctx context.Context) error { return errors.New("connection refused") }

func TestHandler_HealthUnavailable(t *testing.T) {
	handler := NewHandler(Options{Health: failingPinger{}})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// stubPeople fails or panics on ListPeople.
type stubPeople struct {
	primary.PersonService
	err   error
	panic bool
}

func (s stubPeople) ListPeople(ctx context.Context) ([]*primary.PersonAstronaut, error) {
	if s.panic {
		panic("boom")
	}
	return nil, s.err
}

func TestHandler_InternalErrorsAreHidden(t *testing.T) {
	var logs bytes.Buffer
	handler := NewHandler(Options{
		People: stubPeople{err: errors.New("pq: relation people does not exist")},
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/person", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "relation") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "relation people does not exist") {
		t.Errorf("internal error not logged: %s", logs.String())
	}
}

func TestHandler_RecoversFromPanic(t *testing.T) {
	handler := NewHandler(Options{People: stubPeople{panic: true}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/person", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	assertEnvelope(t, payload, http.StatusInternalServerError, false)
}

func TestHandler_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/person", `{"name":"Glenn, John"}`)
	s.do(t, http.MethodPost, "/astronautduty", `{"name":"Glenn, John","rank":"LTC","dutyTitle":"Pilot","dutyStartDate":"1962-02-20"}`)
	s.do(t, http.MethodGet, "/person/Nobody", "")

	if n := testutil.CollectAndCount(s.registry, "stargate_http_requests_total"); n != 3 {
		t.Errorf("expected 3 request series, got %d", n)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`stargate_http_requests_total{method="POST",route="POST /person",status="200"} 1`,
		`stargate_http_requests_total{method="GET",route="GET /person/{name}",status="404"} 1`,
		`stargate_astronaut_duties_recorded_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
