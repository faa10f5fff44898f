// Package api exposes the personnel ledger over JSON/HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/stargate/internal/core/duty"
	"github.com/example/stargate/internal/core/person"
	"github.com/example/stargate/internal/ports/primary"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Options configures NewHandler.
type Options struct {
	People      primary.PersonService
	Duties      primary.AstronautDutyService
	Health      HealthChecker // optional
	Logger      *slog.Logger  // nil discards
	Registry    *prometheus.Registry
	CORSOrigins []string
}

// Handler routes API requests to the application services.
type Handler struct {
	people  primary.PersonService
	duties  primary.AstronautDutyService
	health  HealthChecker
	logger  *slog.Logger
	metrics *Metrics
}

// NewHandler builds the API handler wrapped in its middleware chain.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	h := &Handler{
		people:  opts.People,
		duties:  opts.Duties,
		health:  opts.Health,
		logger:  logger,
		metrics: NewMetrics(registry),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /person", h.handleListPeople)
	mux.HandleFunc("GET /person/{name}", h.handleGetPerson)
	mux.HandleFunc("POST /person", h.handleCreatePerson)
	mux.HandleFunc("GET /astronautduty/{name}", h.handleGetDuties)
	mux.HandleFunc("POST /astronautduty", h.handleCreateDuty)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Method-less patterns lose to the method-specific ones above, so they
	// only see requests with an unsupported method.
	mux.HandleFunc("/person", methodNotAllowed("GET, POST"))
	mux.HandleFunc("/person/{name}", methodNotAllowed("GET"))
	mux.HandleFunc("/astronautduty", methodNotAllowed("POST"))
	mux.HandleFunc("/astronautduty/{name}", methodNotAllowed("GET"))
	mux.HandleFunc("/healthz", methodNotAllowed("GET"))
	mux.HandleFunc("/metrics", methodNotAllowed("GET"))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	var handler http.Handler = mux
	handler = h.metrics.middleware(handler)
	handler = corsMiddleware(opts.CORSOrigins)(handler)
	handler = recoverMiddleware(logger)(handler)
	handler = accessLogMiddleware(logger)(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
	}
}

func (h *Handler) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.people.ListPeople(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := peopleResponse{envelope: ok("people retrieved"), People: make([]personJSON, len(people))}
	for i, p := range people {
		resp.People[i] = toPersonJSON(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	p, err := h.people.GetPersonByName(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, personResponse{envelope: ok("person retrieved"), Person: toPersonJSON(p)})
}

type createPersonBody struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var body createPersonBody
	if !decodeBody(w, r, &body) {
		return
	}
	if person.NormalizeName(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	resp, err := h.people.CreatePerson(r.Context(), primary.CreatePersonRequest{Name: body.Name})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{envelope: ok("person created"), ID: resp.PersonID})
}

func (h *Handler) handleGetDuties(w http.ResponseWriter, r *http.Request) {
	result, err := h.duties.GetAstronautDutiesByName(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := dutiesResponse{
		envelope: ok("astronaut duties retrieved"),
		Person:   toPersonJSON(result.Person),
		Duties:   make([]dutyJSON, len(result.Duties)),
	}
	for i, d := range result.Duties {
		resp.Duties[i] = toDutyJSON(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

type createDutyBody struct {
	Name          string `json:"name"`
	Rank          string `json:"rank"`
	DutyTitle     string `json:"dutyTitle"`
	DutyStartDate string `json:"dutyStartDate"`
}

func (h *Handler) handleCreateDuty(w http.ResponseWriter, r *http.Request) {
	var body createDutyBody
	if !decodeBody(w, r, &body) {
		return
	}

	req := primary.CreateAstronautDutyRequest{
		Name:      body.Name,
		Rank:      body.Rank,
		DutyTitle: body.DutyTitle,
	}
	if strings.TrimSpace(body.DutyStartDate) != "" {
		start, err := duty.ParseDate(body.DutyStartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dutyStartDate: "+err.Error())
			return
		}
		req.DutyStartDate = start
	}

	check := duty.ValidateDutyRequest(duty.DutyRequestInput{
		Name:      req.Name,
		Rank:      req.Rank,
		DutyTitle: req.DutyTitle,
		StartDate: req.DutyStartDate,
	})
	if !check.Allowed {
		writeError(w, http.StatusBadRequest, check.Reason)
		return
	}

	resp, err := h.duties.CreateAstronautDuty(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.metrics.dutiesRecorded.Inc()
	writeJSON(w, http.StatusOK, idResponse{envelope: ok("astronaut duty created"), ID: resp.DutyID})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.PingContext(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, ok("ok"))
}

// decodeBody reads a JSON body into dst, answering 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}
