package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aldennoronha2228/postharvest/internal/domain"
	"github.com/aldennoronha2228/postharvest/internal/engine"
)

// TripEngine is the command/read surface the server exposes. The concrete
// engine.Session satisfies it.
type TripEngine interface {
	Snapshot() engine.Snapshot
	Incidents() []domain.Incident
	IncidentsByOrigin(origin domain.Origin) []domain.Incident
	DeductingIncidents() []domain.Incident
	TemperatureHistory() []domain.TemperatureSample
	SelectCrop(name string) error
	SetTemperature(value float64) float64
	SetGForce(value float64) float64
	Inject(name string) error
}

// SimulatorControl starts and stops the telemetry simulator.
type SimulatorControl interface {
	Start()
	Stop()
	Running() bool
}

// Server exposes the engine over HTTP alongside health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	eng        TripEngine
	sim        SimulatorControl
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the engine routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, eng TripEngine, sim SimulatorControl, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		eng:    eng,
		sim:    sim,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /v1/incidents", s.handleIncidents)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("POST /v1/crop", s.handleSelectCrop)
	mux.HandleFunc("POST /v1/temperature", s.handleSetTemperature)
	mux.HandleFunc("POST /v1/gforce", s.handleSetGForce)
	mux.HandleFunc("POST /v1/inject", s.handleInject)
	mux.HandleFunc("POST /v1/simulator/start", s.handleSimulatorStart)
	mux.HandleFunc("POST /v1/simulator/stop", s.handleSimulatorStop)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	// Ready as soon as a trip session exists; the simulator may be stopped.
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"trip_id": s.eng.Snapshot().TripID,
	})
}

type snapshotResponse struct {
	engine.Snapshot
	SimulatorRunning bool `json:"simulator_running"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, snapshotResponse{
		Snapshot:         s.eng.Snapshot(),
		SimulatorRunning: s.sim.Running(),
	})
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	var incidents []domain.Incident
	switch {
	case r.URL.Query().Get("deducting") == "true":
		incidents = s.eng.DeductingIncidents()
	case r.URL.Query().Get("origin") != "":
		incidents = s.eng.IncidentsByOrigin(domain.Origin(r.URL.Query().Get("origin")))
	default:
		incidents = s.eng.Incidents()
	}
	if incidents == nil {
		incidents = []domain.Incident{}
	}
	writeJSON(w, http.StatusOK, incidents)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	history := s.eng.TemperatureHistory()
	if history == nil {
		history = []domain.TemperatureSample{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleSelectCrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.eng.SelectCrop(req.Name); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Snapshot())
}

func (s *Server) handleSetTemperature(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value float64 `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	stored := s.eng.SetTemperature(req.Value)
	writeJSON(w, http.StatusOK, map[string]float64{"temp": stored})
}

func (s *Server) handleSetGForce(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value float64 `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	stored := s.eng.SetGForce(req.Value)
	writeJSON(w, http.StatusOK, map[string]float64{"gforce": stored})
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario string `json:"scenario"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.eng.Inject(req.Scenario); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Snapshot())
}

func (s *Server) handleSimulatorStart(w http.ResponseWriter, _ *http.Request) {
	s.sim.Start()
	writeJSON(w, http.StatusOK, map[string]bool{"running": s.sim.Running()})
}

func (s *Server) handleSimulatorStop(w http.ResponseWriter, _ *http.Request) {
	s.sim.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"running": s.sim.Running()})
}

// writeEngineError maps engine error kinds to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownCropProfile), errors.Is(err, engine.ErrUnknownScenario):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidDeduction):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
