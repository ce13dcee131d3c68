package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/aldennoronha2228/postharvest/internal/adapter/http"
	"github.com/aldennoronha2228/postharvest/internal/domain"
	"github.com/aldennoronha2228/postharvest/internal/engine"
	"github.com/aldennoronha2228/postharvest/internal/observability"
)

type mockSimulator struct {
	running bool
}

func (m *mockSimulator) Start()        { m.running = true }
func (m *mockSimulator) Stop()         { m.running = false }
func (m *mockSimulator) Running() bool { return m.running }

func newTestServer(t *testing.T) (*httpadapter.Server, *engine.Session, *mockSimulator) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session, err := engine.NewSession(
		domain.DefaultRegistry(),
		engine.Seed{Crop: "Tomatoes", Temp: 22.5, GForce: 0.8, Tilt: 3},
		clockwork.NewRealClock(),
		logger,
		observability.NewMetricsForTesting(),
	)
	require.NoError(t, err)

	sim := &mockSimulator{}
	return httpadapter.NewServer(":0", session, sim, logger), session, sim
}

func do(t *testing.T, srv *httpadapter.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReportsTrip(t *testing.T) {
	srv, session, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, session.ID(), body["trip_id"])
}

func TestSnapshotEndpoint(t *testing.T) {
	srv, _, sim := newTestServer(t)
	sim.Start()

	rec := do(t, srv, http.MethodGet, "/v1/snapshot", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Crop             string `json:"crop"`
		Telemetry        domain.TripTelemetry
		SimulatorRunning bool `json:"simulator_running"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Tomatoes", body.Crop)
	assert.True(t, body.SimulatorRunning)
}

func TestTemperatureOverrideClamps(t *testing.T) {
	srv, session, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/temperature", `{"value": 100}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 45.0, body["temp"])
	assert.Equal(t, 45.0, session.Snapshot().Telemetry.CurrentTemp)
}

func TestGForceOverrideClamps(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/gforce", `{"value": 10}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5.0, body["gforce"])
}

func TestInjectScenario(t *testing.T) {
	srv, session, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/inject", `{"scenario": "pothole"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 83, session.Score())

	t.Run("unknown scenario is 404", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/v1/inject", `{"scenario": "volcano"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/v1/inject", `{scenario`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSelectCrop(t *testing.T) {
	srv, session, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/crop", `{"name": "Bananas"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bananas", session.Snapshot().Crop)

	t.Run("unknown crop is 404", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/v1/crop", `{"name": "Durian"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Bananas", session.Snapshot().Crop)
	})
}

func TestIncidentFilters(t *testing.T) {
	srv, session, _ := newTestServer(t)
	require.NoError(t, session.Inject("pothole"))
	_, err := session.RecordIncident("Door open at checkpoint", domain.SeverityInfo, 0, domain.OriginSensor)
	require.NoError(t, err)

	decode := func(rec *httptest.ResponseRecorder) []domain.Incident {
		var out []domain.Incident
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	assert.Len(t, decode(do(t, srv, http.MethodGet, "/v1/incidents", "")), 2)
	assert.Len(t, decode(do(t, srv, http.MethodGet, "/v1/incidents?origin=sensor", "")), 1)
	assert.Len(t, decode(do(t, srv, http.MethodGet, "/v1/incidents?origin=simulated", "")), 1)
	assert.Len(t, decode(do(t, srv, http.MethodGet, "/v1/incidents?deducting=true", "")), 1)
	assert.Len(t, decode(do(t, srv, http.MethodGet, "/v1/incidents?origin=ghost", "")), 0)
}

func TestSimulatorControls(t *testing.T) {
	srv, _, sim := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/simulator/start", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sim.Running())

	rec = do(t, srv, http.MethodPost, "/v1/simulator/stop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sim.Running())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
