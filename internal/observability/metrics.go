package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// integrity engine.
type Metrics struct {
	IncidentsAppended  *prometheus.CounterVec // labels: origin={sensor,simulated}, severity={info,warning,critical}
	ScenarioInjections *prometheus.CounterVec // labels: scenario
	ManualOverrides    *prometheus.CounterVec // labels: field={temperature,gforce}
	IntegrityScore     prometheus.Gauge
	SimulatorRunning   prometheus.Gauge
	TickDuration       prometheus.Histogram

	// Incident notification publishing metrics.
	NotificationPublishes *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		IncidentsAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cargo_engine",
			Name:      "incidents_appended_total",
			Help:      "Incidents appended to the trip audit log by origin and severity.",
		}, []string{"origin", "severity"}),
		ScenarioInjections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cargo_engine",
			Name:      "scenario_injections_total",
			Help:      "Instant scenario injections by scenario name.",
		}, []string{"scenario"}),
		ManualOverrides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cargo_engine",
			Name:      "manual_overrides_total",
			Help:      "Manual telemetry overrides by field.",
		}, []string{"field"}),
		IntegrityScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cargo_engine",
			Name:      "integrity_score",
			Help:      "Current cargo integrity score (0-100).",
		}),
		SimulatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cargo_engine",
			Name:      "simulator_running",
			Help:      "1 when the telemetry simulator is ticking, 0 when stopped.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cargo_engine",
			Name:      "tick_duration_seconds",
			Help:      "Duration of a complete simulator tick transaction.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		NotificationPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cargo_engine",
			Name:      "notification_publishes_total",
			Help:      "Incident notification publish attempts by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.IncidentsAppended,
		m.ScenarioInjections,
		m.ManualOverrides,
		m.IntegrityScore,
		m.SimulatorRunning,
		m.TickDuration,
		m.NotificationPublishes,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		IncidentsAppended:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cargo_engine", Name: "incidents_appended_total"}, []string{"origin", "severity"}),
		ScenarioInjections:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cargo_engine", Name: "scenario_injections_total"}, []string{"scenario"}),
		ManualOverrides:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cargo_engine", Name: "manual_overrides_total"}, []string{"field"}),
		IntegrityScore:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cargo_engine", Name: "integrity_score"}),
		SimulatorRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cargo_engine", Name: "simulator_running"}),
		TickDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cargo_engine", Name: "tick_duration_seconds"}),
		NotificationPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cargo_engine", Name: "notification_publishes_total"}, []string{"outcome"}),
	}
}
