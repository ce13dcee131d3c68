package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aldennoronha2228/postharvest/internal/domain"
	"github.com/aldennoronha2228/postharvest/internal/observability"
)

// Telemetry bounds. Overrides outside these ranges clamp rather than error:
// sensor noise legitimately exceeds nominal bounds, and a live operational
// view should stay available instead of rejecting input.
const (
	tempMin   = 15.0
	tempMax   = 45.0
	gforceMin = 0.5
	gforceMax = 5.0

	tempHistoryCap = 20
)

// IncidentNotification is the single event the engine emits: one per
// successful append, carrying the incident and the post-append score.
// Consumers use it for transient highlighting or external publishing;
// the engine retains no notification state.
type IncidentNotification struct {
	TripID   string          `json:"trip_id"`
	Crop     string          `json:"crop"`
	Incident domain.Incident `json:"incident"`
	Score    int             `json:"score"`
}

// IncidentNotifier receives incident notifications after the owning
// transaction has committed. Implementations must not call back into the
// session synchronously from IncidentAppended.
type IncidentNotifier interface {
	IncidentAppended(n IncidentNotification)
}

// Snapshot is a consistent read of the trip state: the live telemetry plus
// the per-metric classifications and loss estimate derived from it. Derived
// fields are recomputed on every read, never cached.
type Snapshot struct {
	TripID         string                `json:"trip_id"`
	Crop           string                `json:"crop"`
	Telemetry      domain.TripTelemetry  `json:"telemetry"`
	Temperature    domain.Classification `json:"temperature"`
	Shock          domain.Classification `json:"shock"`
	Tilt           domain.Classification `json:"tilt"`
	TotalDeduction int                   `json:"total_deduction"`
	EstimatedLoss  float64               `json:"estimated_loss"`
}

// Seed is the starting state for a trip session.
type Seed struct {
	Crop               string
	Temp               float64
	GForce             float64
	Tilt               float64
	Incidents          []domain.Incident
	TemperatureHistory []domain.TemperatureSample
}

// Session owns all state for one trip: the telemetry snapshot, the incident
// ledger, and the temperature trend window. A single mutex serializes every
// mutation, so ticks, overrides, and injections each apply as one indivisible
// transaction. Sessions are ephemeral; nothing survives process exit.
type Session struct {
	id      string
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	mu        sync.Mutex
	registry  *domain.Registry
	profile   domain.CropProfile
	ledger    *Ledger
	telemetry domain.TripTelemetry
	history   []domain.TemperatureSample
	notifiers []IncidentNotifier
}

// NewSession initializes a trip session from a seed. The seed crop must be
// registered; seed incidents are replayed through the ledger so the score
// invariant holds from the first read.
func NewSession(registry *domain.Registry, seed Seed, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) (*Session, error) {
	profile, err := registry.Get(seed.Crop)
	if err != nil {
		return nil, fmt.Errorf("seed crop: %w", err)
	}

	ledger, err := NewLedger(seed.Incidents)
	if err != nil {
		return nil, fmt.Errorf("seed incidents: %w", err)
	}

	history := make([]domain.TemperatureSample, 0, tempHistoryCap)
	for _, sample := range seed.TemperatureHistory {
		history = append(history, sample)
		if len(history) > tempHistoryCap {
			history = history[1:]
		}
	}

	s := &Session{
		id:       uuid.NewString(),
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		registry: registry,
		profile:  profile,
		ledger:   ledger,
		telemetry: domain.TripTelemetry{
			CISScore:    ledger.Score(),
			CurrentTemp: clamp(seed.Temp, tempMin, tempMax),
			PeakGForce:  clamp(seed.GForce, gforceMin, gforceMax),
			CurrentTilt: seed.Tilt,
		},
		history: history,
	}
	metrics.IntegrityScore.Set(float64(ledger.Score()))

	logger.Info("trip session initialized",
		"trip_id", s.id,
		"crop", profile.Name,
		"score", ledger.Score(),
		"seed_incidents", len(seed.Incidents),
	)
	return s, nil
}

// ID returns the process-unique trip session id.
func (s *Session) ID() string {
	return s.id
}

// AddNotifier registers an observer for incident notifications.
func (s *Session) AddNotifier(n IncidentNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

// SelectCrop switches the active commodity profile. Thresholds change going
// forward only: the accumulated score and incident log carry over unchanged,
// matching the upstream product behavior.
func (s *Session) SelectCrop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.registry.Get(name)
	if err != nil {
		return err
	}
	s.profile = profile
	s.logger.Info("crop profile selected", "trip_id", s.id, "crop", name)
	return nil
}

// SetTemperature applies a manual temperature override, clamped to the
// sensor's nominal range, and records a trend sample. No incident is raised.
func (s *Session) SetTemperature(value float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	clamped := clamp(value, tempMin, tempMax)
	s.telemetry.CurrentTemp = clamped
	s.pushHistorySample(s.clock.Now(), clamped)
	s.metrics.ManualOverrides.WithLabelValues("temperature").Inc()
	return clamped
}

// SetGForce applies a manual peak g-force override, clamped to the sensor's
// nominal range. No incident is raised.
func (s *Session) SetGForce(value float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	clamped := clamp(value, gforceMin, gforceMax)
	s.telemetry.PeakGForce = clamped
	s.metrics.ManualOverrides.WithLabelValues("gforce").Inc()
	return clamped
}

// Inject applies a named scenario: one telemetry override plus one incident
// append, committed as a single transaction.
func (s *Session) Inject(name string) error {
	s.mu.Lock()

	sc, ok := scenarios[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}

	now := s.clock.Now()
	sc.apply(s, now)
	notification, err := s.appendIncidentLocked(now, sc.label, sc.severity, sc.deduction, domain.OriginSimulated)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("inject %q: %w", name, err)
	}
	s.metrics.ScenarioInjections.WithLabelValues(name).Inc()
	s.mu.Unlock()

	s.notify(notification)
	return nil
}

// RecordIncident appends an operator- or sensor-reported incident against the
// current readings.
func (s *Session) RecordIncident(label string, severity domain.Severity, deduction int, origin domain.Origin) (domain.Incident, error) {
	s.mu.Lock()
	notification, err := s.appendIncidentLocked(s.clock.Now(), label, severity, deduction, origin)
	s.mu.Unlock()
	if err != nil {
		return domain.Incident{}, err
	}

	s.notify(notification)
	return notification.Incident, nil
}

// Snapshot returns a consistent view of the trip state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		TripID:         s.id,
		Crop:           s.profile.Name,
		Telemetry:      s.telemetry,
		Temperature:    domain.ClassifyTemperature(s.telemetry.CurrentTemp, s.profile),
		Shock:          domain.ClassifyShock(s.telemetry.PeakGForce, s.profile),
		Tilt:           domain.ClassifyTilt(s.telemetry.CurrentTilt, s.profile),
		TotalDeduction: s.ledger.TotalDeduction(),
		EstimatedLoss:  domain.EstimateLoss(s.ledger.Score(), s.profile.CargoValue),
	}
}

// Incidents returns the full audit log in insertion order.
func (s *Session) Incidents() []domain.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Incidents()
}

// IncidentsByOrigin returns the incidents recorded from the given origin.
func (s *Session) IncidentsByOrigin(origin domain.Origin) []domain.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.IncidentsByOrigin(origin)
}

// DeductingIncidents returns the incidents that cost points.
func (s *Session) DeductingIncidents() []domain.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DeductingIncidents()
}

// TemperatureHistory returns the trend window, oldest first.
func (s *Session) TemperatureHistory() []domain.TemperatureSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TemperatureSample, len(s.history))
	copy(out, s.history)
	return out
}

// Score returns the current integrity score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Score()
}

// tick applies one simulator step as a single transaction: temperature
// drift, an optional shock draw with its incident, and a trend sample.
// Called only from the simulator loop; rng is owned by that goroutine.
func (s *Session) tick(rng *rand.Rand) {
	s.mu.Lock()

	now := s.clock.Now()

	// Drift uniformly within ±0.5°C at one-decimal resolution.
	drift := float64(rng.IntN(11)-5) / 10.0
	newTemp := clamp(s.telemetry.CurrentTemp+drift, tempMin, tempMax)
	s.telemetry.CurrentTemp = newTemp

	var notification *IncidentNotification
	if rng.Float64() < shockProbability {
		shock := gforceMin + rng.Float64()*shockSpread*s.profile.GForceCritical
		s.telemetry.PeakGForce = shock

		if shock > s.profile.GForceCritical {
			deduction := 1
			if shock > severeShockFactor*s.profile.GForceCritical {
				deduction = 3
			}
			severity := domain.SeverityWarning
			if shock > criticalShockFactor*s.profile.GForceCritical {
				severity = domain.SeverityCritical
			}
			n, err := s.appendIncidentLocked(now, "Shock event detected", severity, deduction, domain.OriginSimulated)
			if err != nil {
				// Unreachable: simulated deductions are non-negative constants.
				s.logger.Error("simulated incident rejected", "error", err)
			} else {
				notification = &n
			}
		}
	}

	s.pushHistorySample(now, newTemp)
	s.mu.Unlock()

	if notification != nil {
		s.notify(*notification)
	}
}

// appendIncidentLocked records an incident against the current readings and
// refreshes the score. Callers must hold s.mu.
func (s *Session) appendIncidentLocked(at time.Time, label string, severity domain.Severity, deduction int, origin domain.Origin) (IncidentNotification, error) {
	inc, err := s.ledger.Append(at, label, severity, s.telemetry.PeakGForce, s.telemetry.CurrentTemp, deduction, origin)
	if err != nil {
		return IncidentNotification{}, err
	}
	s.telemetry.CISScore = s.ledger.Score()
	s.metrics.IntegrityScore.Set(float64(s.telemetry.CISScore))
	s.metrics.IncidentsAppended.WithLabelValues(string(origin), string(severity)).Inc()

	s.logger.Info("incident appended",
		"trip_id", s.id,
		"incident_id", inc.ID,
		"label", label,
		"severity", severity,
		"deduction", deduction,
		"origin", origin,
		"score", s.telemetry.CISScore,
	)
	return IncidentNotification{TripID: s.id, Crop: s.profile.Name, Incident: inc, Score: s.telemetry.CISScore}, nil
}

// pushHistorySample appends to the bounded trend window, evicting the oldest
// sample past the cap. Callers must hold s.mu.
func (s *Session) pushHistorySample(at time.Time, temp float64) {
	s.history = append(s.history, domain.TemperatureSample{Time: at, Temp: temp})
	if len(s.history) > tempHistoryCap {
		copy(s.history, s.history[1:])
		s.history = s.history[:tempHistoryCap]
	}
}

// notify fans out a committed notification. Called outside the session lock
// so observers only ever see fully-applied transactions.
func (s *Session) notify(n IncidentNotification) {
	s.mu.Lock()
	observers := make([]IncidentNotifier, len(s.notifiers))
	copy(observers, s.notifiers)
	s.mu.Unlock()

	for _, o := range observers {
		o.IncidentAppended(n)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
