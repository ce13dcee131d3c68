package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/aldennoronha2228/postharvest/internal/domain"
)

// BaseIntegrityScore is the starting cargo integrity score for every trip.
const BaseIntegrityScore = 88

// ErrInvalidDeduction is returned when an incident carries a negative deduction.
var ErrInvalidDeduction = errors.New("invalid deduction")

// Ledger owns the append-only incident log and the cumulative integrity
// score for one trip session. It is not safe for concurrent use on its own;
// the Session lock serializes all access.
type Ledger struct {
	incidents []domain.Incident
	nextID    int64
	score     int
}

// NewLedger seeds a ledger with pre-recorded incidents. Seed ids are trusted
// as assigned; the id counter advances past the highest seed id so later
// appends never collide. Seed deductions are validated like any append.
func NewLedger(seed []domain.Incident) (*Ledger, error) {
	l := &Ledger{
		incidents: make([]domain.Incident, 0, len(seed)),
		nextID:    1,
		score:     BaseIntegrityScore,
	}
	for _, inc := range seed {
		if inc.Deduction < 0 {
			return nil, fmt.Errorf("seed incident %d: %w: %d", inc.ID, ErrInvalidDeduction, inc.Deduction)
		}
		l.incidents = append(l.incidents, inc)
		l.score = floorScore(l.score - inc.Deduction)
		if inc.ID >= l.nextID {
			l.nextID = inc.ID + 1
		}
	}
	return l, nil
}

// Append validates and records a new incident, deducts its points from the
// score, and returns the created entry.
func (l *Ledger) Append(at time.Time, label string, severity domain.Severity, gforce, temp float64, deduction int, origin domain.Origin) (domain.Incident, error) {
	if deduction < 0 {
		return domain.Incident{}, fmt.Errorf("%w: %d", ErrInvalidDeduction, deduction)
	}
	inc := domain.Incident{
		ID:        l.nextID,
		Time:      at,
		Label:     label,
		Severity:  severity,
		GForce:    gforce,
		Temp:      temp,
		Deduction: deduction,
		Origin:    origin,
	}
	l.nextID++
	l.incidents = append(l.incidents, inc)
	l.score = floorScore(l.score - deduction)
	return inc, nil
}

// Score returns the current integrity score.
func (l *Ledger) Score() int {
	return l.score
}

// TotalDeduction returns the points lost from the base score. Because the
// score floors at zero this is capped at BaseIntegrityScore.
func (l *Ledger) TotalDeduction() int {
	return BaseIntegrityScore - l.score
}

// Incidents returns the full log in insertion order. The returned slice is a
// copy so callers cannot mutate audit state.
func (l *Ledger) Incidents() []domain.Incident {
	out := make([]domain.Incident, len(l.incidents))
	copy(out, l.incidents)
	return out
}

// IncidentsByOrigin returns the incidents recorded from the given origin,
// in insertion order.
func (l *Ledger) IncidentsByOrigin(origin domain.Origin) []domain.Incident {
	var out []domain.Incident
	for _, inc := range l.incidents {
		if inc.Origin == origin {
			out = append(out, inc)
		}
	}
	return out
}

// DeductingIncidents returns the incidents that actually cost points.
func (l *Ledger) DeductingIncidents() []domain.Incident {
	var out []domain.Incident
	for _, inc := range l.incidents {
		if inc.Deduction > 0 {
			out = append(out, inc)
		}
	}
	return out
}

func floorScore(s int) int {
	if s < 0 {
		return 0
	}
	return s
}
