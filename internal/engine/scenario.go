package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/aldennoronha2228/postharvest/internal/domain"
)

// ErrUnknownScenario is returned when an injection name has no table entry.
var ErrUnknownScenario = errors.New("unknown scenario")

// scenario is one row of the instant-injection table: a telemetry override
// plus the incident it records, applied as a single transaction.
type scenario struct {
	label     string
	severity  domain.Severity
	deduction int
	apply     func(s *Session, now time.Time)
}

// scenarios maps injection names to their effects. Deductions and override
// values are fixed so repeated injections are fully deterministic.
var scenarios = map[string]scenario{
	"pothole": {
		label:     "Severe pothole impact",
		severity:  domain.SeverityCritical,
		deduction: 5,
		apply: func(s *Session, _ time.Time) {
			s.telemetry.PeakGForce = 3.5
		},
	},
	"ac_failure": {
		label:     "Refrigeration unit failure",
		severity:  domain.SeverityCritical,
		deduction: 10,
		apply: func(s *Session, now time.Time) {
			s.telemetry.CurrentTemp = 35.0
			s.pushHistorySample(now, 35.0)
		},
	},
	"cargo_shift": {
		label:     "Cargo load shift",
		severity:  domain.SeverityCritical,
		deduction: 6,
		apply: func(s *Session, _ time.Time) {
			s.telemetry.CurrentTilt = 28
		},
	},
}

// ScenarioNames lists the injectable scenarios.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
