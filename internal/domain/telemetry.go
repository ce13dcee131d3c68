package domain

import "time"

// Severity grades an incident's impact.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Origin records where an incident came from.
type Origin string

const (
	OriginSensor    Origin = "sensor"
	OriginSimulated Origin = "simulated"
)

// TripTelemetry is the live snapshot for one trip session. A single instance
// exists per session and is overwritten in place by every mutation.
type TripTelemetry struct {
	CISScore    int     `json:"cis_score"` // cargo integrity score, 0–100
	CurrentTemp float64 `json:"current_temp"`
	PeakGForce  float64 `json:"peak_gforce"`
	CurrentTilt float64 `json:"current_tilt"`
}

// Incident is one entry in the append-only trip audit log. Immutable once
// created; ids are process-unique and strictly increasing.
type Incident struct {
	ID        int64     `json:"id"`
	Time      time.Time `json:"time"`
	Label     string    `json:"label"`
	Severity  Severity  `json:"severity"`
	GForce    float64   `json:"gforce"`
	Temp      float64   `json:"temp"`
	Deduction int       `json:"deduction"`
	Origin    Origin    `json:"origin"`
}

// TemperatureSample is one point in the trend window.
type TemperatureSample struct {
	Time time.Time `json:"time"`
	Temp float64   `json:"temp"`
}
