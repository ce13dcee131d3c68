// Package domain models in-transit perishable cargo telemetry.
//
// # Data Source
//
// Readings originate from trailer-mounted sensor packs: a thermistor probe in
// the cargo hold (°C), a triaxial accelerometer reporting peak g-force per
// sampling window, and an inclinometer reporting load tilt in degrees. During
// a live trip the readings arrive through operator commands; the built-in
// telemetry simulator produces synthetic readings with the same shape for
// demos and dry runs.
//
// # Threshold Conventions
//
// Each commodity carries its own biological thresholds, reflecting cold-chain
// handling guidance for that crop:
//
//	Temperature: warning above the respiration-stress point, critical above
//	  the spoilage-onset point. Boundaries are exclusive — a reading exactly
//	  at the threshold stays in the lower tier.
//	Shock:       warning above the bruising threshold, critical above the
//	  crush-damage threshold, both in g.
//	Tilt:        critical above the commodity's load-shift angle; warning
//	  above 60% of it.
//
// # Integrity Score
//
// Every trip starts from a base cargo integrity score of 88. Each recorded
// incident deducts points; the score floors at zero and never recovers within
// a trip. Financial exposure is derived from the score as a straight fraction
// of the declared cargo value: a score of 69 on a $10,000 load is a $3,100
// estimated loss.
//
// # Incident Log
//
// Incidents are the audit trail of the trip. The log is append-only with
// process-unique, strictly increasing ids; nothing edits or removes an entry
// once written, including a mid-trip commodity switch.
package domain
