package domain

// Classification is the derived risk tier for a single metric. It is never
// stored — callers recompute it from the current snapshot on every read.
type Classification string

const (
	ClassificationOptimal  Classification = "optimal" // temperature in range
	ClassificationStable   Classification = "stable"  // shock/tilt in range
	ClassificationWarning  Classification = "warning"
	ClassificationCritical Classification = "critical"
)

// Thresholds are exclusive upper bounds: a reading exactly at a threshold
// stays in the lower tier.

// ClassifyTemperature grades a hold temperature against the profile.
func ClassifyTemperature(temp float64, p CropProfile) Classification {
	switch {
	case temp > p.TempDanger:
		return ClassificationCritical
	case temp > p.TempWarning:
		return ClassificationWarning
	default:
		return ClassificationOptimal
	}
}

// ClassifyShock grades a peak g-force reading against the profile.
func ClassifyShock(g float64, p CropProfile) Classification {
	switch {
	case g > p.GForceCritical:
		return ClassificationCritical
	case g > p.GForceWarning:
		return ClassificationWarning
	default:
		return ClassificationStable
	}
}

// ClassifyTilt grades a load tilt angle. Warning begins at 60% of the
// profile's load-shift angle.
func ClassifyTilt(tilt float64, p CropProfile) Classification {
	switch {
	case tilt > p.TiltCritical:
		return ClassificationCritical
	case tilt > 0.6*p.TiltCritical:
		return ClassificationWarning
	default:
		return ClassificationStable
	}
}
