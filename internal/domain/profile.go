package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCropProfile is returned when a commodity name has no registered profile.
var ErrUnknownCropProfile = errors.New("unknown crop profile")

// CropProfile holds the biological thresholds and declared value for one
// commodity. Profiles are static configuration: loaded once at startup and
// never mutated.
type CropProfile struct {
	Name           string  `json:"name"`
	CargoValue     float64 `json:"cargo_value"`     // declared value, USD
	TempDanger     float64 `json:"temp_danger"`     // °C, spoilage onset
	TempWarning    float64 `json:"temp_warning"`    // °C, respiration stress
	GForceCritical float64 `json:"gforce_critical"` // g, crush damage
	GForceWarning  float64 `json:"gforce_warning"`  // g, bruising
	TiltCritical   float64 `json:"tilt_critical"`   // degrees, load shift
	Sensitivity    string  `json:"sensitivity"`
	Notes          string  `json:"notes,omitempty"`
}

// defaultProfiles is the built-in commodity table. Threshold values follow
// common postharvest handling guidance for refrigerated road transport.
var defaultProfiles = []CropProfile{
	{
		Name:           "Tomatoes",
		CargoValue:     10000,
		TempDanger:     30,
		TempWarning:    26,
		GForceCritical: 2.5,
		GForceWarning:  1.5,
		TiltCritical:   25,
		Sensitivity:    "high",
		Notes:          "Ripening accelerates sharply above 26°C; ethylene producer.",
	},
	{
		Name:           "Strawberries",
		CargoValue:     15000,
		TempDanger:     25,
		TempWarning:    21,
		GForceCritical: 2.0,
		GForceWarning:  1.2,
		TiltCritical:   20,
		Sensitivity:    "very high",
		Notes:          "Bruises at low impact; mold risk climbs fast once warm.",
	},
	{
		Name:           "Bananas",
		CargoValue:     8000,
		TempDanger:     31,
		TempWarning:    27,
		GForceCritical: 3.0,
		GForceWarning:  1.8,
		TiltCritical:   30,
		Sensitivity:    "medium",
		Notes:          "Tolerates handling but heat triggers premature ripening.",
	},
	{
		Name:           "Lettuce",
		CargoValue:     6000,
		TempDanger:     24,
		TempWarning:    20,
		GForceCritical: 2.2,
		GForceWarning:  1.4,
		TiltCritical:   22,
		Sensitivity:    "high",
		Notes:          "Wilts quickly above 20°C; crush damage from stacked totes.",
	},
	{
		Name:           "Mangoes",
		CargoValue:     12000,
		TempDanger:     32,
		TempWarning:    28,
		GForceCritical: 3.2,
		GForceWarning:  2.0,
		TiltCritical:   28,
		Sensitivity:    "medium",
		Notes:          "Firm when green; drop impacts show as latent flesh bruising.",
	},
}

// Registry is a read-only lookup of crop profiles by commodity name.
type Registry struct {
	profiles map[string]CropProfile
}

// NewRegistry builds a registry from the given profiles.
func NewRegistry(profiles []CropProfile) *Registry {
	m := make(map[string]CropProfile, len(profiles))
	for _, p := range profiles {
		m[p.Name] = p
	}
	return &Registry{profiles: m}
}

// DefaultRegistry returns a registry backed by the built-in commodity table.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultProfiles)
}

// Get looks up the profile for a commodity name.
func (r *Registry) Get(name string) (CropProfile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return CropProfile{}, fmt.Errorf("%w: %q", ErrUnknownCropProfile, name)
	}
	return p, nil
}

// Names returns the registered commodity names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
