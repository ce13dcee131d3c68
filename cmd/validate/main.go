// Command validate checks the built-in crop-profile table for internal
// consistency: threshold ordering, positive cargo values, and injection
// scenarios that actually trip their thresholds. Run it after editing the
// profile table.
//
// Usage:
//
//	go run ./cmd/validate
package main

import (
	"fmt"
	"os"

	"github.com/aldennoronha2228/postharvest/internal/domain"
	"github.com/aldennoronha2228/postharvest/internal/engine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "FAIL:", err)
		os.Exit(1)
	}
	fmt.Println("OK: crop profile table is consistent")
}

func run() error {
	reg := domain.DefaultRegistry()
	names := reg.Names()
	if len(names) == 0 {
		return fmt.Errorf("no crop profiles registered")
	}

	for _, name := range names {
		p, err := reg.Get(name)
		if err != nil {
			return err
		}
		if err := checkProfile(p); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Printf("  %-14s value=$%.0f temp=%.0f/%.0f°C gforce=%.1f/%.1fg tilt=%.0f°\n",
			p.Name, p.CargoValue, p.TempWarning, p.TempDanger, p.GForceWarning, p.GForceCritical, p.TiltCritical)
	}

	fmt.Printf("validated %d profiles, %d scenarios\n", len(names), len(engine.ScenarioNames()))
	return nil
}

func checkProfile(p domain.CropProfile) error {
	if p.CargoValue <= 0 {
		return fmt.Errorf("cargo value must be positive, got %.2f", p.CargoValue)
	}
	if p.TempWarning >= p.TempDanger {
		return fmt.Errorf("temp warning %.1f must be below danger %.1f", p.TempWarning, p.TempDanger)
	}
	if p.GForceWarning >= p.GForceCritical {
		return fmt.Errorf("gforce warning %.2f must be below critical %.2f", p.GForceWarning, p.GForceCritical)
	}
	if p.TiltCritical <= 0 {
		return fmt.Errorf("tilt critical must be positive, got %.1f", p.TiltCritical)
	}

	// The danger point has to be reachable inside the clamp range, or
	// temperature classification can never reach critical.
	if p.TempDanger >= 45 {
		return fmt.Errorf("temp danger %.1f is outside the sensor range", p.TempDanger)
	}

	// A pothole injection (3.5g) must register as at least a warning for
	// every commodity, or the scenario is inert.
	if domain.ClassifyShock(3.5, p) == domain.ClassificationStable {
		return fmt.Errorf("pothole injection would not trip the shock threshold (warning at %.2fg)", p.GForceWarning)
	}
	return nil
}
