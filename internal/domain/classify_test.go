package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tomatoes(t *testing.T) CropProfile {
	t.Helper()
	p, err := DefaultRegistry().Get("Tomatoes")
	require.NoError(t, err)
	return p
}

func TestClassifyTemperature(t *testing.T) {
	p := tomatoes(t) // warning 26, danger 30

	tests := []struct {
		name     string
		temp     float64
		expected Classification
	}{
		{"well below warning", 18.0, ClassificationOptimal},
		{"exactly at warning", 26.0, ClassificationOptimal},
		{"just above warning", 26.1, ClassificationWarning},
		{"exactly at danger", 30.0, ClassificationWarning},
		{"just above danger", 30.1, ClassificationCritical},
		{"far above danger", 45.0, ClassificationCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTemperature(tt.temp, p))
		})
	}
}

func TestClassifyShock(t *testing.T) {
	p := tomatoes(t) // warning 1.5, critical 2.5

	tests := []struct {
		name     string
		g        float64
		expected Classification
	}{
		{"resting", 0.5, ClassificationStable},
		{"exactly at warning", 1.5, ClassificationStable},
		{"above warning", 1.6, ClassificationWarning},
		{"exactly at critical", 2.5, ClassificationWarning},
		{"above critical", 2.6, ClassificationCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyShock(tt.g, p))
		})
	}
}

func TestClassifyTilt(t *testing.T) {
	p := tomatoes(t) // critical 25, warning above 15 (60%)

	tests := []struct {
		name     string
		tilt     float64
		expected Classification
	}{
		{"level", 0, ClassificationStable},
		{"exactly at warning boundary", 15.0, ClassificationStable},
		{"above warning boundary", 15.1, ClassificationWarning},
		{"exactly at critical", 25.0, ClassificationWarning},
		{"above critical", 25.1, ClassificationCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTilt(tt.tilt, p))
		})
	}
}
