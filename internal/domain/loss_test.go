package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateLoss(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		cargoValue float64
		expected   float64
	}{
		{"perfect score, no loss", 100, 10000, 0},
		{"score 69 on 10k load", 69, 10000, -3100},
		{"score 59 on 10k load", 59, 10000, -4100},
		{"total loss", 0, 10000, -10000},
		{"zero value cargo", 50, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateLoss(tt.score, tt.cargoValue))
		})
	}
}

func TestEstimateLossMonotonic(t *testing.T) {
	// Loss magnitude strictly increases as the score decreases.
	prev := EstimateLoss(100, 10000)
	for score := 99; score >= 0; score-- {
		cur := EstimateLoss(score, 10000)
		assert.Less(t, cur, prev, "score %d", score)
		prev = cur
	}
}
