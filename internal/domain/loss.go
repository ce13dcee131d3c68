package domain

// EstimateLoss derives the financial exposure from an integrity score: the
// lost fraction of the declared cargo value, returned as a negative amount.
// loss(100, v) = 0 and loss(0, v) = -v. The numerator is multiplied out
// before dividing so whole-dollar cases stay exact (69, 10000 → -3100).
func EstimateLoss(score int, cargoValue float64) float64 {
	return -(float64(100-score) * cargoValue) / 100
}
