package formulas

// MaxDrawdown calculates the maximum peak-to-trough decline of a value series
// as a positive percentage (0.25 = 25% loss from peak). Returns 0 for series
// too short to have a drawdown.
//
// Drawdown = (Peak Value - Current Value) / Peak Value
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}
