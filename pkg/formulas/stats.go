package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// WinRate returns the percentage of outcomes that are strictly positive.
// Returns 0 for an empty slice.
func WinRate(pnls []float64) float64 {
	if len(pnls) == 0 {
		return 0
	}
	wins := 0
	for _, p := range pnls {
		if p > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(pnls)) * 100
}

// AvgWinLoss returns the mean winning P&L and the mean absolute losing P&L.
// Either figure is 0 when there are no trades on that side.
func AvgWinLoss(pnls []float64) (avgWin, avgLoss float64) {
	var wins, losses []float64
	for _, p := range pnls {
		if p > 0 {
			wins = append(wins, p)
		} else if p < 0 {
			losses = append(losses, -p)
		}
	}
	return Mean(wins), Mean(losses)
}

// Expectancy calculates expected P&L per trade:
// (Win% x AvgWin) - (Loss% x AvgLoss)
func Expectancy(pnls []float64) float64 {
	if len(pnls) == 0 {
		return 0
	}
	winRate := WinRate(pnls) / 100
	lossCount := 0
	for _, p := range pnls {
		if p < 0 {
			lossCount++
		}
	}
	lossRate := float64(lossCount) / float64(len(pnls))
	avgWin, avgLoss := AvgWinLoss(pnls)
	return winRate*avgWin - lossRate*avgLoss
}

// ProfitFactor calculates gross profit divided by gross loss.
// Returns 0 (not Inf/NaN) when there is no nonzero gross loss.
func ProfitFactor(pnls []float64) float64 {
	var grossProfit, grossLoss float64
	for _, p := range pnls {
		if p > 0 {
			grossProfit += p
		} else if p < 0 {
			grossLoss += -p
		}
	}
	if grossLoss == 0 {
		return 0
	}
	return grossProfit / grossLoss
}
