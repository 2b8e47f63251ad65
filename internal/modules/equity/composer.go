package equity

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aristath/trade-journal/internal/domain"
	"github.com/aristath/trade-journal/internal/modules/journal"
	"github.com/aristath/trade-journal/internal/modules/pnl"
)

// Compose merges capital snapshots with intraperiod realized trading P&L into
// one chronologically ordered equity curve.
//
// Each snapshot contributes a month-start point and, when an end capital is
// recorded, a month-end point. The current month, when still in progress,
// contributes a live point at today valued at the month-start capital plus
// month-to-date realized gross P&L.
//
// The curve distinguishes capital flow from trading performance: the period
// aggregator's running balance is relative, this curve is absolute account
// value. With no snapshots the curve is empty - "no data" is not "flat".
func Compose(snapshots []CapitalSnapshot, trades []journal.Trade, today time.Time) []EquityPoint {
	points := []EquityPoint{}

	sorted := make([]CapitalSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Month < sorted[j].Month
	})

	currentMonth := today.Format("2006-01")

	for _, snapshot := range sorted {
		monthStart, err := time.Parse("2006-01", snapshot.Month)
		if err != nil {
			continue
		}

		points = append(points, EquityPoint{
			Date:  monthStart.Format("2006-01-02"),
			Value: snapshot.StartCap,
			Kind:  PointMonthStart,
		})

		if snapshot.CloseCap != nil {
			monthEnd := monthStart.AddDate(0, 1, -1)
			points = append(points, EquityPoint{
				Date:  monthEnd.Format("2006-01-02"),
				Value: *snapshot.CloseCap,
				Kind:  PointMonthEnd,
			})
		} else if snapshot.Month == currentMonth {
			// Month in progress: live point from realized month-to-date P&L
			realized := monthToDateRealized(trades, snapshot.Month)
			points = append(points, EquityPoint{
				Date:  today.Format("2006-01-02"),
				Value: snapshot.StartCap + realized,
				Kind:  PointCurrent,
			})
		}
	}

	// Step/marker series: sort chronologically, never interpolate
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points
}

// monthToDateRealized sums realized gross P&L of trades closed in the month
func monthToDateRealized(trades []journal.Trade, month string) float64 {
	total := 0.0
	for _, trade := range trades {
		if !strings.HasPrefix(trade.EffectiveDate(), month) {
			continue
		}
		result, err := pnl.Compute(trade, nil)
		if errors.Is(err, domain.ErrNotComputable) {
			continue
		}
		if err != nil {
			continue
		}
		total += result.Gross
	}
	return total
}
