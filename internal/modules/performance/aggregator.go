// Package performance groups closed trades into weekly or monthly buckets and
// computes per-bucket outcome statistics.
package performance

import (
	"errors"
	"sort"
	"time"

	"github.com/aristath/trade-journal/internal/domain"
	"github.com/aristath/trade-journal/internal/modules/fees"
	"github.com/aristath/trade-journal/internal/modules/journal"
	"github.com/aristath/trade-journal/internal/modules/pnl"
	"github.com/aristath/trade-journal/pkg/formulas"
)

// weeklySpanCutoffDays is the usability heuristic for automatic granularity:
// date spans at or under this many days default to weekly buckets. Callers
// may always pass an explicit granularity instead.
const weeklySpanCutoffDays = 90

// Aggregate buckets closed trades by period and computes win rate, average
// win/loss, expectancy and a running cumulative balance per bucket.
//
// Trades that are open or missing a price are skipped. Mode net requires a
// schedule; with a nil schedule net degrades to gross.
func Aggregate(trades []journal.Trade, granularity Granularity, mode Mode, schedule *fees.FeeSchedule) ([]PeriodStat, error) {
	if !granularity.IsValid() {
		return nil, domain.NewValidationError("granularity", "must be 'weekly' or 'monthly'")
	}
	if !mode.IsValid() {
		return nil, domain.NewValidationError("mode", "must be 'gross' or 'net'")
	}

	feeSchedule := schedule
	if mode == ModeGross {
		feeSchedule = nil
	}

	buckets := make(map[string][]float64)
	starts := make(map[string]string)

	for _, trade := range trades {
		result, err := pnl.Compute(trade, feeSchedule)
		if errors.Is(err, domain.ErrNotComputable) {
			continue
		}
		if err != nil {
			return nil, err
		}

		date, err := time.Parse("2006-01-02", trade.EffectiveDate())
		if err != nil {
			continue
		}

		key, start := bucketKey(date, granularity)
		value := result.Net
		if feeSchedule == nil {
			value = result.Gross
		}
		buckets[key] = append(buckets[key], value)
		starts[key] = start
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	stats := make([]PeriodStat, 0, len(keys))
	runningBalance := 0.0

	for _, key := range keys {
		pnls := buckets[key]

		total := 0.0
		for _, p := range pnls {
			total += p
		}
		runningBalance += total

		avgWin, avgLoss := formulas.AvgWinLoss(pnls)

		stats = append(stats, PeriodStat{
			Period:         key,
			Start:          starts[key],
			PnL:            total,
			WinRate:        formulas.WinRate(pnls),
			AvgWin:         avgWin,
			AvgLoss:        avgLoss,
			Expectancy:     formulas.Expectancy(pnls),
			TradeCount:     len(pnls),
			RunningBalance: runningBalance,
		})
	}

	return stats, nil
}

// bucketKey assigns a date to its period bucket. Weekly buckets start on the
// Sunday of the date's week; monthly buckets use the year-month. Keys sort
// chronologically as strings.
func bucketKey(date time.Time, granularity Granularity) (key, start string) {
	if granularity == GranularityWeekly {
		sunday := date.AddDate(0, 0, -int(date.Weekday()))
		s := sunday.Format("2006-01-02")
		return s, s
	}
	firstOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return date.Format("2006-01"), firstOfMonth.Format("2006-01-02")
}

// ChooseGranularity picks buckets for a date span when the caller has no
// explicit preference: weekly for spans up to 90 days, monthly beyond.
func ChooseGranularity(from, to time.Time) Granularity {
	if to.Before(from) {
		from, to = to, from
	}
	if to.Sub(from) <= weeklySpanCutoffDays*24*time.Hour {
		return GranularityWeekly
	}
	return GranularityMonthly
}
