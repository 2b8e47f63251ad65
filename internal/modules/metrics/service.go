// Package metrics orchestrates the ledger core to answer "give me performance
// for date range X" for presentation layers.
package metrics

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/domain"
	"github.com/aristath/trade-journal/internal/modules/equity"
	"github.com/aristath/trade-journal/internal/modules/fees"
	"github.com/aristath/trade-journal/internal/modules/journal"
	"github.com/aristath/trade-journal/internal/modules/performance"
	"github.com/aristath/trade-journal/internal/modules/pnl"
	"github.com/aristath/trade-journal/pkg/formulas"
)

// Service computes aggregate performance metrics
type Service struct {
	journalRepo *journal.Repository
	feesRepo    *fees.Repository
	equityRepo  *equity.Repository
	log         zerolog.Logger
	now         func() time.Time
}

// NewService creates a new metrics service
func NewService(
	journalRepo *journal.Repository,
	feesRepo *fees.Repository,
	equityRepo *equity.Repository,
	log zerolog.Logger,
) *Service {
	return &Service{
		journalRepo: journalRepo,
		feesRepo:    feesRepo,
		equityRepo:  equityRepo,
		log:         log.With().Str("service", "metrics").Logger(),
		now:         time.Now,
	}
}

// ComputeMetrics assembles the full performance picture for a user within an
// optional inclusive [from, to] date range. An empty range returns zeroed
// totals and empty series, never an error.
func (s *Service) ComputeMetrics(userID, from, to string) (Result, error) {
	trades, err := s.journalRepo.ListByUser(userID, from, to)
	if err != nil {
		return Result{}, err
	}

	schedule, err := s.feesRepo.GetByUser(userID)
	if err != nil {
		return Result{}, err
	}

	snapshots, err := s.equityRepo.ListByUser(userID)
	if err != nil {
		return Result{}, err
	}

	granularity := s.chooseGranularity(trades, from, to)

	statsGross, err := performance.Aggregate(trades, granularity, performance.ModeGross, nil)
	if err != nil {
		return Result{}, err
	}
	statsNet, err := performance.Aggregate(trades, granularity, performance.ModeNet, &schedule)
	if err != nil {
		return Result{}, err
	}

	curve := equity.Compose(snapshots, trades, s.now())

	var grossPnls, netPnls []float64
	totalFees := 0.0
	for _, trade := range trades {
		result, err := pnl.Compute(trade, &schedule)
		if errors.Is(err, domain.ErrNotComputable) {
			continue
		}
		if err != nil {
			return Result{}, err
		}
		grossPnls = append(grossPnls, result.Gross)
		netPnls = append(netPnls, result.Net)
		totalFees += result.TotalFees
	}

	curveValues := make([]float64, len(curve))
	for i, point := range curve {
		curveValues[i] = point.Value
	}

	return Result{
		Gross:            buildTotals(grossPnls),
		Net:              buildTotals(netPnls),
		TotalFees:        totalFees,
		MaxDrawdown:      formulas.MaxDrawdown(curveValues),
		PeriodStatsGross: statsGross,
		PeriodStatsNet:   statsNet,
		EquityCurve:      curve,
	}, nil
}

// chooseGranularity applies the span heuristic when an explicit range is
// given, else spans the user's trade history. The history span runs over
// min/max effective dates: the list is ordered by entry date, so a long-held
// position closed late can sit anywhere in it.
func (s *Service) chooseGranularity(trades []journal.Trade, from, to string) performance.Granularity {
	fromDate, errFrom := time.Parse("2006-01-02", from)
	toDate, errTo := time.Parse("2006-01-02", to)
	if errFrom == nil && errTo == nil {
		return performance.ChooseGranularity(fromDate, toDate)
	}

	var first, last time.Time
	for _, trade := range trades {
		date, err := time.Parse("2006-01-02", trade.EffectiveDate())
		if err != nil {
			continue
		}
		if first.IsZero() || date.Before(first) {
			first = date
		}
		if last.IsZero() || date.After(last) {
			last = date
		}
	}
	if !first.IsZero() && last.After(first) {
		return performance.ChooseGranularity(first, last)
	}

	return performance.GranularityMonthly
}

func buildTotals(pnls []float64) Totals {
	totals := Totals{
		WinRate:      formulas.WinRate(pnls),
		ProfitFactor: formulas.ProfitFactor(pnls),
		Expectancy:   formulas.Expectancy(pnls),
		TotalTrades:  len(pnls),
	}
	totals.AvgWin, totals.AvgLoss = formulas.AvgWinLoss(pnls)

	for _, p := range pnls {
		totals.PnL += p
		if p > 0 {
			totals.WinningTrades++
		} else if p < 0 {
			totals.LosingTrades++
		}
	}

	return totals
}
