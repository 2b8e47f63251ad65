package metrics

import (
	"github.com/aristath/trade-journal/internal/modules/equity"
	"github.com/aristath/trade-journal/internal/modules/performance"
)

// Totals is one mode's aggregate outcome figures for a date range
type Totals struct {
	PnL           float64 `json:"pnl"`
	WinRate       float64 `json:"win_rate"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	ProfitFactor  float64 `json:"profit_factor"`
	Expectancy    float64 `json:"expectancy"`
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
}

// Result is the full metrics payload for a user and date range.
//
// Gross and net figures are computed in parallel so presentation layers can
// toggle the display without re-querying. Empty ranges yield zeroed totals
// and empty slices, never nulls.
type Result struct {
	Gross            Totals                   `json:"gross"`
	Net              Totals                   `json:"net"`
	TotalFees        float64                  `json:"total_fees"`
	MaxDrawdown      float64                  `json:"max_drawdown"`
	PeriodStatsGross []performance.PeriodStat `json:"period_stats_gross"`
	PeriodStatsNet   []performance.PeriodStat `json:"period_stats_net"`
	EquityCurve      []equity.EquityPoint     `json:"equity_curve"`
}
