package performance

// Granularity selects the period bucket size
type Granularity string

const (
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// IsValid checks if the granularity is valid
func (g Granularity) IsValid() bool {
	return g == GranularityWeekly || g == GranularityMonthly
}

// Mode selects whether bucket P&L is fee-adjusted
type Mode string

const (
	ModeGross Mode = "gross"
	ModeNet   Mode = "net"
)

// IsValid checks if the mode is valid
func (m Mode) IsValid() bool {
	return m == ModeGross || m == ModeNet
}

// PeriodStat is one bucket of aggregated closed-trade outcomes.
//
// RunningBalance is cumulative bucket P&L seeded at 0 for the first bucket in
// the window: relative trading performance, not absolute account equity. The
// equity module owns the absolute view.
type PeriodStat struct {
	Period         string  `json:"period"` // "2024-01" or the week's Sunday "2024-01-14"
	Start          string  `json:"start"`  // Bucket start date, YYYY-MM-DD
	PnL            float64 `json:"pnl"`
	WinRate        float64 `json:"win_rate"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	Expectancy     float64 `json:"expectancy"`
	TradeCount     int     `json:"trade_count"`
	RunningBalance float64 `json:"running_balance"`
}
