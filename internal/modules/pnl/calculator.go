// Package pnl computes per-trade profit and loss figures.
//
// The calculator is pure: the same trade and fee schedule always produce the
// same result. There is no "mode" object; passing a nil schedule is the gross
// variant, since net differs from gross only by an optional subtraction.
package pnl

import (
	"github.com/aristath/trade-journal/internal/domain"
	"github.com/aristath/trade-journal/internal/modules/fees"
	"github.com/aristath/trade-journal/internal/modules/journal"
)

// Result holds the P&L figures for one closed trade
type Result struct {
	Gross     float64        `json:"gross_pnl"`
	Net       float64        `json:"net_pnl"`
	TotalFees float64        `json:"total_fees"`
	Breakdown fees.Breakdown `json:"breakdown"`
}

// Compute calculates gross and fee-adjusted P&L for a closed trade.
//
// An open trade, or one missing either price, returns domain.ErrNotComputable:
// callers render those as "open", not as a numeric P&L of zero.
func Compute(trade journal.Trade, schedule *fees.FeeSchedule) (Result, error) {
	if !trade.IsClosed() || trade.BuyPrice == nil || trade.SellPrice == nil {
		return Result{}, domain.ErrNotComputable
	}

	gross := (*trade.SellPrice - *trade.BuyPrice) * trade.Shares

	result := Result{
		Gross: gross,
		Net:   gross,
	}

	if schedule != nil {
		result.Breakdown = fees.EvaluateTrade(trade, *schedule)
		result.TotalFees = result.Breakdown.Total
		result.Net = gross - result.TotalFees
	}

	return result, nil
}

// ReturnRisk calculates the return/risk ratio |pnl| / riskAmount for a trade.
//
// The risk amount is the stored absolute risk when present, else derived from
// the risk percentage of the entry notional. A zero or unknown risk amount
// reports ok=false rather than an infinite or zero ratio.
func ReturnRisk(trade journal.Trade, pnl float64) (ratio float64, ok bool) {
	riskAmount := 0.0
	switch {
	case trade.RiskDollars != nil:
		riskAmount = *trade.RiskDollars
	case trade.Risk != nil && trade.BuyPrice != nil:
		riskAmount = *trade.Risk / 100 * *trade.BuyPrice * trade.Shares
	}

	if riskAmount <= 0 {
		return 0, false
	}

	if pnl < 0 {
		pnl = -pnl
	}
	return pnl / riskAmount, true
}
