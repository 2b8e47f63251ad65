package fees

import (
	"math"

	"github.com/aristath/trade-journal/internal/modules/journal"
)

// LegFees is the itemized fee breakdown for one side of a trade
type LegFees struct {
	Brokerage       float64 `json:"brokerage"`
	ExchangeCharges float64 `json:"exchange_charges"`
	TurnoverFee     float64 `json:"turnover_fee"`
	PlatformFee     float64 `json:"platform_fee"`
	Total           float64 `json:"total"`
}

// Breakdown is the fee breakdown for a complete trade: both legs, each
// evaluated independently against the schedule, plus their sum
type Breakdown struct {
	Entry LegFees `json:"entry"`
	Exit  LegFees `json:"exit"`
	Total float64 `json:"total"`
}

// EvaluateLeg computes the itemized fees for one trade leg.
//
// A leg with zero or absent price yields all-zero fees rather than an error:
// fees on a nonexistent leg are undefined, and the evaluator is only invoked
// on legs known to exist.
func EvaluateLeg(price, shares float64, schedule FeeSchedule) LegFees {
	if price <= 0 || shares <= 0 {
		return LegFees{}
	}

	notional := price * shares

	leg := LegFees{
		Brokerage:       math.Min(notional*schedule.BrokeragePct/100, schedule.BrokerageMax),
		ExchangeCharges: notional * schedule.ExchangePct / 100,
		TurnoverFee:     notional * schedule.TurnoverPct / 100,
		PlatformFee:     schedule.PlatformFee,
	}
	leg.Total = leg.Brokerage + leg.ExchangeCharges + leg.TurnoverFee + leg.PlatformFee

	return leg
}

// EvaluateTrade computes the full fee breakdown for a trade: the schedule is
// applied once to the entry leg and once to the exit leg, never once to the
// round-trip notional.
func EvaluateTrade(trade journal.Trade, schedule FeeSchedule) Breakdown {
	var entryPrice, exitPrice float64
	if trade.BuyPrice != nil {
		entryPrice = *trade.BuyPrice
	}
	if trade.SellPrice != nil {
		exitPrice = *trade.SellPrice
	}

	b := Breakdown{
		Entry: EvaluateLeg(entryPrice, trade.Shares, schedule),
		Exit:  EvaluateLeg(exitPrice, trade.Shares, schedule),
	}
	b.Total = b.Entry.Total + b.Exit.Total

	return b
}
