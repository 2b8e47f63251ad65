// Package export renders journal data as downloadable reports.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aristath/trade-journal/internal/domain"
	"github.com/aristath/trade-journal/internal/modules/fees"
	"github.com/aristath/trade-journal/internal/modules/journal"
	"github.com/aristath/trade-journal/internal/modules/metrics"
	"github.com/aristath/trade-journal/internal/modules/pnl"
)

var tradeHeader = []string{
	"date", "exit_date", "ticker", "buy_price", "sell_price", "shares",
	"status", "gross_pnl", "net_pnl", "fees", "r_multiple", "notes",
}

// WriteReport writes a CSV report: summary statistics in header rows followed
// by one row per trade. Open trades appear with blank P&L columns.
func WriteReport(w io.Writer, trades []journal.Trade, schedule fees.FeeSchedule, result metrics.Result) error {
	cw := csv.NewWriter(w)

	summary := [][]string{
		{"net_pnl", f(result.Net.PnL)},
		{"gross_pnl", f(result.Gross.PnL)},
		{"total_fees", f(result.TotalFees)},
		{"win_rate", f(result.Net.WinRate)},
		{"profit_factor", f(result.Net.ProfitFactor)},
		{"expectancy", f(result.Net.Expectancy)},
		{"total_trades", strconv.Itoa(result.Net.TotalTrades)},
		{},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := cw.Write(tradeHeader); err != nil {
		return fmt.Errorf("failed to write trade header: %w", err)
	}

	for _, trade := range trades {
		row, err := tradeRow(trade, schedule)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write trade row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	return nil
}

func tradeRow(trade journal.Trade, schedule fees.FeeSchedule) ([]string, error) {
	grossCol, netCol, feesCol, rCol := "", "", "", ""

	result, err := pnl.Compute(trade, &schedule)
	switch {
	case err == nil:
		grossCol = f(result.Gross)
		netCol = f(result.Net)
		feesCol = f(result.TotalFees)
		if ratio, ok := pnl.ReturnRisk(trade, result.Net); ok {
			rCol = f(ratio)
		}
	case errors.Is(err, domain.ErrNotComputable):
		// Open position, leave P&L columns blank
	default:
		return nil, err
	}

	return []string{
		trade.Date,
		trade.ExitDate,
		trade.Ticker,
		fPtr(trade.BuyPrice),
		fPtr(trade.SellPrice),
		f(trade.Shares),
		string(trade.Status),
		grossCol,
		netCol,
		feesCol,
		rCol,
		trade.Notes,
	}, nil
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return f(*v)
}
