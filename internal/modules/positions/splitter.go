// Package positions owns the position lifecycle: exits that close an open
// trade in full, and partial exits that split it into a closed portion and a
// still-open remainder while conserving the share count exactly.
package positions

import (
	"fmt"
	"strings"

	"github.com/aristath/trade-journal/internal/domain"
	"github.com/aristath/trade-journal/internal/modules/journal"
)

// sharesEpsilon absorbs float dust when an exit quantity should consume the
// whole position (e.g. 0.1+0.2 style remainders)
const sharesEpsilon = 1e-10

// ExitRequest describes an exit of some or all of an open position
type ExitRequest struct {
	Ticker       string  `json:"ticker"`
	SharesToExit float64 `json:"shares_to_exit"`
	SellPrice    float64 `json:"sell_price"`
	Notes        string  `json:"notes,omitempty"`
}

// Validate checks the request's fields
func (r *ExitRequest) Validate() error {
	if strings.TrimSpace(r.Ticker) == "" {
		return domain.NewValidationError("ticker", "cannot be empty")
	}
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))

	if r.SharesToExit <= 0 {
		return domain.NewValidationError("shares_to_exit", "must be positive")
	}
	if r.SellPrice <= 0 {
		return domain.NewValidationError("sell_price", "must be positive")
	}
	return nil
}

// SplitResult is the outcome of applying an exit to an open position.
//
// A full exit closes the original record in place: Closed carries its id and
// Remainder is nil. A partial exit creates a new closed record (Closed, with
// an empty id until persisted) and Remainder holds the reduced original.
type SplitResult struct {
	Closed    journal.Trade
	Remainder *journal.Trade
}

// Split applies an exit request to an open position. Pure transition: nothing
// is persisted here.
//
// For a partial exit the closed portion keeps the original entry price and
// scales both risk fields by the exited share fraction, preserving per-share
// risk density. The remainder's risk fields are deliberately left as recorded.
//
// Invariant: Closed.Shares + Remainder.Shares equals the original share count
// exactly.
func Split(open journal.Trade, req ExitRequest, exitDate string) (SplitResult, error) {
	if open.Status != journal.StatusOpen {
		return SplitResult{}, domain.NewValidationError("ticker",
			fmt.Sprintf("position %s is not open", open.Ticker))
	}
	if err := req.Validate(); err != nil {
		return SplitResult{}, err
	}
	if req.SharesToExit > open.Shares {
		return SplitResult{}, domain.NewValidationError("shares_to_exit",
			fmt.Sprintf("cannot exit %g shares, only %g available", req.SharesToExit, open.Shares))
	}

	remaining := open.Shares - req.SharesToExit
	if remaining < sharesEpsilon {
		remaining = 0
	}

	sellPrice := req.SellPrice

	if remaining == 0 {
		// Full exit: the original record transitions to closed in place
		closed := open
		closed.SellPrice = &sellPrice
		closed.Status = journal.StatusClosed
		closed.ExitDate = exitDate
		closed.Shares = req.SharesToExit
		closed.Notes = appendNote(open.Notes, "Exit", req.Notes)
		return SplitResult{Closed: closed}, nil
	}

	// Partial exit: new closed record for the exited portion
	fraction := req.SharesToExit / open.Shares

	closed := journal.Trade{
		UserID:         open.UserID,
		Date:           open.Date,
		ExitDate:       exitDate,
		Ticker:         open.Ticker,
		BuyPrice:       open.BuyPrice,
		SellPrice:      &sellPrice,
		Shares:         req.SharesToExit,
		Risk:           scaleRisk(open.Risk, fraction),
		RiskDollars:    scaleRisk(open.RiskDollars, fraction),
		AccountBalance: open.AccountBalance,
		Notes:          appendNote(open.Notes, "Partial exit", req.Notes),
		Status:         journal.StatusClosed,
		CreatedAt:      open.CreatedAt,
	}

	remainder := open
	remainder.Shares = remaining

	return SplitResult{Closed: closed, Remainder: &remainder}, nil
}

// scaleRisk scales a risk field by the exited share fraction
func scaleRisk(risk *float64, fraction float64) *float64 {
	if risk == nil {
		return nil
	}
	scaled := *risk * fraction
	return &scaled
}

// appendNote joins the original notes with a prefixed exit note
func appendNote(existing, prefix, note string) string {
	if note == "" {
		return existing
	}
	tagged := prefix + ": " + note
	if existing == "" {
		return tagged
	}
	return existing + " | " + tagged
}
