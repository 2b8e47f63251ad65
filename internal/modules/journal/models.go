package journal

import (
	"strings"
	"time"

	"github.com/aristath/trade-journal/internal/domain"
)

// TradeStatus represents the lifecycle state of a position record
type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)

// IsValid checks if the trade status is valid
func (s TradeStatus) IsValid() bool {
	return s == StatusOpen || s == StatusClosed
}

// StatusFromString creates TradeStatus from string (case-insensitive)
func StatusFromString(value string) (TradeStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "open":
		return StatusOpen, nil
	case "closed":
		return StatusClosed, nil
	default:
		return "", domain.NewValidationError("status", "must be 'open' or 'closed'")
	}
}

// Trade represents a single position record in the journal.
//
// A trade is created open (buy price only) or already closed (single-shot
// buy+sell entry). Partial exits split one trade into a closed portion and a
// reduced open remainder; the positions module owns that transition.
type Trade struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Date           string      `json:"date"`                // Entry date, YYYY-MM-DD
	ExitDate       string      `json:"exit_date,omitempty"` // Set when closed via the exit flow
	Ticker         string      `json:"ticker"`
	BuyPrice       *float64    `json:"buy_price,omitempty"`
	SellPrice      *float64    `json:"sell_price,omitempty"`
	Shares         float64     `json:"shares"` // Fractional shares allowed
	Risk           *float64    `json:"risk,omitempty"`            // Percentage of capital
	RiskDollars    *float64    `json:"risk_dollars,omitempty"`    // Absolute currency amount
	AccountBalance *float64    `json:"account_balance,omitempty"` // Balance at entry, used for risk derivation
	Notes          string      `json:"notes,omitempty"`
	Status         TradeStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at,omitempty"`
	UpdatedAt      time.Time   `json:"updated_at,omitempty"`
}

// Validate validates trade data and normalizes the ticker.
// Violations are reported as field-level validation errors, never corrected.
func (t *Trade) Validate() error {
	if strings.TrimSpace(t.Ticker) == "" {
		return domain.NewValidationError("ticker", "cannot be empty")
	}
	t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))

	if t.Shares <= 0 {
		return domain.NewValidationError("shares", "must be positive")
	}

	if !t.Status.IsValid() {
		return domain.NewValidationError("status", "must be 'open' or 'closed'")
	}

	switch t.Status {
	case StatusOpen:
		if t.BuyPrice == nil || *t.BuyPrice <= 0 {
			return domain.NewValidationError("buy_price", "required for open trades")
		}
		if t.SellPrice != nil {
			return domain.NewValidationError("sell_price", "must be absent for open trades")
		}
	case StatusClosed:
		if t.SellPrice == nil || *t.SellPrice <= 0 {
			return domain.NewValidationError("sell_price", "required for closed trades")
		}
	}

	if t.Risk == nil && t.RiskDollars == nil {
		return domain.NewValidationError("risk", "either risk percentage or risk in dollars must be provided")
	}

	if t.Date == "" {
		return domain.NewValidationError("date", "cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return domain.NewValidationError("date", "must be YYYY-MM-DD")
	}

	return nil
}

// IsClosed reports whether the trade is closed
func (t *Trade) IsClosed() bool {
	return t.Status == StatusClosed
}

// EffectiveDate returns the date a trade counts under for range filtering and
// period bucketing: the exit date for closed trades when recorded, else the
// entry date.
func (t *Trade) EffectiveDate() string {
	if t.IsClosed() && t.ExitDate != "" {
		return t.ExitDate
	}
	return t.Date
}

// DeriveRisk fills in the missing risk field from the account balance:
// risk_dollars = risk% x balance, or risk% = risk_dollars / balance x 100.
// Both present, or no usable balance, leaves the trade untouched.
func (t *Trade) DeriveRisk(defaultBalance float64) {
	balance := defaultBalance
	if t.AccountBalance != nil && *t.AccountBalance > 0 {
		balance = *t.AccountBalance
	}
	if balance <= 0 {
		return
	}

	if t.Risk != nil && t.RiskDollars == nil {
		dollars := *t.Risk / 100 * balance
		t.RiskDollars = &dollars
		t.AccountBalance = &balance
	} else if t.RiskDollars != nil && t.Risk == nil {
		pct := *t.RiskDollars / balance * 100
		t.Risk = &pct
		t.AccountBalance = &balance
	}
}

// Apply merges a partial edit into the trade. Nil fields are left unchanged.
// The merged record must be re-validated before persisting: an edit may flip
// status or drop a price in a way the stored record alone cannot reveal.
func (t *Trade) Apply(upd TradeUpdate) error {
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.Ticker != nil {
		t.Ticker = *upd.Ticker
	}
	if upd.BuyPrice != nil {
		t.BuyPrice = upd.BuyPrice
	}
	if upd.SellPrice != nil {
		t.SellPrice = upd.SellPrice
	}
	if upd.Shares != nil {
		t.Shares = *upd.Shares
	}
	if upd.Risk != nil {
		t.Risk = upd.Risk
	}
	if upd.RiskDollars != nil {
		t.RiskDollars = upd.RiskDollars
	}
	if upd.AccountBalance != nil {
		t.AccountBalance = upd.AccountBalance
	}
	if upd.Notes != nil {
		t.Notes = *upd.Notes
	}
	if upd.Status != nil {
		status, err := StatusFromString(*upd.Status)
		if err != nil {
			return err
		}
		t.Status = status
	}
	return nil
}

// TradeUpdate holds the optional fields of a partial trade edit.
// Nil fields are left unchanged.
type TradeUpdate struct {
	Date           *string  `json:"date,omitempty"`
	Ticker         *string  `json:"ticker,omitempty"`
	BuyPrice       *float64 `json:"buy_price,omitempty"`
	SellPrice      *float64 `json:"sell_price,omitempty"`
	Shares         *float64 `json:"shares,omitempty"`
	Risk           *float64 `json:"risk,omitempty"`
	RiskDollars    *float64 `json:"risk_dollars,omitempty"`
	AccountBalance *float64 `json:"account_balance,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	Status         *string  `json:"status,omitempty"`
}
