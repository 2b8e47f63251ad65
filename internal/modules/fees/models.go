package fees

import (
	"time"

	"github.com/aristath/trade-journal/internal/domain"
)

// FeeSchedule is a user's multi-component fee configuration. One schedule per
// user, saved with overwrite semantics (no partial-field merge).
//
// The per-trade components (brokerage, exchange, turnover, platform) apply to
// each leg of a trade. The account-level flat fees are informational and not
// applied per-trade.
type FeeSchedule struct {
	UserID          string    `json:"user_id"`
	BrokeragePct    float64   `json:"brokerage_percentage"`        // Percentage of leg notional
	BrokerageMax    float64   `json:"brokerage_max"`               // Absolute cap on brokerage per leg
	ExchangePct     float64   `json:"exchange_charges_percentage"` // Exchange transaction charges
	TurnoverPct     float64   `json:"turnover_fees_percentage"`    // Regulatory turnover fees
	PlatformFee     float64   `json:"platform_fee"`                // Flat, per transaction leg
	WithdrawalFee   float64   `json:"withdrawal_fee"`              // Informational
	AMCYearly       float64   `json:"amc_yearly"`                  // Annual maintenance charges
	AccountOpening  float64   `json:"account_opening_fee"`         // One-time
	TrackingCharges float64   `json:"tracking_charges"`            // Monthly
	VerificationFee float64   `json:"profile_verification_fee"`    // One-time KYC
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// maxBrokeragePct bounds the brokerage rate a user may configure
const maxBrokeragePct = 10.0

// DefaultSchedule returns the fee schedule applied when a user has not saved one
func DefaultSchedule(userID string) FeeSchedule {
	return FeeSchedule{
		UserID:       userID,
		BrokeragePct: 0.25,
		BrokerageMax: 25.0,
		ExchangePct:  0.12,
		TurnoverPct:  0.0001,
	}
}

// Validate checks rate bounds and fee signs
func (f *FeeSchedule) Validate() error {
	if f.BrokeragePct < 0 || f.BrokeragePct > maxBrokeragePct {
		return domain.NewValidationError("brokerage_percentage", "must be between 0% and 10%")
	}
	if f.BrokerageMax < 0 {
		return domain.NewValidationError("brokerage_max", "cannot be negative")
	}
	if f.ExchangePct < 0 {
		return domain.NewValidationError("exchange_charges_percentage", "cannot be negative")
	}
	if f.TurnoverPct < 0 {
		return domain.NewValidationError("turnover_fees_percentage", "cannot be negative")
	}

	flat := map[string]float64{
		"platform_fee":             f.PlatformFee,
		"withdrawal_fee":           f.WithdrawalFee,
		"amc_yearly":               f.AMCYearly,
		"account_opening_fee":      f.AccountOpening,
		"tracking_charges":         f.TrackingCharges,
		"profile_verification_fee": f.VerificationFee,
	}
	for field, value := range flat {
		if value < 0 {
			return domain.NewValidationError(field, "cannot be negative")
		}
	}

	return nil
}
