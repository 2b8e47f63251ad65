package fees

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles fee schedule database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new fee schedule repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "fees").Logger(),
	}
}

// GetByUser retrieves a user's fee schedule, falling back to defaults when
// none has been saved
func (r *Repository) GetByUser(userID string) (FeeSchedule, error) {
	query := `
		SELECT user_id, brokerage_pct, brokerage_max, exchange_pct, turnover_pct,
		       platform_fee, withdrawal_fee, amc_yearly, account_opening_fee,
		       tracking_charges, verification_fee, created_at, updated_at
		FROM fee_schedules
		WHERE user_id = ?
	`

	var schedule FeeSchedule
	var createdAt, updatedAt string

	err := r.db.QueryRow(query, userID).Scan(
		&schedule.UserID,
		&schedule.BrokeragePct,
		&schedule.BrokerageMax,
		&schedule.ExchangePct,
		&schedule.TurnoverPct,
		&schedule.PlatformFee,
		&schedule.WithdrawalFee,
		&schedule.AMCYearly,
		&schedule.AccountOpening,
		&schedule.TrackingCharges,
		&schedule.VerificationFee,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSchedule(userID), nil
	}
	if err != nil {
		return FeeSchedule{}, fmt.Errorf("failed to get fee schedule: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		schedule.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		schedule.UpdatedAt = t
	}

	return schedule, nil
}

// Save writes a user's fee schedule, replacing any existing one in full
func (r *Repository) Save(schedule FeeSchedule) error {
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO fee_schedules
		(user_id, brokerage_pct, brokerage_max, exchange_pct, turnover_pct,
		 platform_fee, withdrawal_fee, amc_yearly, account_opening_fee,
		 tracking_charges, verification_fee, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
		    brokerage_pct = excluded.brokerage_pct,
		    brokerage_max = excluded.brokerage_max,
		    exchange_pct = excluded.exchange_pct,
		    turnover_pct = excluded.turnover_pct,
		    platform_fee = excluded.platform_fee,
		    withdrawal_fee = excluded.withdrawal_fee,
		    amc_yearly = excluded.amc_yearly,
		    account_opening_fee = excluded.account_opening_fee,
		    tracking_charges = excluded.tracking_charges,
		    verification_fee = excluded.verification_fee,
		    updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		schedule.UserID,
		schedule.BrokeragePct,
		schedule.BrokerageMax,
		schedule.ExchangePct,
		schedule.TurnoverPct,
		schedule.PlatformFee,
		schedule.WithdrawalFee,
		schedule.AMCYearly,
		schedule.AccountOpening,
		schedule.TrackingCharges,
		schedule.VerificationFee,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save fee schedule: %w", err)
	}

	r.log.Info().Str("user_id", schedule.UserID).Msg("Fee schedule saved")
	return nil
}
