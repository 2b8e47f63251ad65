package fees

import "database/sql"

// FeeSchedulesSchema ensures the fee_schedules table exists.
// Keyed by user: one schedule per user, overwritten on save.
const FeeSchedulesSchema = `
CREATE TABLE IF NOT EXISTS fee_schedules (
    user_id TEXT PRIMARY KEY,
    brokerage_pct REAL NOT NULL,
    brokerage_max REAL NOT NULL,
    exchange_pct REAL NOT NULL,
    turnover_pct REAL NOT NULL,
    platform_fee REAL NOT NULL,
    withdrawal_fee REAL NOT NULL,
    amc_yearly REAL NOT NULL,
    account_opening_fee REAL NOT NULL,
    tracking_charges REAL NOT NULL,
    verification_fee REAL NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(FeeSchedulesSchema)
	return err
}
