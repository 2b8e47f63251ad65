package equity

import "database/sql"

// CapitalSnapshotsSchema ensures the capital_snapshots table exists.
// Exactly one snapshot per (user, month) is meaningful.
const CapitalSnapshotsSchema = `
CREATE TABLE IF NOT EXISTS capital_snapshots (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    month TEXT NOT NULL,
    start_cap REAL NOT NULL,
    close_cap REAL,
    pct_return REAL,
    abs_return REAL,
    comments TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE(user_id, month)
);

CREATE INDEX IF NOT EXISTS idx_capital_snapshots_user ON capital_snapshots(user_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(CapitalSnapshotsSchema)
	return err
}
