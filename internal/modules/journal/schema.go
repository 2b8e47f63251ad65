package journal

import "database/sql"

// TradesSchema ensures the trades table exists
const TradesSchema = `
CREATE TABLE IF NOT EXISTS trades (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    exit_date TEXT,
    ticker TEXT NOT NULL,
    buy_price REAL,
    sell_price REAL,
    shares REAL NOT NULL,
    risk REAL,
    risk_dollars REAL,
    account_balance REAL,
    notes TEXT,
    status TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);
CREATE INDEX IF NOT EXISTS idx_trades_user_ticker ON trades(user_id, ticker, status);
CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(TradesSchema)
	return err
}
