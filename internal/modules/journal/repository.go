package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository handles trade database operations.
//
// The two-record write of a partial exit goes through the Tx variants so the
// positions module can make the split atomic.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new trade repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "journal").Logger(),
	}
}

const tradeColumns = `id, user_id, date, exit_date, ticker, buy_price, sell_price,
	shares, risk, risk_dollars, account_balance, notes, status, created_at, updated_at`

// Create inserts a new trade record, assigning an id if absent
func (r *Repository) Create(trade *Trade) error {
	return r.create(r.db, trade)
}

// CreateTx inserts a new trade record within an existing transaction
func (r *Repository) CreateTx(tx *sql.Tx, trade *Trade) error {
	return r.create(tx, trade)
}

// execer abstracts *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (r *Repository) create(db execer, trade *Trade) error {
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = now
	}
	trade.UpdatedAt = now

	query := `
		INSERT INTO trades (` + tradeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		trade.ID,
		trade.UserID,
		trade.Date,
		nullString(trade.ExitDate),
		strings.ToUpper(strings.TrimSpace(trade.Ticker)),
		nullFloat64Ptr(trade.BuyPrice),
		nullFloat64Ptr(trade.SellPrice),
		trade.Shares,
		nullFloat64Ptr(trade.Risk),
		nullFloat64Ptr(trade.RiskDollars),
		nullFloat64Ptr(trade.AccountBalance),
		nullString(trade.Notes),
		string(trade.Status),
		trade.CreatedAt.Format(time.RFC3339),
		trade.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	r.log.Info().
		Str("trade_id", trade.ID).
		Str("ticker", trade.Ticker).
		Float64("shares", trade.Shares).
		Str("status", string(trade.Status)).
		Msg("Trade created")

	return nil
}

// GetByID retrieves a trade by id, (nil, nil) when not found
func (r *Repository) GetByID(id string) (*Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = ?`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get trade: %w", err)
		}
		return nil, nil
	}

	trade, err := scanTrade(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trade: %w", err)
	}
	return &trade, nil
}

// ListByUser retrieves a user's trades, oldest first, optionally restricted to
// an inclusive [from, to] date range. Closed trades count under their exit
// date when recorded, matching how realized results are reported.
func (r *Repository) ListByUser(userID, from, to string) ([]Trade, error) {
	query := `
		SELECT ` + tradeColumns + ` FROM trades
		WHERE user_id = ?
		  AND (? = '' OR CASE WHEN status = 'closed' AND exit_date IS NOT NULL THEN exit_date ELSE date END >= ?)
		  AND (? = '' OR CASE WHEN status = 'closed' AND exit_date IS NOT NULL THEN exit_date ELSE date END <= ?)
		ORDER BY date ASC, created_at ASC
	`

	rows, err := r.db.Query(query, userID, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// FindOpenByTicker locates the most recent open position for a ticker.
// The journal keeps at most one open lot per ticker in practice; when more
// exist the newest entry wins.
func (r *Repository) FindOpenByTicker(userID, ticker string) (*Trade, error) {
	query := `
		SELECT ` + tradeColumns + ` FROM trades
		WHERE user_id = ? AND ticker = ? AND status = 'open'
		ORDER BY date DESC, created_at DESC
		LIMIT 1
	`

	rows, err := r.db.Query(query, userID, strings.ToUpper(strings.TrimSpace(ticker)))
	if err != nil {
		return nil, fmt.Errorf("failed to find open position: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to find open position: %w", err)
		}
		return nil, nil
	}

	trade, err := scanTrade(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trade: %w", err)
	}
	return &trade, nil
}

// Replace persists the full state of an edited trade. Callers merge the edit
// into the stored record and re-validate it first; writing whole records keeps
// the status/price invariants checkable before anything hits the database.
func (r *Repository) Replace(trade *Trade) error {
	trade.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE trades
		SET date = ?, exit_date = ?, ticker = ?, buy_price = ?, sell_price = ?,
		    shares = ?, risk = ?, risk_dollars = ?, account_balance = ?,
		    notes = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		trade.Date,
		nullString(trade.ExitDate),
		strings.ToUpper(strings.TrimSpace(trade.Ticker)),
		nullFloat64Ptr(trade.BuyPrice),
		nullFloat64Ptr(trade.SellPrice),
		trade.Shares,
		nullFloat64Ptr(trade.Risk),
		nullFloat64Ptr(trade.RiskDollars),
		nullFloat64Ptr(trade.AccountBalance),
		nullString(trade.Notes),
		string(trade.Status),
		trade.UpdatedAt.Format(time.RFC3339),
		trade.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	if affected == 0 {
		return ErrTradeNotFound
	}

	r.log.Info().Str("trade_id", trade.ID).Msg("Trade updated")
	return nil
}

// ErrTradeNotFound is returned when an operation targets a missing trade
var ErrTradeNotFound = errors.New("trade not found")

// Delete removes a trade record
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM trades WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if affected == 0 {
		return ErrTradeNotFound
	}

	r.log.Info().Str("trade_id", id).Msg("Trade deleted")
	return nil
}

// CloseTx marks a trade closed in place: the full-exit transition.
// Shares are set to the exited quantity, which equals the full remaining
// quantity on this path.
func (r *Repository) CloseTx(tx *sql.Tx, id string, sellPrice float64, exitDate, notes string, shares float64) error {
	query := `
		UPDATE trades
		SET sell_price = ?, status = 'closed', exit_date = ?, notes = ?, shares = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := tx.Exec(query, sellPrice, exitDate, notes, shares,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to close trade: %w", err)
	}
	return nil
}

// ReduceSharesTx shrinks an open position to its post-split remainder.
// Entry price and risk fields are deliberately untouched.
func (r *Repository) ReduceSharesTx(tx *sql.Tx, id string, shares float64) error {
	query := `UPDATE trades SET shares = ?, updated_at = ? WHERE id = ?`

	_, err := tx.Exec(query, shares, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to reduce position shares: %w", err)
	}
	return nil
}

// GetSharesTx reads a trade's share count inside a transaction, used to verify
// share conservation before committing a split.
func (r *Repository) GetSharesTx(tx *sql.Tx, id string) (float64, error) {
	var shares float64
	err := tx.QueryRow("SELECT shares FROM trades WHERE id = ?", id).Scan(&shares)
	if err != nil {
		return 0, fmt.Errorf("failed to read position shares: %w", err)
	}
	return shares, nil
}

// scanTrade scans one trade row
func scanTrade(rows *sql.Rows) (Trade, error) {
	var trade Trade
	var exitDate, notes, createdAt, updatedAt sql.NullString
	var buyPrice, sellPrice, risk, riskDollars, accountBalance sql.NullFloat64
	var status string

	err := rows.Scan(
		&trade.ID,
		&trade.UserID,
		&trade.Date,
		&exitDate,
		&trade.Ticker,
		&buyPrice,
		&sellPrice,
		&trade.Shares,
		&risk,
		&riskDollars,
		&accountBalance,
		&notes,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return trade, err
	}

	trade.Status = TradeStatus(status)
	if exitDate.Valid {
		trade.ExitDate = exitDate.String
	}
	if notes.Valid {
		trade.Notes = notes.String
	}
	if buyPrice.Valid {
		trade.BuyPrice = &buyPrice.Float64
	}
	if sellPrice.Valid {
		trade.SellPrice = &sellPrice.Float64
	}
	if risk.Valid {
		trade.Risk = &risk.Float64
	}
	if riskDollars.Valid {
		trade.RiskDollars = &riskDollars.Float64
	}
	if accountBalance.Valid {
		trade.AccountBalance = &accountBalance.Float64
	}
	if createdAt.Valid {
		if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
			trade.CreatedAt = t
		}
	}
	if updatedAt.Valid {
		if t, err := time.Parse(time.RFC3339, updatedAt.String); err == nil {
			trade.UpdatedAt = t
		}
	}

	trade.Ticker = strings.ToUpper(strings.TrimSpace(trade.Ticker))

	return trade, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat64Ptr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
