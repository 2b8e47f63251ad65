package equity

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSnapshotNotFound is returned when an operation targets a missing snapshot
var ErrSnapshotNotFound = errors.New("capital snapshot not found")

// Repository handles capital snapshot database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new capital snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "equity").Logger(),
	}
}

// ListByUser retrieves a user's snapshots ordered by month
func (r *Repository) ListByUser(userID string) ([]CapitalSnapshot, error) {
	query := `
		SELECT id, user_id, month, start_cap, close_cap, pct_return, abs_return,
		       comments, created_at, updated_at
		FROM capital_snapshots
		WHERE user_id = ?
		ORDER BY month ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list capital snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []CapitalSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capital snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating capital snapshots: %w", err)
	}

	return snapshots, nil
}

// Upsert creates or replaces the snapshot for (user, month)
func (r *Repository) Upsert(snapshot *CapitalSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = now

	query := `
		INSERT INTO capital_snapshots
		(id, user_id, month, start_cap, close_cap, pct_return, abs_return,
		 comments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, month) DO UPDATE SET
		    start_cap = excluded.start_cap,
		    close_cap = excluded.close_cap,
		    pct_return = excluded.pct_return,
		    abs_return = excluded.abs_return,
		    comments = excluded.comments,
		    updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.Month,
		snapshot.StartCap,
		nullFloat64Ptr(snapshot.CloseCap),
		nullFloat64Ptr(snapshot.PctReturn),
		nullFloat64Ptr(snapshot.AbsReturn),
		snapshot.Comments,
		snapshot.CreatedAt.Format(time.RFC3339),
		snapshot.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save capital snapshot: %w", err)
	}

	// On conflict the stored row keeps its original id, not the freshly
	// generated one; read it back so callers always report the persisted id.
	err = r.db.QueryRow(
		"SELECT id FROM capital_snapshots WHERE user_id = ? AND month = ?",
		snapshot.UserID, snapshot.Month,
	).Scan(&snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to read back capital snapshot id: %w", err)
	}

	r.log.Info().
		Str("user_id", snapshot.UserID).
		Str("month", snapshot.Month).
		Msg("Capital snapshot saved")

	return nil
}

// Delete removes a snapshot by id
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM capital_snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete capital snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete capital snapshot: %w", err)
	}
	if affected == 0 {
		return ErrSnapshotNotFound
	}

	r.log.Info().Str("snapshot_id", id).Msg("Capital snapshot deleted")
	return nil
}

func scanSnapshot(rows *sql.Rows) (CapitalSnapshot, error) {
	var snapshot CapitalSnapshot
	var closeCap, pctReturn, absReturn sql.NullFloat64
	var comments, createdAt, updatedAt sql.NullString

	err := rows.Scan(
		&snapshot.ID,
		&snapshot.UserID,
		&snapshot.Month,
		&snapshot.StartCap,
		&closeCap,
		&pctReturn,
		&absReturn,
		&comments,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return snapshot, err
	}

	if closeCap.Valid {
		snapshot.CloseCap = &closeCap.Float64
	}
	if pctReturn.Valid {
		snapshot.PctReturn = &pctReturn.Float64
	}
	if absReturn.Valid {
		snapshot.AbsReturn = &absReturn.Float64
	}
	if comments.Valid {
		snapshot.Comments = comments.String
	}
	if createdAt.Valid {
		if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
			snapshot.CreatedAt = t
		}
	}
	if updatedAt.Valid {
		if t, err := time.Parse(time.RFC3339, updatedAt.String); err == nil {
			snapshot.UpdatedAt = t
		}
	}

	return snapshot, nil
}

func nullFloat64Ptr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
