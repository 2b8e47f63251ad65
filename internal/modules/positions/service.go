package positions

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/domain"
	"github.com/aristath/trade-journal/internal/modules/journal"
)

// Service persists position exits.
//
// The two-record write of a partial exit (new closed portion + reduced
// remainder) runs inside one transaction: either both records land or
// neither does. Share conservation is re-checked against the database before
// commit; a mismatch aborts as an inconsistent state rather than persisting.
type Service struct {
	db   *sql.DB
	repo *journal.Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService creates a new positions service
func NewService(db *sql.DB, repo *journal.Repository, log zerolog.Logger) *Service {
	return &Service{
		db:   db,
		repo: repo,
		log:  log.With().Str("service", "positions").Logger(),
		now:  time.Now,
	}
}

// ExitResult reports a persisted exit
type ExitResult struct {
	Closed    journal.Trade  `json:"closed"`
	Remainder *journal.Trade `json:"remainder,omitempty"`
	Message   string         `json:"message"`
}

// Exit locates the most recent open position for the requested ticker and
// applies the exit, splitting the position when the exit is partial.
func (s *Service) Exit(userID string, req ExitRequest) (*ExitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	open, err := s.repo.FindOpenByTicker(userID, req.Ticker)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, domain.NewValidationError("ticker",
			fmt.Sprintf("no open position found for %s", req.Ticker))
	}

	exitDate := s.now().UTC().Format("2006-01-02")

	result, err := Split(*open, req, exitDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin exit transaction: %w", err)
	}
	defer tx.Rollback()

	if result.Remainder == nil {
		// Full exit: close the original record in place
		if err := s.repo.CloseTx(tx, open.ID, req.SellPrice, exitDate, result.Closed.Notes, result.Closed.Shares); err != nil {
			return nil, err
		}
		result.Closed.ID = open.ID
	} else {
		if err := s.repo.CreateTx(tx, &result.Closed); err != nil {
			return nil, err
		}
		if err := s.repo.ReduceSharesTx(tx, open.ID, result.Remainder.Shares); err != nil {
			return nil, err
		}
		result.Remainder.ID = open.ID

		if err := s.verifyConservation(tx, open.Shares, result.Closed.ID, open.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit exit: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("ticker", req.Ticker).
		Float64("shares_exited", req.SharesToExit).
		Bool("partial", result.Remainder != nil).
		Msg("Position exited")

	message := fmt.Sprintf("Trade fully exited: %g shares of %s", req.SharesToExit, req.Ticker)
	if result.Remainder != nil {
		message = fmt.Sprintf("Partial exit successful: %g shares exited, %g shares remaining",
			req.SharesToExit, result.Remainder.Shares)
	}

	return &ExitResult{
		Closed:    result.Closed,
		Remainder: result.Remainder,
		Message:   message,
	}, nil
}

// verifyConservation re-reads both records inside the transaction and checks
// that the closed portion and the remainder still sum to the original share
// count. A failure here indicates a bug, not bad input, and aborts the split.
func (s *Service) verifyConservation(tx *sql.Tx, originalShares float64, closedID, remainderID string) error {
	closedShares, err := s.repo.GetSharesTx(tx, closedID)
	if err != nil {
		return err
	}
	remainderShares, err := s.repo.GetSharesTx(tx, remainderID)
	if err != nil {
		return err
	}

	if math.Abs(closedShares+remainderShares-originalShares) > sharesEpsilon {
		err := &domain.InconsistentStateError{
			Op: "position split",
			Detail: fmt.Sprintf("shares not conserved: %g + %g != %g",
				closedShares, remainderShares, originalShares),
		}
		s.log.Error().Err(err).Msg("Aborting position split")
		return err
	}

	return nil
}
