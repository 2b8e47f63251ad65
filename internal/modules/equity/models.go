package equity

import (
	"time"

	"github.com/aristath/trade-journal/internal/domain"
)

// CapitalSnapshot is a user-declared start/end capital for a calendar month,
// independent of trade records. One snapshot per (user, month).
type CapitalSnapshot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Month     string    `json:"month"` // YYYY-MM
	StartCap  float64   `json:"start_cap"`
	CloseCap  *float64  `json:"close_cap,omitempty"`
	PctReturn *float64  `json:"percentage_return,omitempty"` // Derived unless explicitly supplied
	AbsReturn *float64  `json:"dollar_return,omitempty"`     // Derived unless explicitly supplied
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Validate checks snapshot fields
func (s *CapitalSnapshot) Validate() error {
	if s.Month == "" {
		return domain.NewValidationError("month", "is required")
	}
	if _, err := time.Parse("2006-01", s.Month); err != nil {
		return domain.NewValidationError("month", "must be YYYY-MM")
	}
	if s.StartCap <= 0 {
		return domain.NewValidationError("start_cap", "must be a positive number")
	}
	return nil
}

// DeriveReturns fills in the percentage and absolute return from the recorded
// capitals when an end capital is present. Explicitly supplied figures are
// kept as overrides.
func (s *CapitalSnapshot) DeriveReturns() {
	if s.CloseCap == nil {
		return
	}
	if s.PctReturn == nil {
		pct := (*s.CloseCap - s.StartCap) / s.StartCap * 100
		s.PctReturn = &pct
	}
	if s.AbsReturn == nil {
		abs := *s.CloseCap - s.StartCap
		s.AbsReturn = &abs
	}
}

// PointKind tags an equity curve point by its origin
type PointKind string

const (
	PointMonthStart PointKind = "month_start"
	PointMonthEnd   PointKind = "month_end"
	PointCurrent    PointKind = "current"
)

// EquityPoint is one plotted point of the combined equity curve
type EquityPoint struct {
	Date  string    `json:"date"` // YYYY-MM-DD
	Value float64   `json:"value"`
	Kind  PointKind `json:"kind"`
}
