package equity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/trade-journal/internal/modules/journal"
)

func floatPtr(v float64) *float64 { return &v }

func snapshot(month string, startCap float64, closeCap *float64) CapitalSnapshot {
	return CapitalSnapshot{
		UserID:   "user-1",
		Month:    month,
		StartCap: startCap,
		CloseCap: closeCap,
	}
}

func TestComposeEmptyWithoutSnapshots(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	points := Compose(nil, nil, today)
	assert.NotNil(t, points)
	assert.Empty(t, points, "no snapshots yields an empty curve, not a flat one")
}

func TestComposeClosedMonths(t *testing.T) {
	today := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	snapshots := []CapitalSnapshot{
		snapshot("2024-02", 10000, floatPtr(11000)),
		snapshot("2024-01", 9000, floatPtr(10000)),
	}

	points := Compose(snapshots, nil, today)
	require.Len(t, points, 4)

	// Chronological regardless of input order
	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.Equal(t, PointMonthStart, points[0].Kind)
	assert.Equal(t, 9000.0, points[0].Value)

	assert.Equal(t, "2024-01-31", points[1].Date)
	assert.Equal(t, PointMonthEnd, points[1].Kind)
	assert.Equal(t, 10000.0, points[1].Value)

	assert.Equal(t, "2024-02-01", points[2].Date)
	assert.Equal(t, "2024-02-29", points[3].Date, "leap February ends on the 29th")
	assert.Equal(t, 11000.0, points[3].Value)
}

func TestComposeLivePointForCurrentMonth(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	snapshots := []CapitalSnapshot{snapshot("2024-03", 10000, nil)}

	trades := []journal.Trade{
		{
			UserID:    "user-1",
			Date:      "2024-03-05",
			ExitDate:  "2024-03-05",
			Ticker:    "AAPL",
			BuyPrice:  floatPtr(100),
			SellPrice: floatPtr(150),
			Shares:    10,
			Status:    journal.StatusClosed,
		},
		{
			// Closed in February, outside the live month
			UserID:    "user-1",
			Date:      "2024-02-10",
			ExitDate:  "2024-02-10",
			Ticker:    "MSFT",
			BuyPrice:  floatPtr(100),
			SellPrice: floatPtr(200),
			Shares:    10,
			Status:    journal.StatusClosed,
		},
		{
			// Still open, contributes nothing
			UserID:   "user-1",
			Date:     "2024-03-10",
			Ticker:   "NVDA",
			BuyPrice: floatPtr(100),
			Shares:   10,
			Status:   journal.StatusOpen,
		},
	}

	points := Compose(snapshots, trades, today)
	require.Len(t, points, 2)

	assert.Equal(t, "2024-03-01", points[0].Date)
	assert.Equal(t, 10000.0, points[0].Value)

	live := points[1]
	assert.Equal(t, "2024-03-15", live.Date)
	assert.Equal(t, PointCurrent, live.Kind)
	assert.Equal(t, 10500.0, live.Value, "start capital plus month-to-date realized")
}

func TestComposePastMonthWithoutCloseHasNoLivePoint(t *testing.T) {
	today := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	snapshots := []CapitalSnapshot{snapshot("2024-03", 10000, nil)}

	points := Compose(snapshots, nil, today)
	require.Len(t, points, 1)
	assert.Equal(t, PointMonthStart, points[0].Kind)
}

func TestDeriveReturns(t *testing.T) {
	t.Run("derived from capitals", func(t *testing.T) {
		s := snapshot("2024-01", 10000, floatPtr(11000))
		s.DeriveReturns()

		require.NotNil(t, s.PctReturn)
		assert.InDelta(t, 10.0, *s.PctReturn, 1e-9)
		require.NotNil(t, s.AbsReturn)
		assert.InDelta(t, 1000.0, *s.AbsReturn, 1e-9)
	})

	t.Run("explicit figures kept", func(t *testing.T) {
		s := snapshot("2024-01", 10000, floatPtr(11000))
		s.PctReturn = floatPtr(9.5)
		s.DeriveReturns()

		assert.Equal(t, 9.5, *s.PctReturn)
		require.NotNil(t, s.AbsReturn)
		assert.InDelta(t, 1000.0, *s.AbsReturn, 1e-9)
	})

	t.Run("open month untouched", func(t *testing.T) {
		s := snapshot("2024-01", 10000, nil)
		s.DeriveReturns()

		assert.Nil(t, s.PctReturn)
		assert.Nil(t, s.AbsReturn)
	})
}

func TestCapitalSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CapitalSnapshot)
		wantErr bool
	}{
		{"valid", func(s *CapitalSnapshot) {}, false},
		{"empty month", func(s *CapitalSnapshot) { s.Month = "" }, true},
		{"malformed month", func(s *CapitalSnapshot) { s.Month = "2024-3" }, true},
		{"full date not a month", func(s *CapitalSnapshot) { s.Month = "2024-03-01" }, true},
		{"zero start capital", func(s *CapitalSnapshot) { s.StartCap = 0 }, true},
		{"negative start capital", func(s *CapitalSnapshot) { s.StartCap = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot("2024-03", 10000, nil)
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
