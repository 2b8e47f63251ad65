package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/trade-journal/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func validOpenTrade() Trade {
	return Trade{
		UserID:   "user-1",
		Date:     "2024-03-01",
		Ticker:   "aapl",
		BuyPrice: floatPtr(100),
		Shares:   10,
		Risk:     floatPtr(2),
		Status:   StatusOpen,
	}
}

func TestTradeValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Trade)
		wantField string
	}{
		{"valid open trade", func(tr *Trade) {}, ""},
		{"valid closed trade", func(tr *Trade) {
			tr.Status = StatusClosed
			tr.SellPrice = floatPtr(110)
		}, ""},
		{"closed without buy price is allowed", func(tr *Trade) {
			tr.Status = StatusClosed
			tr.BuyPrice = nil
			tr.SellPrice = floatPtr(110)
		}, ""},
		{"empty ticker", func(tr *Trade) { tr.Ticker = "  " }, "ticker"},
		{"zero shares", func(tr *Trade) { tr.Shares = 0 }, "shares"},
		{"negative shares", func(tr *Trade) { tr.Shares = -1 }, "shares"},
		{"bad status", func(tr *Trade) { tr.Status = "pending" }, "status"},
		{"open without buy price", func(tr *Trade) { tr.BuyPrice = nil }, "buy_price"},
		{"open with sell price", func(tr *Trade) { tr.SellPrice = floatPtr(110) }, "sell_price"},
		{"closed without sell price", func(tr *Trade) {
			tr.Status = StatusClosed
		}, "sell_price"},
		{"no risk recorded", func(tr *Trade) {
			tr.Risk = nil
			tr.RiskDollars = nil
		}, "risk"},
		{"risk dollars alone suffices", func(tr *Trade) {
			tr.Risk = nil
			tr.RiskDollars = floatPtr(200)
		}, ""},
		{"empty date", func(tr *Trade) { tr.Date = "" }, "date"},
		{"malformed date", func(tr *Trade) { tr.Date = "03/01/2024" }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := validOpenTrade()
			tt.mutate(&trade)

			err := trade.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestTradeValidateNormalizesTicker(t *testing.T) {
	trade := validOpenTrade()
	trade.Ticker = "  msft "

	require.NoError(t, trade.Validate())
	assert.Equal(t, "MSFT", trade.Ticker)
}

func TestEffectiveDate(t *testing.T) {
	trade := validOpenTrade()
	assert.Equal(t, "2024-03-01", trade.EffectiveDate())

	trade.Status = StatusClosed
	trade.SellPrice = floatPtr(110)
	assert.Equal(t, "2024-03-01", trade.EffectiveDate(), "closed without exit date falls back to entry date")

	trade.ExitDate = "2024-04-15"
	assert.Equal(t, "2024-04-15", trade.EffectiveDate())
}

func TestDeriveRisk(t *testing.T) {
	t.Run("dollars from percentage", func(t *testing.T) {
		trade := validOpenTrade()
		trade.Risk = floatPtr(2)

		trade.DeriveRisk(10000)

		require.NotNil(t, trade.RiskDollars)
		assert.InDelta(t, 200.0, *trade.RiskDollars, 1e-9)
	})

	t.Run("percentage from dollars", func(t *testing.T) {
		trade := validOpenTrade()
		trade.Risk = nil
		trade.RiskDollars = floatPtr(500)

		trade.DeriveRisk(10000)

		require.NotNil(t, trade.Risk)
		assert.InDelta(t, 5.0, *trade.Risk, 1e-9)
	})

	t.Run("trade balance wins over default", func(t *testing.T) {
		trade := validOpenTrade()
		trade.Risk = floatPtr(2)
		trade.AccountBalance = floatPtr(50000)

		trade.DeriveRisk(10000)

		require.NotNil(t, trade.RiskDollars)
		assert.InDelta(t, 1000.0, *trade.RiskDollars, 1e-9)
	})

	t.Run("both present left untouched", func(t *testing.T) {
		trade := validOpenTrade()
		trade.Risk = floatPtr(2)
		trade.RiskDollars = floatPtr(999)

		trade.DeriveRisk(10000)
		assert.Equal(t, 999.0, *trade.RiskDollars)
	})

	t.Run("no usable balance leaves trade untouched", func(t *testing.T) {
		trade := validOpenTrade()
		trade.Risk = floatPtr(2)

		trade.DeriveRisk(0)
		assert.Nil(t, trade.RiskDollars)
	})
}

func TestTradeApply(t *testing.T) {
	t.Run("nil fields unchanged", func(t *testing.T) {
		trade := validOpenTrade()
		notes := "revised"

		require.NoError(t, trade.Apply(TradeUpdate{Notes: &notes}))

		assert.Equal(t, "revised", trade.Notes)
		assert.Equal(t, "aapl", trade.Ticker)
		assert.Equal(t, 10.0, trade.Shares)
		assert.Equal(t, StatusOpen, trade.Status)
	})

	t.Run("status flip", func(t *testing.T) {
		trade := validOpenTrade()
		status := "closed"
		sell := 120.0

		require.NoError(t, trade.Apply(TradeUpdate{Status: &status, SellPrice: &sell}))

		assert.Equal(t, StatusClosed, trade.Status)
		require.NotNil(t, trade.SellPrice)
		assert.Equal(t, 120.0, *trade.SellPrice)
	})

	t.Run("bad status rejected", func(t *testing.T) {
		trade := validOpenTrade()
		bad := "pending"

		err := trade.Apply(TradeUpdate{Status: &bad})
		assert.True(t, domain.IsValidation(err))
		assert.Equal(t, StatusOpen, trade.Status)
	})
}

func TestTradeApplyThenValidateCatchesCloseWithoutSellPrice(t *testing.T) {
	// An edit that flips status to closed without supplying a sell price
	// leaves the merged record invalid; validation must catch it before
	// anything is persisted.
	trade := validOpenTrade()
	status := "closed"

	require.NoError(t, trade.Apply(TradeUpdate{Status: &status}))

	var vErr *domain.ValidationError
	require.ErrorAs(t, trade.Validate(), &vErr)
	assert.Equal(t, "sell_price", vErr.Field)
}

func TestStatusFromString(t *testing.T) {
	status, err := StatusFromString(" Open ")
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, status)

	status, err = StatusFromString("CLOSED")
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, status)

	_, err = StatusFromString("pending")
	assert.Error(t, err)
}
