package journal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*Handler, *Repository) {
	t.Helper()

	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	handler := NewHandler(repo, 10000, zerolog.Nop())

	return handler, repo
}

func newRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/", h.HandleAddTrade)
	r.Get("/{userID}", h.HandleGetTrades)
	r.Put("/{id}", h.HandleUpdateTrade)
	r.Delete("/{id}", h.HandleDeleteTrade)
	return r
}

func TestHandleAddTrade(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	body := map[string]interface{}{
		"user_id":   "user-1",
		"date":      "2024-03-01",
		"ticker":    "aapl",
		"buy_price": 100.0,
		"shares":    10.0,
		"risk":      2.0,
		"status":    "open",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	tradeID, _ := resp["trade_id"].(string)
	require.NotEmpty(t, tradeID)

	got, err := repo.GetByID(tradeID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AAPL", got.Ticker)
	require.NotNil(t, got.RiskDollars, "risk dollars derived from percentage and default balance")
	assert.InDelta(t, 200.0, *got.RiskDollars, 1e-9)
}

func TestHandleAddTradeValidation(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	router := newRouter(handler)

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantCode  int
		wantField string
	}{
		{
			"missing user",
			map[string]interface{}{
				"date": "2024-03-01", "ticker": "AAPL", "buy_price": 100.0,
				"shares": 10.0, "risk": 2.0, "status": "open",
			},
			http.StatusUnprocessableEntity, "user_id",
		},
		{
			"negative shares",
			map[string]interface{}{
				"user_id": "user-1", "date": "2024-03-01", "ticker": "AAPL",
				"buy_price": 100.0, "shares": -5.0, "risk": 2.0, "status": "open",
			},
			http.StatusUnprocessableEntity, "shares",
		},
		{
			"open trade with sell price",
			map[string]interface{}{
				"user_id": "user-1", "date": "2024-03-01", "ticker": "AAPL",
				"buy_price": 100.0, "sell_price": 110.0, "shares": 10.0,
				"risk": 2.0, "status": "open",
			},
			http.StatusUnprocessableEntity, "sell_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantField, resp["field"])
		})
	}
}

func TestHandleGetTrades(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	seedTrade(t, repo, func(tr *Trade) { tr.Date = "2024-01-10" })
	seedTrade(t, repo, func(tr *Trade) { tr.Date = "2024-02-10"; tr.Ticker = "MSFT" })

	req := httptest.NewRequest(http.MethodGet, "/user-1?from=2024-02-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Trades []Trade `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Trades, 1)
	assert.Equal(t, "MSFT", resp.Trades[0].Ticker)
}

func TestHandleGetTradesEmptyIsArray(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	router := newRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/user-with-no-trades", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trades":[]`)
}

func TestHandleGetTradesBadDate(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	router := newRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/user-1?from=03-01-2024", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateTrade(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	trade := seedTrade(t, repo, func(tr *Trade) {})

	payload := []byte(`{"notes": "revised thesis"}`)
	req := httptest.NewRequest(http.MethodPut, "/"+trade.ID, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	got, err := repo.GetByID(trade.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised thesis", got.Notes)
}

func TestHandleUpdateTradeRejectsCloseWithoutSellPrice(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	trade := seedTrade(t, repo, func(tr *Trade) {})

	req := httptest.NewRequest(http.MethodPut, "/"+trade.ID, bytes.NewReader([]byte(`{"status":"closed"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sell_price", resp["field"])

	got, err := repo.GetByID(trade.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, got.Status, "invalid edit leaves the record untouched")
	assert.Nil(t, got.SellPrice)
}

func TestHandleUpdateTradeCloseWithSellPrice(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	trade := seedTrade(t, repo, func(tr *Trade) {})

	payload := []byte(`{"status": "closed", "sell_price": 120}`)
	req := httptest.NewRequest(http.MethodPut, "/"+trade.ID, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	got, err := repo.GetByID(trade.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got.Status)
	require.NotNil(t, got.SellPrice)
	assert.Equal(t, 120.0, *got.SellPrice)
}

func TestHandleUpdateTradeRejectsNonPositiveShares(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	trade := seedTrade(t, repo, func(tr *Trade) {})

	req := httptest.NewRequest(http.MethodPut, "/"+trade.ID, bytes.NewReader([]byte(`{"shares": -5}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "shares", resp["field"])
}

func TestHandleUpdateTradeRederivesRisk(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	// Seeded with a risk percentage only, no derived dollar amount yet
	trade := seedTrade(t, repo, func(tr *Trade) {})
	require.Nil(t, trade.RiskDollars)

	req := httptest.NewRequest(http.MethodPut, "/"+trade.ID, bytes.NewReader([]byte(`{"risk": 3}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	got, err := repo.GetByID(trade.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Risk)
	assert.Equal(t, 3.0, *got.Risk)
	require.NotNil(t, got.RiskDollars, "missing risk field derived on update")
	assert.InDelta(t, 300.0, *got.RiskDollars, 1e-9)
}

func TestHandleUpdateTradeNotFound(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	router := newRouter(handler)

	req := httptest.NewRequest(http.MethodPut, "/nonexistent", bytes.NewReader([]byte(`{"notes":"x"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDeleteTrade(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	router := newRouter(handler)

	trade := seedTrade(t, repo, func(tr *Trade) {})

	req := httptest.NewRequest(http.MethodDelete, "/"+trade.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	got, err := repo.GetByID(trade.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
