package journal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/domain"
)

// Handler handles trade HTTP requests
type Handler struct {
	repo           *Repository
	defaultBalance float64
	log            zerolog.Logger
}

// NewHandler creates a new journal handler
func NewHandler(repo *Repository, defaultBalance float64, log zerolog.Logger) *Handler {
	return &Handler{
		repo:           repo,
		defaultBalance: defaultBalance,
		log:            log.With().Str("handler", "journal").Logger(),
	}
}

// HandleAddTrade handles POST / - create a trade record
func (h *Handler) HandleAddTrade(w http.ResponseWriter, r *http.Request) {
	var trade Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if trade.UserID == "" {
		writeValidationError(w, domain.NewValidationError("user_id", "cannot be empty"))
		return
	}

	if err := trade.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	trade.DeriveRisk(h.defaultBalance)

	if err := h.repo.Create(&trade); err != nil {
		h.log.Error().Err(err).Msg("Failed to create trade")
		http.Error(w, "Failed to create trade", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Trade added successfully",
		"trade_id": trade.ID,
	})
}

// HandleGetTrades handles GET /{userID} - list trades with optional date range
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from != "" && !isValidDate(from) {
		http.Error(w, "Invalid from date. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if to != "" && !isValidDate(to) {
		http.Error(w, "Invalid to date. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	trades, err := h.repo.ListByUser(userID, from, to)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list trades")
		http.Error(w, "Failed to retrieve trades", http.StatusInternalServerError)
		return
	}

	if trades == nil {
		trades = []Trade{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"trades": trades})
}

// HandleUpdateTrade handles PUT /{id} - partial edit of a trade.
// The edit is merged into the stored record and the merged result must still
// satisfy the status/price invariants, so closing a trade through an edit
// requires a sell price just like creating it closed would.
func (h *Handler) HandleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd TradeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Str("trade_id", id).Msg("Failed to load trade for update")
		http.Error(w, "Failed to update trade", http.StatusInternalServerError)
		return
	}
	if trade == nil {
		http.Error(w, "Trade not found", http.StatusNotFound)
		return
	}

	if err := trade.Apply(upd); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := trade.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	trade.DeriveRisk(h.defaultBalance)

	if err := h.repo.Replace(trade); err != nil {
		if errors.Is(err, ErrTradeNotFound) {
			http.Error(w, "Trade not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("trade_id", id).Msg("Failed to update trade")
		http.Error(w, "Failed to update trade", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trade updated successfully"})
}

// HandleDeleteTrade handles DELETE /{id}
func (h *Handler) HandleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, ErrTradeNotFound) {
			http.Error(w, "Trade not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("trade_id", id).Msg("Failed to delete trade")
		http.Error(w, "Failed to delete trade", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trade deleted successfully"})
}

// isValidDate checks YYYY-MM-DD format
func isValidDate(date string) bool {
	if len(date) != 10 {
		return false
	}
	for i, c := range date {
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
		} else if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeValidationError(w http.ResponseWriter, ve *domain.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   "validation failed",
		"field":   ve.Field,
		"message": ve.Message,
	})
}
