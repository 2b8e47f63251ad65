package positions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/domain"
)

// Handler handles position exit HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new positions handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "positions").Logger(),
	}
}

// HandleExitTrade handles POST /{userID}/exit
func (h *Handler) HandleExitTrade(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Exit(userID, req)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"field":   ve.Field,
				"message": ve.Message,
			})
			return
		}
		if domain.IsInconsistentState(err) {
			// Bug territory: nothing was persisted, surface a generic failure
			h.log.Error().Err(err).Str("user_id", userID).Msg("Exit aborted on invariant violation")
			http.Error(w, "Could not complete this action", http.StatusInternalServerError)
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to exit position")
		http.Error(w, "Failed to exit position", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
