package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles metrics HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "metrics").Logger(),
	}
}

// HandleGetMetrics handles GET /{userID}?from=&to=
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.service.ComputeMetrics(userID, from, to)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute metrics")
		http.Error(w, "Failed to compute metrics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
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
