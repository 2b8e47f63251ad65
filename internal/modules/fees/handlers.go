package fees

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/domain"
)

// Handler handles fee schedule HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new fees handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "fees").Logger(),
	}
}

// HandleGetSchedule handles GET /{userID} - fetch schedule or defaults
func (h *Handler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	schedule, err := h.repo.GetByUser(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to get fee schedule")
		http.Error(w, "Failed to retrieve fee schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"fee_schedule": schedule})
}

// HandleSaveSchedule handles POST / - overwrite a user's schedule
func (h *Handler) HandleSaveSchedule(w http.ResponseWriter, r *http.Request) {
	var schedule FeeSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if schedule.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := schedule.Validate(); err != nil {
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
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Save(schedule); err != nil {
		h.log.Error().Err(err).Str("user_id", schedule.UserID).Msg("Failed to save fee schedule")
		http.Error(w, "Failed to save fee schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "Fee schedule saved successfully",
		"user_id": schedule.UserID,
	})
}
