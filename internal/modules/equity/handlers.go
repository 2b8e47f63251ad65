package equity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/domain"
)

// Handler handles capital snapshot HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new equity handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "equity").Logger(),
	}
}

// HandleListSnapshots handles GET /{userID}
func (h *Handler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	snapshots, err := h.repo.ListByUser(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list capital snapshots")
		http.Error(w, "Failed to retrieve monthly returns", http.StatusInternalServerError)
		return
	}

	if snapshots == nil {
		snapshots = []CapitalSnapshot{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"monthly_returns": snapshots})
}

// HandleSaveSnapshot handles POST / - create or update the (user, month) snapshot
func (h *Handler) HandleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var snapshot CapitalSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if snapshot.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := snapshot.Validate(); err != nil {
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

	snapshot.DeriveReturns()

	if err := h.repo.Upsert(&snapshot); err != nil {
		h.log.Error().Err(err).Str("user_id", snapshot.UserID).Msg("Failed to save capital snapshot")
		http.Error(w, "Failed to save monthly return", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message":   "Monthly return saved successfully",
		"return_id": snapshot.ID,
	})
}

// HandleDeleteSnapshot handles DELETE /{id}
func (h *Handler) HandleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			http.Error(w, "Monthly return not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("snapshot_id", id).Msg("Failed to delete capital snapshot")
		http.Error(w, "Failed to delete monthly return", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Monthly return deleted successfully"})
}
