package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/trade-journal/internal/modules/fees"
	"github.com/aristath/trade-journal/internal/modules/journal"
	"github.com/aristath/trade-journal/internal/modules/metrics"
)

// Handler handles report export HTTP requests
type Handler struct {
	journalRepo *journal.Repository
	feesRepo    *fees.Repository
	metricsSvc  *metrics.Service
	log         zerolog.Logger
}

// NewHandler creates a new export handler
func NewHandler(
	journalRepo *journal.Repository,
	feesRepo *fees.Repository,
	metricsSvc *metrics.Service,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		journalRepo: journalRepo,
		feesRepo:    feesRepo,
		metricsSvc:  metricsSvc,
		log:         log.With().Str("handler", "export").Logger(),
	}
}

// HandleExportCSV handles GET /{userID}?from=&to= - download a CSV report
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
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

	trades, err := h.journalRepo.ListByUser(userID, from, to)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list trades for export")
		http.Error(w, "Failed to export trades", http.StatusInternalServerError)
		return
	}

	schedule, err := h.feesRepo.GetByUser(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to get fee schedule for export")
		http.Error(w, "Failed to export trades", http.StatusInternalServerError)
		return
	}

	result, err := h.metricsSvc.ComputeMetrics(userID, from, to)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute metrics for export")
		http.Error(w, "Failed to export trades", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("trades-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := WriteReport(w, trades, schedule, result); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to write CSV report")
	}
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
