package handlers

import (
	"net/http"
	"strconv"

	"github.com/loretrace/loretrace/internal/domain"
	"github.com/loretrace/loretrace/internal/service"
)

type ReportHandler struct {
	svc *service.AttributionService
}

func NewReportHandler(svc *service.AttributionService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type listReportsResponse struct {
	Reports []domain.AttributionReport `json:"reports"`
	Count   int                        `json:"count"`
}

// History lists persisted reports, newest first. Supports ?cycle_id= and
// ?limit= query parameters.
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	cycleID := r.URL.Query().Get("cycle_id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	reports, err := h.svc.History(r.Context(), cycleID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []domain.AttributionReport{}
	}

	writeJSON(w, http.StatusOK, listReportsResponse{
		Reports: reports,
		Count:   len(reports),
	})
}
