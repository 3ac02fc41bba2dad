package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loretrace/loretrace/internal/service"
)

type VectorHandler struct {
	svc *service.AttributionService
}

func NewVectorHandler(svc *service.AttributionService) *VectorHandler {
	return &VectorHandler{svc: svc}
}

type registerVectorRequest struct {
	EntryID string `json:"entry_id"`
	Content string `json:"content"`
}

// Register embeds entry content and caches the vector for later
// similarity evidence on vectorized attributions.
func (h *VectorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerVectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.EntryID == "" {
		writeError(w, http.StatusBadRequest, "entry_id is required")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	if err := h.svc.RegisterEntryVector(r.Context(), req.EntryID, req.Content); err != nil {
		if errors.Is(err, service.ErrVectorsDisabled) {
			writeError(w, http.StatusServiceUnavailable, "vector evidence is not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register entry vector")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok", "entry_id": req.EntryID})
}
