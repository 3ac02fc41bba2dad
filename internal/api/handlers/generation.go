package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/loretrace/loretrace/internal/domain"
	"github.com/loretrace/loretrace/internal/engine"
	"github.com/loretrace/loretrace/internal/service"
)

// GenerationHandler exposes the three retrieval-subsystem events as
// endpoints: cycle start, force-activation, and the activated entry set.
type GenerationHandler struct {
	svc *service.AttributionService
}

func NewGenerationHandler(svc *service.AttributionService) *GenerationHandler {
	return &GenerationHandler{svc: svc}
}

type startGenerationRequest struct {
	GenerationType string `json:"generation_type"`
}

type startGenerationResponse struct {
	CycleID string `json:"cycle_id"`
}

func (h *GenerationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startGenerationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if req.GenerationType == "" {
		req.GenerationType = "normal"
	}

	cycleID := h.svc.StartGeneration(req.GenerationType)
	writeJSON(w, http.StatusCreated, startGenerationResponse{CycleID: cycleID})
}

type forceActivatedRequest struct {
	Entries []domain.LoreEntry `json:"entries"`
}

func (h *GenerationHandler) ForceActivated(w http.ResponseWriter, r *http.Request) {
	var req forceActivatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "entries is required")
		return
	}

	h.svc.ForceActivated(req.Entries)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "ok",
		"count":  len(req.Entries),
	})
}

type activatedRequest struct {
	Entries  []domain.LoreEntry           `json:"entries"`
	Messages []domain.ConversationMessage `json:"messages"`

	ChatScanDepth      int `json:"chat_scan_depth,omitempty"`
	CharacterScanDepth int `json:"character_scan_depth,omitempty"`
}

type activatedResponse struct {
	Reports []domain.AttributionReport `json:"reports"`
	Count   int                        `json:"count"`
}

func (h *GenerationHandler) Activated(w http.ResponseWriter, r *http.Request) {
	var req activatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "entries is required")
		return
	}

	reports := h.svc.EntriesActivated(r.Context(), engine.ActivationInput{
		Entries:            req.Entries,
		Messages:           req.Messages,
		ChatScanDepth:      req.ChatScanDepth,
		CharacterScanDepth: req.CharacterScanDepth,
	})

	writeJSON(w, http.StatusOK, activatedResponse{
		Reports: reports,
		Count:   len(reports),
	})
}
