package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/service"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

// CatalogHandler handles shop configuration endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *logger.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(svc *service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  log,
	}
}

// GetMenu handles GET /api/v1/menu
func (h *CatalogHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Menu(r.Context())
	if err != nil {
		h.logger.Error("failed to get menu", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []model.MenuItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// UpdateMenu handles PUT /api/v1/menu
func (h *CatalogHandler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ReplaceMenu(r.Context(), req.Items); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// GetCakeDesigns handles GET /api/v1/cake-designs
func (h *CatalogHandler) GetCakeDesigns(w http.ResponseWriter, r *http.Request) {
	designs, err := h.service.CakeDesigns(r.Context())
	if err != nil {
		h.logger.Error("failed to get cake designs", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if designs == nil {
		designs = []model.CakeDesign{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"designs": designs})
}

// UpdateCakeDesigns handles PUT /api/v1/cake-designs
func (h *CatalogHandler) UpdateCakeDesigns(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCakeDesignsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ReplaceCakeDesigns(r.Context(), req.Designs); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// GetSystemPrompt handles GET /api/v1/system-prompt
func (h *CatalogHandler) GetSystemPrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.service.SystemPrompt(r.Context())
	if err != nil {
		h.logger.Error("failed to get system prompt", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prompt)
}

// UpdateSystemPrompt handles PUT /api/v1/system-prompt
func (h *CatalogHandler) UpdateSystemPrompt(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSystemPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt, err := h.service.UpdateSystemPrompt(r.Context(), req.Prompt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prompt)
}

// SystemPromptHistory handles GET /api/v1/system-prompt/history
func (h *CatalogHandler) SystemPromptHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.SystemPromptHistory(r.Context())
	if err != nil {
		h.logger.Error("failed to get prompt history", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

// GetConversionInstructions handles GET /api/v1/conversion-instructions
func (h *CatalogHandler) GetConversionInstructions(w http.ResponseWriter, r *http.Request) {
	instructions, err := h.service.ConversionInstructions(r.Context())
	if err != nil {
		h.logger.Error("failed to get conversion instructions", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, instructions)
}

// UpdateConversionInstructions handles PUT /api/v1/conversion-instructions
func (h *CatalogHandler) UpdateConversionInstructions(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateConversionInstructionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateConversionInstructions(r.Context(), req.Instructions, req.Examples); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
