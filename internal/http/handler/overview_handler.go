package handler

import (
	"net/http"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/service"
	"go.uber.org/zap"
)

// OverviewHandler serves the management overview report
type OverviewHandler struct {
	service *service.OverviewService
	logger  *zap.Logger
}

// NewOverviewHandler creates an overview handler
func NewOverviewHandler(service *service.OverviewService, logger *zap.Logger) *OverviewHandler {
	return &OverviewHandler{service: service, logger: logger}
}

// GetOverview handles GET /api/v1/overview
func (h *OverviewHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	overview, err := h.service.GetOverview(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to build overview", zap.Int("year", year), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}
