package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/export"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/service"
	"go.uber.org/zap"
)

// DealHandler serves the deals-monitoring table and its CSV export
type DealHandler struct {
	service *service.DealService
	logger  *zap.Logger
}

// NewDealHandler creates a deal handler
func NewDealHandler(service *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{service: service, logger: logger}
}

// GetDeals handles GET /api/v1/deals
func (h *DealHandler) GetDeals(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	deals, err := h.service.GetDealsPage(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to build deals page", zap.Int("page", page), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deals)
}

// ExportDeals handles GET /api/v1/deals/export
func (h *DealHandler) ExportDeals(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.GetAllDealRows(r.Context())
	if err != nil {
		h.logger.Error("failed to assemble deals export", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("deals_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)

	if err := export.DealsCSV(w, rows); err != nil {
		// Headers are gone; all we can do is log
		h.logger.Error("failed to stream deals export", zap.Error(err))
	}
}
