package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"go.uber.org/zap"
)

// HealthHandler serves the liveness and CRM readiness probes
type HealthHandler struct {
	crm     *bitrix.Client
	cfg     *config.AppConfig
	logger  *zap.Logger
	started time.Time
}

// NewHealthHandler creates a health handler
func NewHealthHandler(crm *bitrix.Client, cfg *config.AppConfig, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{crm: crm, cfg: cfg, logger: logger, started: time.Now()}
}

type healthResponse struct {
	Status      string `json:"status"`
	Name        string `json:"name"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Name:        h.cfg.Name,
		Environment: h.cfg.Environment,
		Uptime:      time.Since(h.started).Truncate(time.Second).String(),
	})
}

type crmHealthResponse struct {
	Status  string `json:"status"`
	Enabled bool   `json:"enabled"`
	Detail  string `json:"detail,omitempty"`
}

// CRMHealth handles GET /health/crm, probing the webhook endpoint
func (h *HealthHandler) CRMHealth(w http.ResponseWriter, r *http.Request) {
	if !h.crm.IsEnabled() {
		respondJSON(w, http.StatusOK, crmHealthResponse{Status: "disabled", Enabled: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.crm.Ping(ctx); err != nil {
		h.logger.Warn("CRM health probe failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, crmHealthResponse{
			Status:  "unreachable",
			Enabled: true,
			Detail:  err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, crmHealthResponse{Status: "ok", Enabled: true})
}
