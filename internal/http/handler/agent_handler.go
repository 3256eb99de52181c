package handler

import (
	"net/http"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/service"
	"go.uber.org/zap"
)

// AgentHandler serves the agent-centric reports
type AgentHandler struct {
	service *service.AgentService
	logger  *zap.Logger
}

// NewAgentHandler creates an agent handler
func NewAgentHandler(service *service.AgentService, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{service: service, logger: logger}
}

// GetAgents handles GET /api/v1/agents
func (h *AgentHandler) GetAgents(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	agents, err := h.service.GetAgents(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to build agents report", zap.Int("year", year), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, agents)
}

// GetRanking handles GET /api/v1/agents/ranking. An optional agentId
// query parameter narrows the deal set to one assignee.
func (h *AgentHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	agentID := r.URL.Query().Get("agentId")

	ranking, err := h.service.GetRanking(r.Context(), year, agentID)
	if err != nil {
		h.logger.Error("failed to build ranking", zap.Int("year", year), zap.String("agent_id", agentID), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ranking)
}

// GetReport handles GET /api/v1/agents/report
func (h *AgentHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	list, err := h.service.GetAgentList(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to build agent report list", zap.Int("year", year), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// GetLastTransactions handles GET /api/v1/agents/last-transactions
func (h *AgentHandler) GetLastTransactions(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetLastTransactions(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to build last transactions", zap.Int("year", year), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
