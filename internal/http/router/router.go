package router

import (
	"net/http"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/http/handler"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	rateLimiter     *middleware.RateLimiter
	healthHandler   *handler.HealthHandler
	overviewHandler *handler.OverviewHandler
	agentHandler    *handler.AgentHandler
	dealHandler     *handler.DealHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	rateLimiter *middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	overviewHandler *handler.OverviewHandler,
	agentHandler *handler.AgentHandler,
	dealHandler *handler.DealHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		rateLimiter:     rateLimiter,
		healthHandler:   healthHandler,
		overviewHandler: overviewHandler,
		agentHandler:    agentHandler,
		dealHandler:     dealHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health probes stay outside the authenticated surface
	r.Get("/health", rt.healthHandler.Health)
	r.Get("/health/crm", rt.healthHandler.CRMHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKey(&rt.cfg.ApiKey, rt.logger))

		r.Get("/overview", rt.overviewHandler.GetOverview)

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", rt.agentHandler.GetAgents)
			r.Get("/ranking", rt.agentHandler.GetRanking)
			r.Get("/report", rt.agentHandler.GetReport)
			r.Get("/last-transactions", rt.agentHandler.GetLastTransactions)
		})

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", rt.dealHandler.GetDeals)
			r.Get("/export", rt.dealHandler.ExportDeals)
		})
	})

	return r
}
