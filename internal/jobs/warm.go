package jobs

import (
	"context"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CacheWarmer rebuilds the current-year reports on a schedule so the
// dashboard rarely pays the CRM round trips on a user request. The warm
// runs through the same cached service methods as live traffic, so a
// warm miss simply refills the entry.
type CacheWarmer struct {
	overview *service.OverviewService
	agents   *service.AgentService
	cfg      *config.CacheConfig
	logger   *zap.Logger
}

// NewCacheWarmer creates the cache warm job
func NewCacheWarmer(overview *service.OverviewService, agents *service.AgentService, cfg *config.CacheConfig, logger *zap.Logger) *CacheWarmer {
	return &CacheWarmer{overview: overview, agents: agents, cfg: cfg, logger: logger}
}

// Register attaches the warm job to the scheduler when enabled
func (w *CacheWarmer) Register(s *Scheduler) error {
	if !w.cfg.WarmEnabled {
		w.logger.Info("cache warm job disabled")
		return nil
	}
	return s.AddJob("cache_warm", w.cfg.WarmCron, w.Run)
}

// Run warms every current-year report once. Individual report failures
// are logged and do not stop the other warms.
func (w *CacheWarmer) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WarmTimeoutDuration())
	defer cancel()

	year := time.Now().Year()
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := w.overview.GetOverview(gctx, year); err != nil {
			w.logger.Warn("overview warm failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		if _, err := w.agents.GetAgents(gctx, year); err != nil {
			w.logger.Warn("agents warm failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		if _, err := w.agents.GetRanking(gctx, year, ""); err != nil {
			w.logger.Warn("ranking warm failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		if _, err := w.agents.GetLastTransactions(gctx, year); err != nil {
			w.logger.Warn("last transactions warm failed", zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	w.logger.Info("cache warm finished",
		zap.Int("year", year),
		zap.Duration("duration", time.Since(start)),
	)
}
