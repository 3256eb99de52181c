package service

import (
	"context"
	"fmt"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/cache"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/mapper"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OverviewService builds the management overview report
type OverviewService struct {
	crm     *bitrix.Client
	catalog *CatalogProvider
	fields  config.FieldMap
	cache   *cache.Cache[*domain.Overview]
	logger  *zap.Logger
}

// NewOverviewService creates the overview service
func NewOverviewService(crm *bitrix.Client, catalog *CatalogProvider, cfg *config.Config, logger *zap.Logger) *OverviewService {
	return &OverviewService{
		crm:     crm,
		catalog: catalog,
		fields:  cfg.Bitrix.Fields,
		cache:   cache.New[*domain.Overview](cfg.Cache.TTLDuration()),
		logger:  logger,
	}
}

// GetOverview returns the overview for a year, cached per year. The
// underlying fetches run concurrently and each degrades independently:
// a failed roster or deal fetch logs and leaves its section empty rather
// than failing the whole report.
func (s *OverviewService) GetOverview(ctx context.Context, year int) (*domain.Overview, error) {
	key := fmt.Sprintf("overview:%d", year)
	return s.cache.GetOrFill(ctx, key, func(ctx context.Context) (*domain.Overview, error) {
		return s.build(ctx, year)
	})
}

func (s *OverviewService) build(ctx context.Context, year int) (*domain.Overview, error) {
	var (
		dealRecords []bitrix.Record
		wonRecords  []bitrix.Record
		userRecords []bitrix.Record
		srcRecords  []bitrix.Record
		dm          *mapper.DealMapper
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dealRecords = s.crm.GetDealsByYear(gctx, year)
		return nil
	})
	g.Go(func() error {
		wonRecords = s.crm.GetWonDealsByYear(gctx, year)
		return nil
	})
	g.Go(func() error {
		var err error
		userRecords, err = s.crm.GetActiveUsers(gctx)
		if err != nil {
			s.logger.Warn("user roster fetch failed, overview agent sales degrade",
				zap.Int("year", year),
				zap.Error(err),
			)
		}
		return nil
	})
	g.Go(func() error {
		srcRecords = s.crm.GetLeadSources(gctx)
		return nil
	})
	g.Go(func() error {
		dm = s.catalog.DealMapper(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := report.Overview(year, report.OverviewInput{
		Deals:         dm.Deals(dealRecords),
		WonDeals:      dm.Deals(wonRecords),
		Users:         mapper.Users(userRecords, s.fields),
		Sources:       mapper.Statuses(srcRecords),
		PropertyTypes: dm.PropertyTypes(),
	})

	s.logger.Info("overview built",
		zap.Int("year", year),
		zap.Int("deals", overview.KPIs.TotalDeals),
		zap.Int("deals_won", overview.KPIs.DealsWon),
	)
	return overview, nil
}
