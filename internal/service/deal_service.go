package service

import (
	"context"
	"fmt"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/cache"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/mapper"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DealService serves the deals-monitoring table and its CSV export.
// Unlike the chart views this surface shows raw records an operator acts
// on, so fetch failures surface as errors instead of degrading to an
// empty table.
type DealService struct {
	crm       *bitrix.Client
	catalog   *CatalogProvider
	fields    config.FieldMap
	logger    *zap.Logger
	pageCache *cache.Cache[*domain.DealsPage]
}

// NewDealService creates the deals-monitoring service
func NewDealService(crm *bitrix.Client, catalog *CatalogProvider, cfg *config.Config, logger *zap.Logger) *DealService {
	return &DealService{
		crm:       crm,
		catalog:   catalog,
		fields:    cfg.Bitrix.Fields,
		logger:    logger,
		pageCache: cache.New[*domain.DealsPage](cfg.Cache.TTLDuration()),
	}
}

// rowContext assembles the lookups rows resolve against. The roster
// lookups are best-effort; the field catalog is required.
func (s *DealService) rowContext(ctx context.Context, records []bitrix.Record) (*mapper.DealMapper, mapper.RowContext, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, mapper.RowContext{}, fmt.Errorf("deal field catalog fetch failed: %w", err)
	}

	rc := mapper.RowContext{
		Departments: map[string]string{},
		AgentTeams:  map[string][]string{},
		AgentNames:  map[string]string{},
	}

	var contactIDs []string
	seen := map[string]bool{}
	for _, r := range records {
		id := normalize.String(r["CONTACT_ID"])
		if id != "" && id != "0" && !seen[id] {
			seen[id] = true
			contactIDs = append(contactIDs, id)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		userRecords, err := s.crm.GetActiveUsers(gctx)
		if err != nil {
			s.logger.Warn("user roster fetch failed, agent columns degrade", zap.Error(err))
		}
		for _, u := range mapper.Users(userRecords, s.fields) {
			rc.AgentNames[u.ID] = u.Name
			rc.AgentTeams[u.ID] = u.DepartmentIDs
		}
		return nil
	})
	g.Go(func() error {
		rc.Departments = mapper.Departments(s.crm.GetDepartments(gctx))
		return nil
	})
	g.Go(func() error {
		contactRecords, err := s.crm.GetContacts(gctx, contactIDs)
		if err != nil {
			return err
		}
		rc.Contacts = mapper.Contacts(contactRecords)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, mapper.RowContext{}, err
	}

	return mapper.NewDealMapper(s.fields, catalog), rc, nil
}

// GetDealsPage returns one monitoring page, 1-based, cached per page
func (s *DealService) GetDealsPage(ctx context.Context, page int) (*domain.DealsPage, error) {
	if page < 1 {
		page = 1
	}
	key := fmt.Sprintf("deals:%d", page)
	return s.pageCache.GetOrFill(ctx, key, func(ctx context.Context) (*domain.DealsPage, error) {
		start := (page - 1) * bitrix.PageSize
		records, total, err := s.crm.GetDealsPage(ctx, start)
		if err != nil {
			return nil, fmt.Errorf("deal page fetch failed: %w", err)
		}

		dm, rc, err := s.rowContext(ctx, records)
		if err != nil {
			return nil, err
		}

		rows := make([]*domain.DealRow, 0, len(records))
		for _, r := range records {
			rows = append(rows, dm.DealRow(r, rc))
		}

		return &domain.DealsPage{
			Page:     page,
			PageSize: bitrix.PageSize,
			Total:    total,
			Deals:    rows,
		}, nil
	})
}

// GetAllDealRows returns every monitoring row newest first, for the CSV
// export. Deal pagination degrades to a partial export; a missing field
// catalog or failed contact fetch is still an error.
func (s *DealService) GetAllDealRows(ctx context.Context) ([]*domain.DealRow, error) {
	if s.crm == nil {
		return nil, bitrix.ErrDisabled
	}
	records := s.crm.GetAllDeals(ctx)

	dm, rc, err := s.rowContext(ctx, records)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.DealRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, dm.DealRow(r, rc))
	}
	s.logger.Info("deal export assembled", zap.Int("rows", len(rows)))
	return rows, nil
}
