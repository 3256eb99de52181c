// Package service orchestrates CRM fetches into cached dashboard reports.
// Each service owns its caches and fetch policy; aggregation itself lives
// in the report package.
package service

import (
	"context"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/cache"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/mapper"
	"go.uber.org/zap"
)

// CatalogProvider serves the deal field catalog with caching. The catalog
// changes only when an admin edits CRM fields, so it is cached under the
// same TTL as the reports and shared across services.
type CatalogProvider struct {
	crm    *bitrix.Client
	fields config.FieldMap
	cache  *cache.Cache[bitrix.FieldCatalog]
	logger *zap.Logger
}

// NewCatalogProvider builds the shared catalog provider
func NewCatalogProvider(crm *bitrix.Client, cfg *config.Config, logger *zap.Logger) *CatalogProvider {
	return &CatalogProvider{
		crm:    crm,
		fields: cfg.Bitrix.Fields,
		cache:  cache.New[bitrix.FieldCatalog](cfg.Cache.TTLDuration()),
		logger: logger,
	}
}

// Catalog returns the deal field catalog, fetching on cache miss
func (p *CatalogProvider) Catalog(ctx context.Context) (bitrix.FieldCatalog, error) {
	return p.cache.GetOrFill(ctx, "deal_fields", func(ctx context.Context) (bitrix.FieldCatalog, error) {
		return p.crm.GetDealFields(ctx)
	})
}

// DealMapper returns a mapper over the current catalog. When the catalog
// cannot be fetched the mapper falls back to raw enum values; views that
// must not degrade fetch the catalog themselves.
func (p *CatalogProvider) DealMapper(ctx context.Context) *mapper.DealMapper {
	catalog, err := p.Catalog(ctx)
	if err != nil {
		p.logger.Warn("deal field catalog unavailable, enum fields stay raw", zap.Error(err))
		catalog = nil
	}
	return mapper.NewDealMapper(p.fields, catalog)
}
