package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/cache"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/mapper"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AgentService builds the agent-centric reports: the activity dashboard,
// the ranking, the agent report selector and the last-transactions view.
// All of them pre-seed from the active user roster, so a failed roster
// fetch fails the report instead of silently rendering an empty one.
type AgentService struct {
	crm     *bitrix.Client
	catalog *CatalogProvider
	fields  config.FieldMap
	logger  *zap.Logger

	agentsCache  *cache.Cache[*domain.AgentsReport]
	rankingCache *cache.Cache[*domain.RankingReport]
	lastTxCache  *cache.Cache[*domain.LastTransactionsReport]
}

// NewAgentService creates the agent service
func NewAgentService(crm *bitrix.Client, catalog *CatalogProvider, cfg *config.Config, logger *zap.Logger) *AgentService {
	ttl := cfg.Cache.TTLDuration()
	return &AgentService{
		crm:          crm,
		catalog:      catalog,
		fields:       cfg.Bitrix.Fields,
		logger:       logger,
		agentsCache:  cache.New[*domain.AgentsReport](ttl),
		rankingCache: cache.New[*domain.RankingReport](ttl),
		lastTxCache:  cache.New[*domain.LastTransactionsReport](ttl),
	}
}

// roster fetches active users and the department lookup concurrently.
// Both come over the windowed path; either failing fails the roster.
func (s *AgentService) roster(ctx context.Context) ([]domain.User, map[string]string, error) {
	var (
		userRecords []bitrix.Record
		deptRecords []bitrix.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userRecords, err = s.crm.GetActiveUsers(gctx)
		if err != nil {
			return fmt.Errorf("user roster fetch failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		deptRecords = s.crm.GetDepartments(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return mapper.Users(userRecords, s.fields), mapper.Departments(deptRecords), nil
}

// GetAgents returns the per-agent activity dashboard for a year
func (s *AgentService) GetAgents(ctx context.Context, year int) (*domain.AgentsReport, error) {
	key := fmt.Sprintf("agents:%d", year)
	return s.agentsCache.GetOrFill(ctx, key, func(ctx context.Context) (*domain.AgentsReport, error) {
		var (
			users       []domain.User
			departments map[string]string
			leadRecords []bitrix.Record
			dealRecords []bitrix.Record
			srcRecords  []bitrix.Record
			dm          *mapper.DealMapper
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			users, departments, err = s.roster(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			leadRecords, err = s.crm.GetLeadsByYear(gctx, year)
			if err != nil {
				s.logger.Warn("lead fetch failed, agent lead counts degrade",
					zap.Int("year", year),
					zap.Int("partial", len(leadRecords)),
					zap.Error(err),
				)
			}
			return nil
		})
		g.Go(func() error {
			dealRecords = s.crm.GetWonDealsByYear(gctx, year)
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

		return report.Agents(year, report.AgentsInput{
			Users:       users,
			Departments: departments,
			Leads:       mapper.Leads(leadRecords),
			Deals:       dm.Deals(dealRecords),
			Sources:     mapper.Statuses(srcRecords),
		}), nil
	})
}

// GetRanking returns the ranked per-agent performance report for a
// year. A non-empty agentID narrows the deal fetch to that assignee;
// the full roster still pre-seeds, so other agents rank on zero totals.
func (s *AgentService) GetRanking(ctx context.Context, year int, agentID string) (*domain.RankingReport, error) {
	key := fmt.Sprintf("ranking:%d:%s", year, agentID)
	return s.rankingCache.GetOrFill(ctx, key, func(ctx context.Context) (*domain.RankingReport, error) {
		var (
			users       []domain.User
			dealRecords []bitrix.Record
			dm          *mapper.DealMapper
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			users, _, err = s.roster(gctx)
			return err
		})
		g.Go(func() error {
			dealRecords = s.crm.GetDealsCreatedInYear(gctx, year, agentID)
			return nil
		})
		g.Go(func() error {
			dm = s.catalog.DealMapper(gctx)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		return report.Ranking(year, users, dm.Deals(dealRecords)), nil
	})
}

// GetAgentList returns the agent selector list together with the full
// ranking report keyed by agent ID, for the report view. The selector
// is sorted by name.
func (s *AgentService) GetAgentList(ctx context.Context, year int) (*domain.AgentListReport, error) {
	ranking, err := s.GetRanking(ctx, year, "")
	if err != nil {
		return nil, err
	}

	out := &domain.AgentListReport{
		Year:   year,
		Agents: make([]domain.AgentSummary, 0, len(ranking.Agents)),
		Report: make(map[string]*domain.AgentReport, len(ranking.Agents)),
	}
	for _, a := range ranking.Agents {
		out.Agents = append(out.Agents, domain.AgentSummary{ID: a.ID, Name: a.Name})
		out.Report[a.ID] = a
	}
	sort.Slice(out.Agents, func(i, j int) bool {
		return out.Agents[i].Name < out.Agents[j].Name
	})
	return out, nil
}

// GetLastTransactions returns each agent's most recent deal closed in
// the year, regardless of stage
func (s *AgentService) GetLastTransactions(ctx context.Context, year int) (*domain.LastTransactionsReport, error) {
	key := fmt.Sprintf("lasttx:%d", year)
	return s.lastTxCache.GetOrFill(ctx, key, func(ctx context.Context) (*domain.LastTransactionsReport, error) {
		var (
			users       []domain.User
			departments map[string]string
			dealRecords []bitrix.Record
			dm          *mapper.DealMapper
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			users, departments, err = s.roster(gctx)
			return err
		})
		g.Go(func() error {
			dealRecords = s.crm.GetDealsByYear(gctx, year)
			return nil
		})
		g.Go(func() error {
			dm = s.catalog.DealMapper(gctx)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		return report.LastTransactions(year, users, departments, dm.Deals(dealRecords)), nil
	})
}
