package report

import (
	"sort"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
)

func newAgentReport(id, name string) *domain.AgentReport {
	r := &domain.AgentReport{
		ID:        id,
		Name:      name,
		Monthly:   make([]domain.MonthTotals, 12),
		Quarterly: make([]domain.QuarterTotals, 4),
	}
	for i := range r.Monthly {
		r.Monthly[i].Month = domain.MonthNames[i]
	}
	for i := range r.Quarterly {
		r.Quarterly[i].Quarter = domain.QuarterNames[i]
	}
	return r
}

// Ranking builds the per-agent performance ranking for one year. Every
// active user gets a row even with zero deals; deals assigned to users
// outside the roster still appear under the name carried on the deal.
// Deals without a parseable creation date are excluded entirely, so the
// twelve monthly buckets always sum to the agent's yearly totals.
//
// Ranks are 1-based by descending total opportunity; agents with equal
// totals keep their relative roster order.
func Ranking(year int, users []domain.User, deals []domain.Deal) *domain.RankingReport {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	table := NewTable(func(id string) *domain.AgentReport {
		return newAgentReport(id, normalize.Lookup(names, id, normalize.Unknown))
	})
	for _, u := range users {
		table.Seed(u.ID)
	}

	for _, d := range deals {
		if d.CreatedAt == nil || d.CreatedAt.Year() != year {
			continue
		}
		row := table.At(d.AgentID)
		if row.Name == normalize.Unknown && d.AgentName != "" {
			row.Name = d.AgentName
		}

		row.TotalOpportunity += d.Opportunity
		row.TotalCommission += d.GrossCommission
		row.TotalDeals++

		m := int(d.CreatedAt.Month()) - 1
		row.Monthly[m].Opportunity += d.Opportunity
		row.Monthly[m].Commission += d.GrossCommission
		row.Monthly[m].Deals++

		q := normalize.QuarterIndex(d.CreatedAt.Month())
		row.Quarterly[q].Opportunity += d.Opportunity
		row.Quarterly[q].Commission += d.GrossCommission
		row.Quarterly[q].Deals++
	}

	agents := table.Rows()
	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].TotalOpportunity > agents[j].TotalOpportunity
	})
	for i, a := range agents {
		a.Rank = i + 1
	}

	return &domain.RankingReport{Year: year, Agents: agents}
}
