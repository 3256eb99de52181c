package report

import (
	"math"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
)

// AgentsInput bundles the fetched data behind the agents dashboard.
// Deals is the won-deal set closed in the year, so the per-agent deal
// count, commission and revenue read as closed business.
type AgentsInput struct {
	Users       []domain.User
	Departments map[string]string
	Leads       []domain.Lead
	Deals       []domain.Deal
	// Sources resolves SOURCE_ID to a display name
	Sources map[string]string
}

// Agents builds the per-agent activity dashboard for one year: lead and
// won-deal counts, conversion, commission and revenue sums, a
// twelve-month trend line and a lead-source breakdown per agent. Leads
// bucket into the trend by creation date, deals by close date; records
// without a parseable date count toward totals but not the trend line.
func Agents(year int, in AgentsInput) *domain.AgentsReport {
	type agentAcc struct {
		perf    *domain.AgentPerformance
		sources *Table[domain.NameValue]
	}

	users := make(map[string]domain.User, len(in.Users))
	for _, u := range in.Users {
		users[u.ID] = u
	}

	table := NewTable(func(id string) *agentAcc {
		u := users[id]
		name := u.Name
		if name == "" {
			name = normalize.Unknown
		}
		perf := &domain.AgentPerformance{
			ID:            id,
			Name:          name,
			Team:          normalize.TeamNames(u.DepartmentIDs, in.Departments),
			PhotoURL:      u.PhotoURL,
			MonthlyTrends: make([]domain.MonthTrend, 12),
			LeadSources:   []domain.NameValue{},
		}
		for i := range perf.MonthlyTrends {
			perf.MonthlyTrends[i].Name = domain.ShortMonthNames[i]
		}
		return &agentAcc{
			perf: perf,
			sources: NewTable(func(source string) *domain.NameValue {
				return &domain.NameValue{Name: source}
			}),
		}
	})
	for _, u := range in.Users {
		table.Seed(u.ID)
	}

	for _, l := range in.Leads {
		acc := table.At(l.AgentID)
		acc.perf.Leads++
		source := normalize.Lookup(in.Sources, l.SourceID, normalize.Unknown)
		acc.sources.At(source).Value++
		if l.CreatedAt != nil && l.CreatedAt.Year() == year {
			acc.perf.MonthlyTrends[int(l.CreatedAt.Month())-1].Leads++
		}
	}

	for _, d := range in.Deals {
		acc := table.At(d.AgentID)
		acc.perf.Deals++
		acc.perf.CommissionAED += d.GrossCommission
		acc.perf.Revenue += d.Opportunity
		if d.ClosedAt != nil && d.ClosedAt.Year() == year {
			acc.perf.MonthlyTrends[int(d.ClosedAt.Month())-1].Deals++
		}
	}

	agents := make([]*domain.AgentPerformance, 0, table.Len())
	for _, acc := range table.Rows() {
		if acc.perf.Leads > 0 {
			acc.perf.Conversion = int(math.Round(float64(acc.perf.Deals) / float64(acc.perf.Leads) * 100))
		}
		for _, nv := range acc.sources.Rows() {
			acc.perf.LeadSources = append(acc.perf.LeadSources, *nv)
		}
		agents = append(agents, acc.perf)
	}

	return &domain.AgentsReport{
		Year:   year,
		Agents: agents,
		Teams:  Teams(in.Users, in.Departments),
	}
}

// Teams returns the distinct team names of the roster in first-seen order
func Teams(users []domain.User, departments map[string]string) []domain.Team {
	table := NewTable(func(name string) *domain.Team {
		return &domain.Team{Name: name}
	})
	for _, u := range users {
		table.Seed(normalize.TeamNames(u.DepartmentIDs, departments))
	}
	teams := make([]domain.Team, 0, table.Len())
	for _, t := range table.Rows() {
		teams = append(teams, *t)
	}
	return teams
}
