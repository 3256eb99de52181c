package report

import (
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
)

type lastTxAcc struct {
	row      *domain.AgentLastTransaction
	closedAt string
}

// LastTransactions builds the per-agent last closed deal view for one
// year, folding over every deal closed in the year regardless of stage.
// Every roster user appears; an agent whose deals all lack a parseable
// close date shows a null transaction. The most recent deal wins by
// close date, the first-seen deal winning exact-tie dates.
func LastTransactions(year int, users []domain.User, departments map[string]string, deals []domain.Deal) *domain.LastTransactionsReport {
	roster := make(map[string]domain.User, len(users))
	for _, u := range users {
		roster[u.ID] = u
	}

	table := NewTable(func(id string) *lastTxAcc {
		u := roster[id]
		name := u.Name
		if name == "" {
			name = normalize.Unknown
		}
		return &lastTxAcc{
			row: &domain.AgentLastTransaction{
				ID:          id,
				Name:        name,
				Team:        normalize.TeamNames(u.DepartmentIDs, departments),
				HiredBy:     u.HiredBy,
				JoiningDate: u.JoiningDate,
			},
		}
	})
	for _, u := range users {
		table.Seed(u.ID)
	}

	for _, d := range deals {
		if d.ClosedAt == nil {
			continue
		}
		acc := table.At(d.AgentID)
		if acc.row.Name == normalize.Unknown && d.AgentName != "" {
			acc.row.Name = d.AgentName
		}

		closedAt := d.ClosedAt.Format("2006-01-02")
		if acc.row.Date != nil && closedAt <= acc.closedAt {
			continue
		}
		acc.closedAt = closedAt

		date := closedAt
		project := d.ProjectName
		if project == "" {
			project = normalize.NA
		}
		acc.row.Date = &date
		acc.row.Project = &project
		acc.row.Amount = d.Opportunity
		acc.row.GrossCommission = d.GrossCommission
	}

	agents := make([]*domain.AgentLastTransaction, 0, table.Len())
	for _, acc := range table.Rows() {
		agents = append(agents, acc.row)
	}

	return &domain.LastTransactionsReport{
		Year:   year,
		Agents: agents,
		Teams:  Teams(users, departments),
	}
}
