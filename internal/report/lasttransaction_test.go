package report_test

import (
	"testing"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastTransactions_PicksLatestCloseDate(t *testing.T) {
	users := []domain.User{
		{ID: "1", Name: "Alice", DepartmentIDs: []string{"10"}, HiredBy: "Boss", JoiningDate: "2023-01-15"},
		{ID: "2", Name: "Bob"},
	}
	departments := map[string]string{"10": "Sales"}
	deals := []domain.Deal{
		{AgentID: "1", ProjectName: "Marina Tower", Opportunity: 1000, GrossCommission: 50, ClosedAt: date("2025-03-10")},
		{AgentID: "1", ProjectName: "Palm Villas", Opportunity: 3000, GrossCommission: 150, ClosedAt: date("2025-08-01")},
		{AgentID: "1", ProjectName: "Old Deal", Opportunity: 9000, GrossCommission: 900, ClosedAt: date("2025-01-01")},
	}

	r := report.LastTransactions(2025, users, departments, deals)

	require.Len(t, r.Agents, 2)
	alice := r.Agents[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "Sales", alice.Team)
	assert.Equal(t, "Boss", alice.HiredBy)
	assert.Equal(t, "2023-01-15", alice.JoiningDate)
	require.NotNil(t, alice.Date)
	assert.Equal(t, "2025-08-01", *alice.Date)
	require.NotNil(t, alice.Project)
	assert.Equal(t, "Palm Villas", *alice.Project)
	assert.Equal(t, 3000.0, alice.Amount)
	assert.Equal(t, 150.0, alice.GrossCommission)

	bob := r.Agents[1]
	assert.Nil(t, bob.Date)
	assert.Nil(t, bob.Project)
	assert.Equal(t, 0.0, bob.Amount)
}

func TestLastTransactions_FirstSeenWinsTiedCloseDate(t *testing.T) {
	users := []domain.User{{ID: "1", Name: "Alice"}}
	deals := []domain.Deal{
		{AgentID: "1", ProjectName: "First", Opportunity: 100, ClosedAt: date("2025-06-01")},
		{AgentID: "1", ProjectName: "Second", Opportunity: 200, ClosedAt: date("2025-06-01")},
	}

	r := report.LastTransactions(2025, users, nil, deals)

	require.NotNil(t, r.Agents[0].Project)
	assert.Equal(t, "First", *r.Agents[0].Project)
	assert.Equal(t, 100.0, r.Agents[0].Amount)
}

func TestLastTransactions_DatelessDealsIgnored(t *testing.T) {
	users := []domain.User{{ID: "1", Name: "Alice"}}
	deals := []domain.Deal{
		{AgentID: "1", ProjectName: "Ghost", Opportunity: 500},
	}

	r := report.LastTransactions(2025, users, nil, deals)

	require.Len(t, r.Agents, 1)
	assert.Nil(t, r.Agents[0].Date)
}

func TestLastTransactions_EmptyProjectShowsNA(t *testing.T) {
	users := []domain.User{{ID: "1", Name: "Alice"}}
	deals := []domain.Deal{
		{AgentID: "1", Opportunity: 500, ClosedAt: date("2025-04-04")},
	}

	r := report.LastTransactions(2025, users, nil, deals)

	require.NotNil(t, r.Agents[0].Project)
	assert.Equal(t, "N/A", *r.Agents[0].Project)
}
