package report_test

import (
	"testing"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgents_CountsAndConversion(t *testing.T) {
	in := report.AgentsInput{
		Users: []domain.User{
			{ID: "1", Name: "Alice", DepartmentIDs: []string{"10"}},
			{ID: "2", Name: "Bob"},
		},
		Departments: map[string]string{"10": "Sales"},
		Leads: []domain.Lead{
			{AgentID: "1", SourceID: "WEB", CreatedAt: date("2025-01-10")},
			{AgentID: "1", SourceID: "WEB", CreatedAt: date("2025-02-10")},
			{AgentID: "1", SourceID: "CALL", CreatedAt: date("2025-02-12")},
			{AgentID: "1", SourceID: "WEB"}, // no date, counts but no trend
		},
		Deals: []domain.Deal{
			{AgentID: "1", Opportunity: 1000, GrossCommission: 50, CreatedAt: date("2025-01-05"), ClosedAt: date("2025-02-20")},
			// no close date: counts toward totals, stays off the trend line
			{AgentID: "1", Opportunity: 500, CreatedAt: date("2025-03-05")},
		},
		Sources: map[string]string{"WEB": "Website", "CALL": "Cold Call"},
	}

	r := report.Agents(2025, in)

	require.Len(t, r.Agents, 2)
	alice := r.Agents[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "Sales", alice.Team)
	assert.Equal(t, 4, alice.Leads)
	assert.Equal(t, 2, alice.Deals)
	assert.Equal(t, 50, alice.Conversion)
	assert.Equal(t, 50.0, alice.CommissionAED)
	assert.Equal(t, 1500.0, alice.Revenue)

	require.Len(t, alice.MonthlyTrends, 12)
	assert.Equal(t, "Jan", alice.MonthlyTrends[0].Name)
	assert.Equal(t, 1, alice.MonthlyTrends[0].Leads)
	assert.Equal(t, 2, alice.MonthlyTrends[1].Leads)
	assert.Equal(t, 1, alice.MonthlyTrends[1].Deals, "deals bucket by close date")
	assert.Equal(t, 0, alice.MonthlyTrends[0].Deals, "creation date never buckets a deal")
	assert.Equal(t, 0, alice.MonthlyTrends[2].Deals)

	// Source names resolve, counts aggregate
	require.Len(t, alice.LeadSources, 2)
	assert.Equal(t, domain.NameValue{Name: "Website", Value: 3}, alice.LeadSources[0])
	assert.Equal(t, domain.NameValue{Name: "Cold Call", Value: 1}, alice.LeadSources[1])

	bob := r.Agents[1]
	assert.Equal(t, "Unassigned", bob.Team)
	assert.Equal(t, 0, bob.Leads)
	assert.Equal(t, 0, bob.Conversion)
	assert.Empty(t, bob.LeadSources)
}

func TestAgents_UnknownSourceBucket(t *testing.T) {
	in := report.AgentsInput{
		Users: []domain.User{{ID: "1", Name: "Alice"}},
		Leads: []domain.Lead{
			{AgentID: "1", SourceID: "MYSTERY", CreatedAt: date("2025-05-01")},
		},
		Sources: map[string]string{},
	}

	r := report.Agents(2025, in)
	require.Len(t, r.Agents[0].LeadSources, 1)
	assert.Equal(t, "Unknown", r.Agents[0].LeadSources[0].Name)
}

func TestTeams_DistinctFirstSeen(t *testing.T) {
	users := []domain.User{
		{ID: "1", DepartmentIDs: []string{"10"}},
		{ID: "2", DepartmentIDs: []string{"20"}},
		{ID: "3", DepartmentIDs: []string{"10"}},
		{ID: "4"},
	}
	departments := map[string]string{"10": "Sales", "20": "Marketing"}

	teams := report.Teams(users, departments)

	assert.Equal(t, []domain.Team{
		{Name: "Sales"},
		{Name: "Marketing"},
		{Name: "Unassigned"},
	}, teams)
}
