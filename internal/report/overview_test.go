package report_test

import (
	"testing"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview_KPIsAndMonthlySales(t *testing.T) {
	in := report.OverviewInput{
		Deals: []domain.Deal{
			{ID: "1"}, {ID: "2"}, {ID: "3"},
		},
		WonDeals: []domain.Deal{
			{Opportunity: 1000, GrossCommission: 100, NetCommission: 80, PaymentReceived: 50, AmountReceivable: 50, ClosedAt: date("2025-01-15"), Developer: "Emaar", AgentName: "Alice"},
			{Opportunity: 2000, GrossCommission: 200, NetCommission: 160, ClosedAt: date("2025-06-20"), Developer: "Emaar", AgentName: "Alice"},
			// no close date: in KPIs and breakdowns, not in monthly buckets
			{Opportunity: 500, GrossCommission: 50, NetCommission: 40, Developer: "Damac"},
		},
	}

	o := report.Overview(2025, in)

	assert.Equal(t, 3, o.KPIs.TotalDeals)
	assert.Equal(t, 3, o.KPIs.DealsWon)
	assert.Equal(t, 350.0, o.KPIs.GrossCommission)
	assert.Equal(t, 280.0, o.KPIs.NetCommission)

	require.Len(t, o.MonthlySales, 12)
	jan := o.MonthlySales[0]
	assert.Equal(t, "Jan", jan.Month)
	assert.Equal(t, 1, jan.DealsWon)
	assert.Equal(t, 1000.0, jan.PropertyPrice)
	assert.Equal(t, 50.0, jan.PaymentReceived)
	assert.Equal(t, 1, o.MonthlySales[5].DealsWon)

	var bucketed int
	for _, m := range o.MonthlySales {
		bucketed += m.DealsWon
	}
	assert.Equal(t, 2, bucketed, "dateless deal stays out of monthly buckets")
}

func TestOverview_AllDealBreakdowns(t *testing.T) {
	// Open deals alone must feed the property-type, developer and
	// lead-source breakdowns; none of them require a won deal.
	in := report.OverviewInput{
		Deals: []domain.Deal{
			{Opportunity: 3000, Developer: "Emaar", PropertyTypeID: "468", SourceID: "WEB"},
			{Opportunity: 1000, Developer: "Damac", PropertyTypeID: "999", SourceID: "WEB"},
		},
		Sources:       map[string]string{"WEB": "Website"},
		PropertyTypes: map[string]string{"468": "Apartment"},
	}

	o := report.Overview(2025, in)

	assert.Equal(t, []string{"Emaar", "Damac"}, o.AllDevelopers)
	assert.Equal(t, []domain.DeveloperValue{
		{Developer: "Emaar", Value: 3000, Percentage: 75},
		{Developer: "Damac", Value: 1000, Percentage: 25},
	}, o.Developers)

	assert.Equal(t, []domain.NameValue{
		{Name: "Apartment", Value: 1},
		{Name: "Unknown", Value: 1},
	}, o.PropertyTypes)

	assert.Equal(t, []domain.NameValue{{Name: "Website", Value: 2}}, o.LeadSources)

	// The won-only sections stay empty without won deals
	assert.Empty(t, o.DeveloperCommissions)
	assert.Empty(t, o.DeveloperUnits)
	assert.Empty(t, o.SalesByPropertyType)
	assert.Empty(t, o.SalesByAgent)
}

func TestOverview_LeadSourceRawIDFallback(t *testing.T) {
	in := report.OverviewInput{
		Deals: []domain.Deal{
			{SourceID: "OLD_CAMPAIGN"},
			{SourceID: "OLD_CAMPAIGN"},
			{SourceID: ""},
		},
		Sources: map[string]string{"WEB": "Website"},
	}

	o := report.Overview(2025, in)

	assert.Equal(t, []domain.NameValue{
		{Name: "OLD_CAMPAIGN", Value: 2},
		{Name: "Unknown", Value: 1},
	}, o.LeadSources, "unlisted sources keep their raw ID, highest count first")
}

func TestOverview_WonDealBreakdowns(t *testing.T) {
	in := report.OverviewInput{
		WonDeals: []domain.Deal{
			{Opportunity: 1000, GrossCommission: 300, Developer: "Emaar", PropertyTypeID: "468", ClosedAt: date("2025-02-01")},
			{Opportunity: 2000, GrossCommission: 100, Developer: "Damac", PropertyTypeID: "468", ClosedAt: date("2025-02-02")},
			{Opportunity: 500, Developer: "", PropertyTypeID: "999", ClosedAt: date("2025-02-03")},
		},
		PropertyTypes: map[string]string{"468": "Apartment"},
	}

	o := report.Overview(2025, in)

	require.Len(t, o.DeveloperCommissions, 3)
	assert.Equal(t, domain.DeveloperValue{Developer: "Emaar", Value: 300, Percentage: 75}, o.DeveloperCommissions[0])
	assert.Equal(t, domain.DeveloperValue{Developer: "Damac", Value: 100, Percentage: 25}, o.DeveloperCommissions[1])
	assert.Equal(t, domain.DeveloperValue{Developer: "Unknown", Value: 0, Percentage: 0}, o.DeveloperCommissions[2])

	require.Len(t, o.DeveloperUnits, 3)
	assert.Equal(t, domain.DeveloperCount{Developer: "Emaar", Units: 1}, o.DeveloperUnits[0])

	assert.Equal(t, []domain.PropertyTypeSales{
		{Type: "Apartment", Units: 2, Value: 3000},
		{Type: "Unknown", Units: 1, Value: 500},
	}, o.SalesByPropertyType)

	// Won deals alone do not populate the all-deal sections
	assert.Empty(t, o.Developers)
	assert.Empty(t, o.AllDevelopers)
}

func TestOverview_SalesByAgentPreSeededFromRoster(t *testing.T) {
	in := report.OverviewInput{
		Users: []domain.User{
			{ID: "1", Name: "Alice Smith"},
			{ID: "2", Name: "Bob Jones"},
			{ID: "3", Name: "Carol White"},
		},
		WonDeals: []domain.Deal{
			{Opportunity: 1000, AgentName: "Alice Smith", ClosedAt: date("2025-03-01")},
			// numeric agent field resolves through the assignee roster
			{Opportunity: 2000, AgentName: "108", AgentID: "2", ClosedAt: date("2025-03-02")},
			// unresolvable assignee accumulates but never appears
			{Opportunity: 500, AgentID: "999", ClosedAt: date("2025-03-03")},
		},
	}

	o := report.Overview(2025, in)

	assert.Equal(t, []domain.AgentSales{
		{Agent: "Bob Jones", Value: 2000},
		{Agent: "Alice Smith", Value: 1000},
		{Agent: "Carol White", Value: 0},
	}, o.SalesByAgent, "zero-sales roster agents appear, unknown agents do not")
}
