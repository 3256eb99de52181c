package report

import (
	"sort"
	"strconv"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
)

// unknownAgent buckets won deals whose agent cannot be resolved against
// the roster. It accumulates during the fold but is filtered from the
// sales-by-agent output.
const unknownAgent = "Unknown Agent"

// OverviewInput bundles the fetched data behind the management overview.
// Deals is every deal closed in the year regardless of stage; WonDeals is
// its won-stage subset. Users is the active roster that pre-seeds the
// sales-by-agent breakdown.
type OverviewInput struct {
	Deals    []domain.Deal
	WonDeals []domain.Deal
	Users    []domain.User
	// Sources resolves SOURCE_ID, PropertyTypes resolves the property
	// type enum option IDs
	Sources       map[string]string
	PropertyTypes map[string]string
}

// Overview builds the management overview. Property-type counts, the
// developer value breakdown and the lead-source counts fold over all
// deals of the year; monthly buckets, commissions, developer units and
// the per-type and per-agent sales fold over won deals only. Won deals
// without a parseable close date count toward the KPIs and breakdowns
// but not the monthly buckets.
func Overview(year int, in OverviewInput) *domain.Overview {
	out := &domain.Overview{
		Year:          year,
		AllDevelopers: []string{},
		MonthlySales:  make([]domain.MonthlySales, 12),
	}
	for i := range out.MonthlySales {
		out.MonthlySales[i].Month = domain.ShortMonthNames[i]
	}

	out.KPIs.TotalDeals = len(in.Deals)
	out.KPIs.DealsWon = len(in.WonDeals)

	type valueAcc struct {
		name  string
		value float64
	}
	developers := NewTable(func(name string) *valueAcc {
		return &valueAcc{name: name}
	})
	propertyTypes := NewTable(func(name string) *domain.NameValue {
		return &domain.NameValue{Name: name}
	})
	sources := NewTable(func(name string) *domain.NameValue {
		return &domain.NameValue{Name: name}
	})

	var totalValue float64
	seenDevelopers := map[string]bool{}

	for _, d := range in.Deals {
		developer := d.Developer
		if developer == "" {
			developer = normalize.Unknown
		} else if !seenDevelopers[developer] {
			seenDevelopers[developer] = true
			out.AllDevelopers = append(out.AllDevelopers, developer)
		}
		developers.At(developer).value += d.Opportunity
		totalValue += d.Opportunity

		propertyType := normalize.Lookup(in.PropertyTypes, d.PropertyTypeID, normalize.Unknown)
		propertyTypes.At(propertyType).Value++

		sources.At(sourceName(d.SourceID, in.Sources)).Value++
	}

	roster := make(map[string]string, len(in.Users))
	agentSales := NewTable(func(name string) *domain.AgentSales {
		return &domain.AgentSales{Agent: name}
	})
	for _, u := range in.Users {
		roster[u.ID] = u.Name
		agentSales.Seed(u.Name)
	}

	type wonDeveloperAcc struct {
		name       string
		commission float64
		units      int
	}
	wonDevelopers := NewTable(func(name string) *wonDeveloperAcc {
		return &wonDeveloperAcc{name: name}
	})
	typeSales := NewTable(func(name string) *domain.PropertyTypeSales {
		return &domain.PropertyTypeSales{Type: name}
	})

	var totalCommission float64

	for _, d := range in.WonDeals {
		out.KPIs.GrossCommission += d.GrossCommission
		out.KPIs.NetCommission += d.NetCommission
		totalCommission += d.GrossCommission

		if d.ClosedAt != nil && d.ClosedAt.Year() == year {
			m := &out.MonthlySales[int(d.ClosedAt.Month())-1]
			m.DealsWon++
			m.PropertyPrice += d.Opportunity
			m.GrossCommission += d.GrossCommission
			m.NetCommission += d.NetCommission
			m.PaymentReceived += d.PaymentReceived
			m.AmountReceivable += d.AmountReceivable
		}

		developer := d.Developer
		if developer == "" {
			developer = normalize.Unknown
		}
		dev := wonDevelopers.At(developer)
		dev.commission += d.GrossCommission
		dev.units++

		propertyType := normalize.Lookup(in.PropertyTypes, d.PropertyTypeID, normalize.Unknown)
		ts := typeSales.At(propertyType)
		ts.Units++
		ts.Value += d.Opportunity

		agentSales.At(agentSalesName(d, roster)).Value += d.Opportunity
	}

	for _, dev := range developers.Rows() {
		out.Developers = append(out.Developers, domain.DeveloperValue{
			Developer:  dev.name,
			Value:      dev.value,
			Percentage: normalize.RoundPct(dev.value, totalValue),
		})
	}
	for _, pt := range propertyTypes.Rows() {
		out.PropertyTypes = append(out.PropertyTypes, *pt)
	}
	for _, s := range sources.Rows() {
		out.LeadSources = append(out.LeadSources, *s)
	}
	sort.SliceStable(out.LeadSources, func(i, j int) bool {
		return out.LeadSources[i].Value > out.LeadSources[j].Value
	})

	for _, dev := range wonDevelopers.Rows() {
		out.DeveloperCommissions = append(out.DeveloperCommissions, domain.DeveloperValue{
			Developer:  dev.name,
			Value:      dev.commission,
			Percentage: normalize.RoundPct(dev.commission, totalCommission),
		})
		out.DeveloperUnits = append(out.DeveloperUnits, domain.DeveloperCount{
			Developer: dev.name,
			Units:     dev.units,
		})
	}
	sort.SliceStable(out.DeveloperCommissions, func(i, j int) bool {
		return out.DeveloperCommissions[i].Value > out.DeveloperCommissions[j].Value
	})
	sort.SliceStable(out.DeveloperUnits, func(i, j int) bool {
		return out.DeveloperUnits[i].Units > out.DeveloperUnits[j].Units
	})

	for _, ts := range typeSales.Rows() {
		out.SalesByPropertyType = append(out.SalesByPropertyType, *ts)
	}
	sort.SliceStable(out.SalesByPropertyType, func(i, j int) bool {
		return out.SalesByPropertyType[i].Value > out.SalesByPropertyType[j].Value
	})

	for _, a := range agentSales.Rows() {
		if a.Agent == unknownAgent {
			continue
		}
		out.SalesByAgent = append(out.SalesByAgent, *a)
	}
	sort.SliceStable(out.SalesByAgent, func(i, j int) bool {
		return out.SalesByAgent[i].Value > out.SalesByAgent[j].Value
	})

	return out
}

// sourceName resolves a deal's SOURCE_ID through the status dictionary,
// keeping the raw ID for unlisted sources and "Unknown" for empty ones
func sourceName(sourceID string, dictionary map[string]string) string {
	if name, ok := dictionary[sourceID]; ok && name != "" {
		return name
	}
	if sourceID != "" {
		return sourceID
	}
	return normalize.Unknown
}

// agentSalesName resolves the agent a won deal sells under. A missing or
// numeric agent field falls back to the roster name of the assignee.
func agentSalesName(d domain.Deal, roster map[string]string) string {
	name := d.AgentName
	if name == "" || isNumeric(name) {
		name = roster[d.AgentID]
		if name == "" {
			name = unknownAgent
		}
	}
	return name
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
