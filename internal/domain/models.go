package domain

import "time"

// Month names used for bucket labels, index 0 = January
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ShortMonthNames used for trend chart labels, index 0 = Jan
var ShortMonthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// QuarterNames in calendar order
var QuarterNames = [4]string{"Q1", "Q2", "Q3", "Q4"}

// User is an active CRM user (potential agent), normalized from user.get
type User struct {
	ID            string
	Name          string
	Email         string
	DepartmentIDs []string
	HiredBy       string
	JoiningDate   string
	PhotoURL      string
}

// Department is the flat {id, name} team lookup
type Department struct {
	ID   string
	Name string
}

// Status is a CRM status-list entry (lead sources, lead statuses)
type Status struct {
	ID       string
	StatusID string
	Name     string
}

// Lead is a normalized CRM lead record
type Lead struct {
	ID        string
	AgentID   string
	SourceID  string
	CreatedAt *time.Time
}

// Deal is a normalized CRM deal record carrying only the fields the
// aggregation engines consume. Monetary values are numeric AED amounts;
// the money-string decoding happened in the mapper.
type Deal struct {
	ID               string
	AgentID          string
	AgentName        string
	StageID          string
	SourceID         string
	Developer        string
	PropertyTypeID   string
	ProjectName      string
	Opportunity      float64
	GrossCommission  float64
	NetCommission    float64
	TotalCommission  float64
	PaymentReceived  float64
	AmountReceivable float64
	CreatedAt        *time.Time
	ClosedAt         *time.Time
}

// PeriodTotals accumulates a deal bucket for one period
type PeriodTotals struct {
	Opportunity float64 `json:"opportunity"`
	Commission  float64 `json:"commission"`
	Deals       int     `json:"deals"`
}

// MonthTotals is a labeled monthly bucket
type MonthTotals struct {
	Month string `json:"month"`
	PeriodTotals
}

// QuarterTotals is a labeled quarterly bucket
type QuarterTotals struct {
	Quarter string `json:"quarter"`
	PeriodTotals
}

// AgentReport is one agent's ranking-report row: totals plus fixed
// monthly and quarterly breakdowns for the queried year.
type AgentReport struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Rank             int             `json:"rank"`
	TotalOpportunity float64         `json:"totalOpportunity"`
	TotalCommission  float64         `json:"totalCommission"`
	TotalDeals       int             `json:"totalDeals"`
	Monthly          []MonthTotals   `json:"monthly"`
	Quarterly        []QuarterTotals `json:"quarterly"`
}

// RankingReport is the ranked per-agent performance report
type RankingReport struct {
	Year   int            `json:"year"`
	Agents []*AgentReport `json:"agents"`
}

// AgentSummary identifies an agent in list outputs
type AgentSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MonthTrend is one month of an agent's lead/deal trend line
type MonthTrend struct {
	Name  string `json:"name"`
	Leads int    `json:"leads"`
	Deals int    `json:"deals"`
}

// NameValue is a generic labeled count used by pie-chart style outputs
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AgentPerformance is one agent's dashboard card: activity counts,
// monetary sums and the monthly trend, pre-seeded at zero for every
// active user.
type AgentPerformance struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Team          string       `json:"team"`
	PhotoURL      string       `json:"photoUrl,omitempty"`
	Leads         int          `json:"leads"`
	Deals         int          `json:"deals"`
	Conversion    int          `json:"conv"`
	CommissionAED float64      `json:"commissionAED"`
	Revenue       float64      `json:"revenue"`
	MonthlyTrends []MonthTrend `json:"monthlyTrends"`
	LeadSources   []NameValue  `json:"leadSources"`
}

// Team is a selectable team filter entry
type Team struct {
	Name string `json:"name"`
}

// AgentsReport bundles per-agent performance with the team list
type AgentsReport struct {
	Year   int                 `json:"year"`
	Agents []*AgentPerformance `json:"agents"`
	Teams  []Team              `json:"teams"`
}

// OverviewKPIs are the headline numbers of the management overview
type OverviewKPIs struct {
	TotalDeals      int     `json:"totalDeals"`
	DealsWon        int     `json:"dealsWon"`
	GrossCommission float64 `json:"grossCommission"`
	NetCommission   float64 `json:"netCommission"`
}

// MonthlySales is one month's won-deal bucket in the overview
type MonthlySales struct {
	Month            string  `json:"month"`
	DealsWon         int     `json:"dealsWon"`
	PropertyPrice    float64 `json:"propertyPrice"`
	GrossCommission  float64 `json:"grossCommission"`
	NetCommission    float64 `json:"netCommission"`
	PaymentReceived  float64 `json:"paymentReceived"`
	AmountReceivable float64 `json:"amountReceivable"`
}

// DeveloperValue is a developer's total property value with its share of
// the grand total, rounded to two decimals
type DeveloperValue struct {
	Developer  string  `json:"developer"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage,omitempty"`
}

// DeveloperCount is a developer's unit count
type DeveloperCount struct {
	Developer string `json:"developer"`
	Units     int    `json:"units"`
}

// PropertyTypeSales is sold units/value per property type
type PropertyTypeSales struct {
	Type  string  `json:"type"`
	Units int     `json:"units"`
	Value float64 `json:"value"`
}

// AgentSales is an agent's won property value
type AgentSales struct {
	Agent string  `json:"agent"`
	Value float64 `json:"value"`
}

// Overview is the management overview report
type Overview struct {
	Year                 int                 `json:"year"`
	KPIs                 OverviewKPIs        `json:"kpis"`
	AllDevelopers        []string            `json:"allDevelopers"`
	MonthlySales         []MonthlySales      `json:"totalDealsByMonth"`
	PropertyTypes        []NameValue         `json:"propertyTypesData"`
	Developers           []DeveloperValue    `json:"developersData"`
	LeadSources          []NameValue         `json:"leadSourceData"`
	SalesByPropertyType  []PropertyTypeSales `json:"salesByPropertyType"`
	DeveloperCommissions []DeveloperValue    `json:"developerCommissionData"`
	DeveloperUnits       []DeveloperCount    `json:"developerUnitsData"`
	SalesByAgent         []AgentSales        `json:"salesByAgentData"`
}

// AgentLastTransaction is one agent's most recent closed deal of the year.
// Agents whose deals all lack a parseable close date show no transaction.
type AgentLastTransaction struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Team            string  `json:"team"`
	HiredBy         string  `json:"hiredBy"`
	JoiningDate     string  `json:"joiningDate"`
	Date            *string `json:"lastTransactionDate"`
	Project         *string `json:"lastTransactionProject"`
	Amount          float64 `json:"lastTransactionAmount"`
	GrossCommission float64 `json:"grossCommission"`
}

// LastTransactionsReport bundles last transactions with the team filter list
type LastTransactionsReport struct {
	Year   int                     `json:"year"`
	Agents []*AgentLastTransaction `json:"agents"`
	Teams  []Team                  `json:"teams"`
}

// DealRow is one deals-monitoring table row. Enumerated fields are
// resolved to labels ("N/A" when unresolved); monetary fields stay
// numeric — formatting happens at presentation/export time only.
type DealRow struct {
	DealID                 string  `json:"dealId"`
	AgentName              string  `json:"agentName"`
	Team                   string  `json:"team"`
	TransactionDate        string  `json:"transactionDate"`
	TransactionType        string  `json:"transactionType"`
	DealType               string  `json:"dealType"`
	ProjectName            string  `json:"projectName"`
	UnitNumber             string  `json:"unitNumber"`
	DeveloperName          string  `json:"developerName"`
	PropertyType           string  `json:"propertyType"`
	NoOfBedrooms           string  `json:"noOfBedrooms"`
	ClientName             string  `json:"clientName"`
	PropertyPrice          float64 `json:"propertyPrice"`
	GrossCommissionVAT     float64 `json:"grossCommissionInclVat"`
	GrossCommission        float64 `json:"grossCommission"`
	VAT                    float64 `json:"vat"`
	AgentNetCommission     float64 `json:"agentNetCommission"`
	ManagerCommission      float64 `json:"managerCommission"`
	SalesSupportCommission float64 `json:"salesSupportCommission"`
	CompanyNetCommission   float64 `json:"companyNetCommission"`
	CommissionSlab         string  `json:"commissionSlab"`
	Referral               string  `json:"referral"`
	ReferralFee            float64 `json:"referralFee"`
	LeadSource             string  `json:"leadSource"`
	InvoiceStatus          string  `json:"invoiceStatus"`
	PaymentReceived        string  `json:"paymentReceived"`
	FirstPayment           float64 `json:"firstPaymentReceived"`
	SecondPayment          float64 `json:"secondPaymentReceived"`
	ThirdPayment           float64 `json:"thirdPaymentReceived"`
	TotalPayment           float64 `json:"totalPaymentReceived"`
	AmountReceivable       float64 `json:"amountReceivable"`
	BookingForm            string  `json:"bookingForm"`
	PPCopy                 string  `json:"ppCopy"`
	KYC                    string  `json:"kyc"`
	Screening              string  `json:"screening"`
	ClientID               string  `json:"clientId"`
	ContactPhone           string  `json:"contactPhone"`
	ContactEmail           string  `json:"contactEmail"`
	ClientType             string  `json:"clientType"`
	PassportNo             string  `json:"passportNo"`
	EmiratesID             string  `json:"emiratesId"`
	Birthday               string  `json:"birthday"`
	Country                string  `json:"country"`
	Nationality            string  `json:"nationality"`
}

// DealsPage is one deals-monitoring page
type DealsPage struct {
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	Total    int        `json:"total"`
	Deals    []*DealRow `json:"deals"`
}

// AgentListReport is the lightweight agent list plus the full ranking
// performance map, used by the report view's agent selector
type AgentListReport struct {
	Year   int                     `json:"year"`
	Agents []AgentSummary          `json:"agents"`
	Report map[string]*AgentReport `json:"report"`
}
