// Package mapper converts raw CRM records into domain types. All field-ID
// indirection (which custom field carries the developer, commissions and
// so on) is resolved here, so the report engines only ever see typed,
// numeric data.
package mapper

import (
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
)

// User maps a user.get record. The display name is assembled from
// NAME/LAST_NAME with email and ID fallbacks so the roster never shows a
// blank agent.
func User(r bitrix.Record, fields config.FieldMap) domain.User {
	id := normalize.String(r["ID"])
	return domain.User{
		ID:            id,
		Name:          normalize.DisplayName(normalize.String(r["NAME"]), normalize.String(r["LAST_NAME"]), normalize.String(r["EMAIL"]), id),
		Email:         normalize.String(r["EMAIL"]),
		DepartmentIDs: normalize.StringList(r["UF_DEPARTMENT"]),
		HiredBy:       normalize.String(r[fields.UserHiredBy]),
		JoiningDate:   normalize.DateOnly(normalize.String(r[fields.UserJoiningDate])),
		PhotoURL:      normalize.String(r["PERSONAL_PHOTO"]),
	}
}

// Users maps a user list, skipping records without an ID
func Users(records []bitrix.Record, fields config.FieldMap) []domain.User {
	out := make([]domain.User, 0, len(records))
	for _, r := range records {
		u := User(r, fields)
		if u.ID == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Departments maps department.get records into an ID-to-name lookup
func Departments(records []bitrix.Record) map[string]string {
	out := make(map[string]string, len(records))
	for _, r := range records {
		id := normalize.String(r["ID"])
		if id == "" {
			continue
		}
		out[id] = normalize.String(r["NAME"])
	}
	return out
}

// Statuses maps crm.status.list records into a STATUS_ID-to-name lookup
// (lead sources and lead statuses are both keyed by STATUS_ID on the
// records that reference them)
func Statuses(records []bitrix.Record) map[string]string {
	out := make(map[string]string, len(records))
	for _, r := range records {
		key := normalize.String(r["STATUS_ID"])
		if key == "" {
			continue
		}
		out[key] = normalize.String(r["NAME"])
	}
	return out
}

// Lead maps a crm.lead.list record
func Lead(r bitrix.Record) domain.Lead {
	return domain.Lead{
		ID:        normalize.String(r["ID"]),
		AgentID:   normalize.String(r["ASSIGNED_BY_ID"]),
		SourceID:  normalize.String(r["SOURCE_ID"]),
		CreatedAt: parseDate(r["DATE_CREATE"]),
	}
}

// Leads maps a lead list
func Leads(records []bitrix.Record) []domain.Lead {
	out := make([]domain.Lead, 0, len(records))
	for _, r := range records {
		out = append(out, Lead(r))
	}
	return out
}

// DealMapper maps deal records using the configured field IDs and,
// when available, the deal field catalog for enum resolution. A nil
// catalog leaves enumerated fields as their raw stored values.
type DealMapper struct {
	fields  config.FieldMap
	catalog bitrix.FieldCatalog
}

// NewDealMapper builds a mapper over the configured field IDs
func NewDealMapper(fields config.FieldMap, catalog bitrix.FieldCatalog) *DealMapper {
	return &DealMapper{fields: fields, catalog: catalog}
}

// enum resolves an enumerated field's stored value to its display label;
// empty input yields the fallback, an unknown option ID passes through raw
func (m *DealMapper) enum(r bitrix.Record, fieldID, fallback string) string {
	raw := normalize.String(r[fieldID])
	if raw == "" {
		return fallback
	}
	if items := m.catalog.Enum(fieldID); items != nil {
		if label, ok := items[raw]; ok && label != "" {
			return label
		}
	}
	return raw
}

// text reads a plain string field with a fallback for empty values
func text(r bitrix.Record, fieldID, fallback string) string {
	if s := normalize.String(r[fieldID]); s != "" {
		return s
	}
	return fallback
}

// Deal maps a crm.deal.list record into the aggregation shape. Monetary
// custom fields go through Money (money-string decoding); OPPORTUNITY is
// a plain decimal.
func (m *DealMapper) Deal(r bitrix.Record) domain.Deal {
	return domain.Deal{
		ID:               normalize.String(r["ID"]),
		AgentID:          normalize.String(r["ASSIGNED_BY_ID"]),
		AgentName:        m.enum(r, m.fields.AgentName, ""),
		StageID:          normalize.String(r["STAGE_ID"]),
		SourceID:         normalize.String(r["SOURCE_ID"]),
		Developer:        m.enum(r, m.fields.Developer, ""),
		PropertyTypeID:   normalize.String(r[m.fields.PropertyType]),
		ProjectName:      m.enum(r, m.fields.ProjectName, ""),
		Opportunity:      normalize.Float(r["OPPORTUNITY"]),
		GrossCommission:  normalize.Money(r[m.fields.GrossCommission]),
		NetCommission:    normalize.Money(r[m.fields.NetCommission]),
		TotalCommission:  normalize.Money(r[m.fields.TotalCommission]),
		PaymentReceived:  normalize.Money(r[m.fields.PaymentReceived]),
		AmountReceivable: normalize.Money(r[m.fields.AmountReceivable]),
		CreatedAt:        parseDate(r["DATE_CREATE"]),
		ClosedAt:         parseDate(r["CLOSEDATE"]),
	}
}

// Deals maps a deal list
func (m *DealMapper) Deals(records []bitrix.Record) []domain.Deal {
	out := make([]domain.Deal, 0, len(records))
	for _, r := range records {
		out = append(out, m.Deal(r))
	}
	return out
}

// Contact is the slice of contact data the monitoring table shows
type Contact struct {
	Name  string
	Phone string
	Email string
}

// Contacts maps crm.contact.list records into an ID lookup. PHONE and
// EMAIL arrive as multi-value arrays of {VALUE: ...} objects; the first
// entry wins.
func Contacts(records []bitrix.Record) map[string]Contact {
	out := make(map[string]Contact, len(records))
	for _, r := range records {
		id := normalize.String(r["ID"])
		if id == "" {
			continue
		}
		out[id] = Contact{
			Name:  normalize.DisplayName(normalize.String(r["NAME"]), normalize.String(r["LAST_NAME"]), "", id),
			Phone: multiValue(r["PHONE"]),
			Email: multiValue(r["EMAIL"]),
		}
	}
	return out
}

// multiValue extracts the first VALUE of a CRM multi-field array
func multiValue(v any) string {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return ""
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return ""
	}
	return normalize.String(first["VALUE"])
}

// RowContext carries the lookup tables a monitoring row resolves against
type RowContext struct {
	// Departments is the department ID-to-name lookup
	Departments map[string]string
	// AgentTeams maps a user ID to their department IDs
	AgentTeams map[string][]string
	// AgentNames maps a user ID to their display name
	AgentNames map[string]string
	// Contacts is the contact lookup for client columns
	Contacts map[string]Contact
}

// DealRow maps one deal into a monitoring table row. Every display field
// falls back to "N/A" so the table and its CSV export never show holes;
// monetary fields stay numeric.
func (m *DealMapper) DealRow(r bitrix.Record, rc RowContext) *domain.DealRow {
	f := m.fields

	contactID := normalize.String(r["CONTACT_ID"])
	contact := rc.Contacts[contactID]
	agentID := normalize.String(r["ASSIGNED_BY_ID"])

	clientName := m.enum(r, f.ClientName, "")
	if clientName == "" {
		clientName = contact.Name
	}
	if clientName == "" {
		clientName = normalize.NA
	}

	transactionDate := normalize.DateOnly(normalize.String(r["CLOSEDATE"]))
	if transactionDate == "" {
		transactionDate = normalize.DateOnly(normalize.String(r["DATE_CREATE"]))
	}
	if transactionDate == "" {
		transactionDate = normalize.NA
	}

	team := m.enum(r, f.Team, "")
	if team == "" {
		team = normalize.TeamNames(rc.AgentTeams[agentID], rc.Departments)
	}

	agentName := m.enum(r, f.AgentName, "")
	if agentName == "" {
		agentName = normalize.Lookup(rc.AgentNames, agentID, normalize.NA)
	}

	return &domain.DealRow{
		DealID:                 normalize.String(r["ID"]),
		AgentName:              agentName,
		Team:                   team,
		TransactionDate:        transactionDate,
		TransactionType:        m.enum(r, f.TransactionType, normalize.NA),
		DealType:               m.enum(r, "TYPE_ID", normalize.NA),
		ProjectName:            m.enum(r, f.ProjectName, normalize.NA),
		UnitNumber:             text(r, f.UnitNumber, normalize.NA),
		DeveloperName:          m.enum(r, f.Developer, normalize.NA),
		PropertyType:           m.enum(r, f.PropertyType, normalize.NA),
		NoOfBedrooms:           m.enum(r, f.NoOfBedrooms, normalize.NA),
		ClientName:             clientName,
		PropertyPrice:          normalize.Float(r["OPPORTUNITY"]),
		GrossCommissionVAT:     normalize.Money(r[f.GrossCommissionVAT]),
		GrossCommission:        normalize.Money(r[f.GrossCommission]),
		VAT:                    normalize.Money(r[f.VAT]),
		AgentNetCommission:     normalize.Money(r[f.AgentNetCommission]),
		ManagerCommission:      normalize.Money(r[f.ManagerCommission]),
		SalesSupportCommission: normalize.Money(r[f.SalesSupportCommission]),
		CompanyNetCommission:   normalize.Money(r[f.CompanyNetCommission]),
		CommissionSlab:         m.enum(r, f.CommissionSlab, normalize.NA),
		Referral:               m.enum(r, f.Referral, normalize.NA),
		ReferralFee:            normalize.Money(r[f.ReferralFee]),
		LeadSource:             m.enum(r, "SOURCE_ID", normalize.NA),
		InvoiceStatus:          m.enum(r, f.InvoiceStatus, normalize.NA),
		PaymentReceived:        m.enum(r, f.PaymentStatus, normalize.NA),
		FirstPayment:           normalize.Money(r[f.FirstPayment]),
		SecondPayment:          normalize.Money(r[f.SecondPayment]),
		ThirdPayment:           normalize.Money(r[f.ThirdPayment]),
		TotalPayment:           normalize.Money(r[f.TotalPayment]),
		AmountReceivable:       normalize.Money(r[f.AmountReceivable]),
		BookingForm:            m.enum(r, f.BookingForm, normalize.NA),
		PPCopy:                 m.enum(r, f.PPCopy, normalize.NA),
		KYC:                    m.enum(r, f.KYC, normalize.NA),
		Screening:              m.enum(r, f.Screening, normalize.NA),
		ClientID:               text(r, f.ClientID, contactID),
		ContactPhone:           fallback(contact.Phone, normalize.NA),
		ContactEmail:           fallback(contact.Email, normalize.NA),
		ClientType:             m.enum(r, f.ClientType, normalize.NA),
		PassportNo:             text(r, f.PassportNo, normalize.NA),
		EmiratesID:             text(r, f.EmiratesID, normalize.NA),
		Birthday:               text(r, f.Birthday, normalize.NA),
		Country:                m.enum(r, f.Country, normalize.NA),
		Nationality:            m.enum(r, f.Nationality, normalize.NA),
	}
}

// PropertyTypes returns the property-type option labels from the catalog,
// for resolving Deal.PropertyTypeID in the overview
func (m *DealMapper) PropertyTypes() map[string]string {
	return m.catalog.Enum(m.fields.PropertyType)
}

func fallback(s, alt string) string {
	if s == "" {
		return alt
	}
	return s
}

func parseDate(v any) *time.Time {
	t, ok := normalize.Date(normalize.String(v))
	if !ok {
		return nil
	}
	return &t
}
