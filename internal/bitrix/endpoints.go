package bitrix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// userSelect is the projection for user.get calls; department membership
// and the custom hire fields feed the team and agent views
func (c *Client) userSelect() []string {
	fields := []string{"ID", "NAME", "LAST_NAME", "EMAIL", "PERSONAL_PHOTO", "UF_DEPARTMENT"}
	if c.cfg.Fields.UserHiredBy != "" {
		fields = append(fields, c.cfg.Fields.UserHiredBy)
	}
	if c.cfg.Fields.UserJoiningDate != "" {
		fields = append(fields, c.cfg.Fields.UserJoiningDate)
	}
	return fields
}

// dealSelect is the projection shared by the deal list fetches: every
// system field plus the configured custom fields. Unmapped optional
// fields are simply absent from the projection.
func (c *Client) dealSelect() []string {
	fields := []string{"*"}
	for _, id := range []string{
		c.cfg.Fields.Developer,
		c.cfg.Fields.GrossCommission,
		c.cfg.Fields.NetCommission,
		c.cfg.Fields.PaymentReceived,
		c.cfg.Fields.PropertyType,
		c.cfg.Fields.AmountReceivable,
		c.cfg.Fields.ProjectName,
		c.cfg.Fields.AgentName,
		c.cfg.Fields.TotalCommission,
		c.cfg.Fields.TransactionType,
		c.cfg.Fields.PropertyReference,
		c.cfg.Fields.UnitNumber,
		c.cfg.Fields.NoOfBedrooms,
		c.cfg.Fields.ClientName,
		c.cfg.Fields.Team,
		c.cfg.Fields.GrossCommissionVAT,
		c.cfg.Fields.VAT,
		c.cfg.Fields.AgentNetCommission,
		c.cfg.Fields.ManagerCommission,
		c.cfg.Fields.SalesSupportCommission,
		c.cfg.Fields.CompanyNetCommission,
		c.cfg.Fields.CommissionSlab,
		c.cfg.Fields.Referral,
		c.cfg.Fields.ReferralFee,
		c.cfg.Fields.InvoiceStatus,
		c.cfg.Fields.PaymentStatus,
		c.cfg.Fields.FirstPayment,
		c.cfg.Fields.SecondPayment,
		c.cfg.Fields.ThirdPayment,
		c.cfg.Fields.TotalPayment,
		c.cfg.Fields.BookingForm,
		c.cfg.Fields.PPCopy,
		c.cfg.Fields.KYC,
		c.cfg.Fields.Screening,
		c.cfg.Fields.ClientID,
		c.cfg.Fields.ClientType,
		c.cfg.Fields.PassportNo,
		c.cfg.Fields.EmiratesID,
		c.cfg.Fields.Birthday,
		c.cfg.Fields.Country,
		c.cfg.Fields.Nationality,
	} {
		if id != "" {
			fields = append(fields, id)
		}
	}
	return fields
}

func yearBounds(year int) (string, string) {
	return fmt.Sprintf("%d-01-01T00:00:00", year), fmt.Sprintf("%d-12-31T23:59:59", year)
}

// GetActiveUsers fetches every active CRM user via the windowed batch
// path. Errors surface with any partial result; the caller decides how
// far a report can degrade without an agent roster.
func (c *Client) GetActiveUsers(ctx context.Context) ([]Record, error) {
	if c == nil {
		return nil, ErrDisabled
	}
	params := url.Values{}
	params.Set("filter[ACTIVE]", "true")
	for _, field := range c.userSelect() {
		params.Add("select[]", field)
	}
	return c.fetchWindowed(ctx, "user.get", params)
}

// GetDepartments fetches the full department tree
func (c *Client) GetDepartments(ctx context.Context) []Record {
	return c.FetchAll(ctx, "department.get", nil)
}

// GetDealsByYear fetches every deal closed in the given year regardless
// of stage, the dataset behind the overview breakdowns and the
// last-transaction view. The window runs from Jan 1 to the next Jan 1.
func (c *Client) GetDealsByYear(ctx context.Context, year int) []Record {
	if c == nil {
		return nil
	}
	params := url.Values{}
	params.Set("order[CLOSEDATE]", "ASC")
	params.Set("filter[>=CLOSEDATE]", fmt.Sprintf("%d-01-01T00:00:00", year))
	params.Set("filter[<=CLOSEDATE]", fmt.Sprintf("%d-01-01T00:00:00", year+1))
	for _, field := range c.dealSelect() {
		params.Add("select[]", field)
	}
	return c.FetchAll(ctx, "crm.deal.list", params)
}

// GetDealsCreatedInYear fetches deals created in the given year, the
// dataset behind the ranking report. A non-empty agentID narrows the
// fetch to that assignee.
func (c *Client) GetDealsCreatedInYear(ctx context.Context, year int, agentID string) []Record {
	if c == nil {
		return nil
	}
	from, to := yearBounds(year)
	params := url.Values{}
	params.Set("order[DATE_CREATE]", "ASC")
	params.Set("filter[>=DATE_CREATE]", from)
	params.Set("filter[<=DATE_CREATE]", to)
	if agentID != "" {
		params.Set("filter[ASSIGNED_BY_ID]", agentID)
	}
	for _, field := range c.dealSelect() {
		params.Add("select[]", field)
	}
	return c.FetchAll(ctx, "crm.deal.list", params)
}

// GetWonDealsByYear fetches deals closed in the given year on one of the
// configured won stages
func (c *Client) GetWonDealsByYear(ctx context.Context, year int) []Record {
	if c == nil {
		return nil
	}
	from, to := yearBounds(year)
	params := url.Values{}
	params.Set("order[CLOSEDATE]", "ASC")
	params.Set("filter[>=CLOSEDATE]", from)
	params.Set("filter[<=CLOSEDATE]", to)
	for i, stage := range c.cfg.WonStageIDs {
		params.Set(fmt.Sprintf("filter[STAGE_ID][%d]", i), stage)
	}
	for _, field := range c.dealSelect() {
		params.Add("select[]", field)
	}
	return c.FetchAll(ctx, "crm.deal.list", params)
}

// GetLeadsByYear fetches every lead created in the given year via the
// windowed batch path
func (c *Client) GetLeadsByYear(ctx context.Context, year int) ([]Record, error) {
	if c == nil {
		return nil, ErrDisabled
	}
	from, to := yearBounds(year)
	params := url.Values{}
	params.Set("order[DATE_CREATE]", "ASC")
	params.Set("filter[>=DATE_CREATE]", from)
	params.Set("filter[<=DATE_CREATE]", to)
	for _, field := range []string{"ID", "ASSIGNED_BY_ID", "SOURCE_ID", "STATUS_ID", "DATE_CREATE"} {
		params.Add("select[]", field)
	}
	return c.fetchWindowed(ctx, "crm.lead.list", params)
}

// GetLeadSources fetches the SOURCE status dictionary
func (c *Client) GetLeadSources(ctx context.Context) []Record {
	params := url.Values{}
	params.Set("filter[ENTITY_ID]", "SOURCE")
	return c.FetchAll(ctx, "crm.status.list", params)
}

// GetLeadStatuses fetches the lead STATUS dictionary
func (c *Client) GetLeadStatuses(ctx context.Context) []Record {
	params := url.Values{}
	params.Set("filter[ENTITY_ID]", "STATUS")
	return c.FetchAll(ctx, "crm.status.list", params)
}

// GetDealFields fetches the deal field metadata, including enumeration
// options used to translate stored option IDs into display values.
// Surfaces errors: the monitoring view cannot render without it.
func (c *Client) GetDealFields(ctx context.Context) (FieldCatalog, error) {
	if c == nil {
		return nil, ErrDisabled
	}
	env, err := c.get(ctx, "crm.deal.fields")
	if err != nil {
		return nil, err
	}
	if env.Error != "" {
		return nil, fmt.Errorf("CRM API error %s: %s", env.Error, env.ErrorDescription)
	}
	var catalog FieldCatalog
	if err := json.Unmarshal(env.Result, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode deal fields: %w", err)
	}
	return catalog, nil
}

// GetContacts fetches contacts by ID in chunks small enough for a single
// page each. Errors surface: the deals view shows client names or an
// error, never silently blank columns.
func (c *Client) GetContacts(ctx context.Context, ids []string) ([]Record, error) {
	if c == nil {
		return nil, ErrDisabled
	}
	var all []Record
	for start := 0; start < len(ids); start += PageSize {
		end := min(start+PageSize, len(ids))
		params := url.Values{}
		for i, id := range ids[start:end] {
			params.Set(fmt.Sprintf("filter[ID][%d]", i), id)
		}
		for _, field := range []string{"ID", "NAME", "LAST_NAME", "PHONE", "EMAIL"} {
			params.Add("select[]", field)
		}
		records, _, err := c.FetchPage(ctx, "crm.contact.list", params, 0)
		if err != nil {
			return nil, fmt.Errorf("contact fetch failed: %w", err)
		}
		all = append(all, records...)
	}
	return all, nil
}

// GetAllDeals fetches the complete deal list newest first, for the
// monitoring export. Soft-failing: a pagination failure exports what was
// fetched.
func (c *Client) GetAllDeals(ctx context.Context) []Record {
	if c == nil {
		return nil
	}
	params := url.Values{}
	params.Set("order[DATE_CREATE]", "DESC")
	for _, field := range c.dealSelect() {
		params.Add("select[]", field)
	}
	return c.FetchAll(ctx, "crm.deal.list", params)
}

// GetDealsPage fetches one page of deals for the monitoring table, newest
// first, and reports the total count for pagination. Errors surface.
func (c *Client) GetDealsPage(ctx context.Context, start int) ([]Record, int, error) {
	if c == nil {
		return nil, 0, ErrDisabled
	}
	params := url.Values{}
	params.Set("order[DATE_CREATE]", "DESC")
	for _, field := range c.dealSelect() {
		params.Add("select[]", field)
	}
	return c.FetchPage(ctx, "crm.deal.list", params, start)
}
