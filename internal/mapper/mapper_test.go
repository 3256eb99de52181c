package mapper_test

import (
	"testing"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() config.FieldMap {
	return config.FieldMap{
		Developer:        "UF_CRM_DEV",
		GrossCommission:  "UF_CRM_GROSS",
		NetCommission:    "UF_CRM_NET",
		PaymentReceived:  "UF_CRM_PAID",
		PropertyType:     "UF_CRM_PTYPE",
		AmountReceivable: "UF_CRM_RECV",
		ProjectName:      "UF_CRM_PROJ",
		AgentName:        "UF_CRM_AGENT",
		TotalCommission:  "UF_CRM_TOTAL",
		UserHiredBy:      "UF_USR_HIRED_BY",
		UserJoiningDate:  "UF_USR_JOINED",
	}
}

func TestUser(t *testing.T) {
	r := bitrix.Record{
		"ID":              float64(7),
		"NAME":            "Jane",
		"LAST_NAME":       "Doe",
		"EMAIL":           "jane@example.com",
		"UF_DEPARTMENT":   []any{float64(1), float64(2)},
		"UF_USR_HIRED_BY": "Boss",
		"UF_USR_JOINED":   "2023-06-01T00:00:00+03:00",
	}

	u := mapper.User(r, testFields())

	assert.Equal(t, "7", u.ID)
	assert.Equal(t, "Jane Doe", u.Name)
	assert.Equal(t, []string{"1", "2"}, u.DepartmentIDs)
	assert.Equal(t, "Boss", u.HiredBy)
	assert.Equal(t, "2023-06-01", u.JoiningDate)
}

func TestUsers_SkipsRecordsWithoutID(t *testing.T) {
	records := []bitrix.Record{
		{"ID": "1", "NAME": "A"},
		{"NAME": "ghost"},
	}
	users := mapper.Users(records, testFields())
	require.Len(t, users, 1)
	assert.Equal(t, "1", users[0].ID)
}

func TestStatuses(t *testing.T) {
	records := []bitrix.Record{
		{"ID": "10", "STATUS_ID": "WEB", "NAME": "Website"},
		{"NAME": "no key"},
	}
	m := mapper.Statuses(records)
	assert.Equal(t, map[string]string{"WEB": "Website"}, m)
}

func TestDeal_MoneyAndEnums(t *testing.T) {
	catalog := bitrix.FieldCatalog{
		"UF_CRM_DEV": {Type: "enumeration", Items: []bitrix.FieldItem{
			{ID: "11", Value: "Emaar"},
		}},
		"UF_CRM_AGENT": {Type: "enumeration", Items: []bitrix.FieldItem{
			{ID: "21", Value: "Alice"},
		}},
	}
	m := mapper.NewDealMapper(testFields(), catalog)

	d := m.Deal(bitrix.Record{
		"ID":             "501",
		"ASSIGNED_BY_ID": float64(7),
		"STAGE_ID":       "WON",
		"OPPORTUNITY":    "2500000.00",
		"UF_CRM_DEV":     "11",
		"UF_CRM_AGENT":   "21",
		"UF_CRM_GROSS":   "50,000|AED",
		"UF_CRM_NET":     "40000|AED",
		"UF_CRM_PTYPE":   float64(468),
		"DATE_CREATE":    "2025-02-10T09:00:00+03:00",
		"CLOSEDATE":      "2025-03-01T00:00:00+03:00",
	})

	assert.Equal(t, "501", d.ID)
	assert.Equal(t, "7", d.AgentID)
	assert.Equal(t, "Emaar", d.Developer)
	assert.Equal(t, "Alice", d.AgentName)
	assert.Equal(t, 2500000.0, d.Opportunity)
	assert.Equal(t, 50000.0, d.GrossCommission)
	assert.Equal(t, 40000.0, d.NetCommission)
	assert.Equal(t, "468", d.PropertyTypeID)
	require.NotNil(t, d.CreatedAt)
	assert.Equal(t, 2025, d.CreatedAt.Year())
	require.NotNil(t, d.ClosedAt)
}

func TestDeal_NilCatalogKeepsRawValues(t *testing.T) {
	m := mapper.NewDealMapper(testFields(), nil)
	d := m.Deal(bitrix.Record{"UF_CRM_DEV": "11"})
	assert.Equal(t, "11", d.Developer)
}

func TestDealRow_Fallbacks(t *testing.T) {
	m := mapper.NewDealMapper(testFields(), nil)
	rc := mapper.RowContext{
		Departments: map[string]string{"1": "Sales"},
		AgentTeams:  map[string][]string{"7": {"1"}},
		AgentNames:  map[string]string{"7": "Jane Doe"},
		Contacts: map[string]mapper.Contact{
			"300": {Name: "Client X", Phone: "+971-50", Email: "x@y.z"},
		},
	}

	row := m.DealRow(bitrix.Record{
		"ID":             "501",
		"ASSIGNED_BY_ID": "7",
		"CONTACT_ID":     "300",
		"CLOSEDATE":      "2025-03-01T00:00:00+03:00",
	}, rc)

	assert.Equal(t, "501", row.DealID)
	assert.Equal(t, "Jane Doe", row.AgentName, "agent field empty, roster name wins")
	assert.Equal(t, "Sales", row.Team)
	assert.Equal(t, "2025-03-01", row.TransactionDate)
	assert.Equal(t, "Client X", row.ClientName)
	assert.Equal(t, "+971-50", row.ContactPhone)
	assert.Equal(t, "N/A", row.TransactionType)
	assert.Equal(t, "N/A", row.DeveloperName)
	assert.Equal(t, 0.0, row.GrossCommission)
}

func TestContacts_MultiValueFields(t *testing.T) {
	records := []bitrix.Record{
		{
			"ID":    "300",
			"NAME":  "Client",
			"PHONE": []any{map[string]any{"VALUE": "+971"}},
			"EMAIL": []any{},
		},
	}
	contacts := mapper.Contacts(records)
	require.Contains(t, contacts, "300")
	assert.Equal(t, "+971", contacts["300"].Phone)
	assert.Equal(t, "", contacts["300"].Email)
}
