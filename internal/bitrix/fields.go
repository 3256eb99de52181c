package bitrix

import (
	"errors"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
)

// ErrDisabled is returned by operations on a disabled (nil) client
var ErrDisabled = errors.New("bitrix: client disabled, webhook URL not configured")

// FieldItem is one enumeration option of a CRM field. IDs arrive as
// strings or numbers depending on the field, so the raw value is kept
// loose and coerced on access.
type FieldItem struct {
	ID    any    `json:"ID"`
	Value string `json:"VALUE"`
}

// FieldMeta describes one deal field from crm.deal.fields. Enumeration
// options live under "items" for user fields and "LIST" for some system
// fields; ItemMap handles both.
type FieldMeta struct {
	Type  string      `json:"type"`
	Title string      `json:"title"`
	Items []FieldItem `json:"items"`
	List  []FieldItem `json:"LIST"`
}

// ItemMap returns the field's enum option IDs mapped to display values
func (m FieldMeta) ItemMap() map[string]string {
	items := m.Items
	if len(items) == 0 {
		items = m.List
	}
	if len(items) == 0 {
		return nil
	}
	out := make(map[string]string, len(items))
	for _, item := range items {
		out[normalize.String(item.ID)] = item.Value
	}
	return out
}

// FieldCatalog is the full deal field metadata keyed by field ID
type FieldCatalog map[string]FieldMeta

// Enum returns the option map for a field, or nil when the field is
// missing or not an enumeration
func (c FieldCatalog) Enum(fieldID string) map[string]string {
	if fieldID == "" {
		return nil
	}
	meta, ok := c[fieldID]
	if !ok {
		return nil
	}
	return meta.ItemMap()
}
