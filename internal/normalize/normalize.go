// Package normalize decodes the CRM's heterogeneous field encodings into
// clean numeric and display values. Every monetary field must pass through
// Money before aggregation; skipping it silently corrupts sums.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NA is the sentinel for unresolved display values. Downstream table and
// CSV rendering rely on it never being empty.
const NA = "N/A"

// Unknown is the fallback bucket for unresolvable grouping keys
const Unknown = "Unknown"

// Unassigned is the team shown for users with no department
const Unassigned = "Unassigned"

// Money decodes a Bitrix monetary value. String values may carry a
// currency suffix ("2,500,000|AED") and thousands separators; plain
// numbers pass through. Empty, nil or non-numeric input yields 0.
func Money(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		amount := val
		if idx := strings.IndexByte(amount, '|'); idx >= 0 {
			amount = amount[:idx]
		}
		amount = strings.ReplaceAll(amount, ",", "")
		f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Float decodes a plain numeric field (e.g. OPPORTUNITY arrives as a
// bare decimal string). Non-numeric input yields 0.
func Float(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// String coerces a record field to its string form. Numeric IDs are
// rendered without a decimal point; lists take their first element,
// matching how the source system delivers single-select values.
func String(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []any:
		if len(val) == 0 {
			return ""
		}
		return String(val[0])
	default:
		return fmt.Sprintf("%v", val)
	}
}

// StringList coerces a field that may be a single value or an array of
// values (e.g. UF_DEPARTMENT) into a string slice. Nil yields an empty
// slice, never nil-panics.
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := String(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := String(val); s != "" {
			return []string{s}
		}
		return nil
	}
}

// dateLayouts in order of how the CRM actually serializes timestamps
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date parses a CRM date string. The second return is false for empty or
// unparseable input; such records must be excluded from month/quarter
// bucketing (the engine decides whether they still count toward totals).
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOnly trims a timestamp to its date part for display ("2025-06-01")
func DateOnly(s string) string {
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Quarter maps a calendar month to its quarter: 1-3 Q1, 4-6 Q2,
// 7-9 Q3, 10-12 Q4.
func Quarter(m time.Month) string {
	switch {
	case m <= time.March:
		return "Q1"
	case m <= time.June:
		return "Q2"
	case m <= time.September:
		return "Q3"
	default:
		return "Q4"
	}
}

// QuarterIndex is Quarter as a 0-based index
func QuarterIndex(m time.Month) int {
	return (int(m) - 1) / 3
}

// Lookup resolves an enumerated field ID through an ID-to-label map,
// falling back to the given sentinel instead of an empty string.
func Lookup(m map[string]string, id, fallback string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return fallback
}

// TeamNames resolves one-or-many department IDs into a display string:
// each resolved name joined with ", ", unknown IDs resolving to "Unknown"
// per entry, and an empty assignment collapsing to "Unassigned".
func TeamNames(ids []string, departments map[string]string) string {
	if len(ids) == 0 {
		return Unassigned
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, Lookup(departments, id, Unknown))
	}
	return strings.Join(names, ", ")
}

// DisplayName assembles a user's display name from first/last name with
// the email local part and finally "User <id>" as fallbacks.
func DisplayName(first, last, email, id string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name != "" {
		return name
	}
	if email != "" {
		if idx := strings.IndexByte(email, '@'); idx > 0 {
			return email[:idx]
		}
		return email
	}
	return "User " + id
}

// RoundPct converts part/total into a percentage rounded to two decimal
// places. A zero total yields 0, never NaN.
func RoundPct(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(part/total*100*100) / 100
}
