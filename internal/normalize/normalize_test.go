package normalize_test

import (
	"testing"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/normalize"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"currency suffix", "2500000|AED", 2500000},
		{"thousands separators", "2,500,000.50|AED", 2500000.50},
		{"plain decimal string", "1234.56", 1234.56},
		{"no suffix with commas", "1,000", 1000},
		{"numeric", float64(99.5), 99.5},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"garbage", "abc|AED", 0},
		{"suffix only", "|AED", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Money(tt.in))
		})
	}
}

func TestFloat(t *testing.T) {
	assert.Equal(t, 150000.0, normalize.Float("150000.00"))
	assert.Equal(t, 42.0, normalize.Float(float64(42)))
	assert.Equal(t, 0.0, normalize.Float("not a number"))
	assert.Equal(t, 0.0, normalize.Float(nil))
}

func TestString(t *testing.T) {
	assert.Equal(t, "123", normalize.String(float64(123)))
	assert.Equal(t, "12.5", normalize.String(float64(12.5)))
	assert.Equal(t, "abc", normalize.String("abc"))
	assert.Equal(t, "", normalize.String(nil))
	assert.Equal(t, "7", normalize.String([]any{float64(7), float64(8)}))
	assert.Equal(t, "1", normalize.String(true))
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, normalize.StringList([]any{float64(1), float64(2)}))
	assert.Equal(t, []string{"5"}, normalize.StringList("5"))
	assert.Nil(t, normalize.StringList(nil))
}

func TestDate(t *testing.T) {
	got, ok := normalize.Date("2025-06-01T10:30:00+03:00")
	assert.True(t, ok)
	assert.Equal(t, time.June, got.Month())

	got, ok = normalize.Date("2025-06-01")
	assert.True(t, ok)
	assert.Equal(t, 2025, got.Year())

	_, ok = normalize.Date("")
	assert.False(t, ok)

	_, ok = normalize.Date("not a date")
	assert.False(t, ok)
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2025-06-01", normalize.DateOnly("2025-06-01T10:30:00+03:00"))
	assert.Equal(t, "2025-06-01", normalize.DateOnly("2025-06-01"))
	assert.Equal(t, "", normalize.DateOnly(""))
}

func TestQuarter(t *testing.T) {
	assert.Equal(t, "Q1", normalize.Quarter(time.January))
	assert.Equal(t, "Q1", normalize.Quarter(time.March))
	assert.Equal(t, "Q2", normalize.Quarter(time.April))
	assert.Equal(t, "Q2", normalize.Quarter(time.June))
	assert.Equal(t, "Q3", normalize.Quarter(time.July))
	assert.Equal(t, "Q3", normalize.Quarter(time.September))
	assert.Equal(t, "Q4", normalize.Quarter(time.October))
	assert.Equal(t, "Q4", normalize.Quarter(time.December))
}

func TestTeamNames(t *testing.T) {
	departments := map[string]string{"1": "Sales", "2": "Marketing"}

	assert.Equal(t, "Unassigned", normalize.TeamNames(nil, departments))
	assert.Equal(t, "Sales", normalize.TeamNames([]string{"1"}, departments))
	assert.Equal(t, "Sales, Marketing", normalize.TeamNames([]string{"1", "2"}, departments))
	assert.Equal(t, "Sales, Unknown", normalize.TeamNames([]string{"1", "99"}, departments))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", normalize.DisplayName("Jane", "Doe", "jane@example.com", "7"))
	assert.Equal(t, "Jane", normalize.DisplayName("Jane", "", "jane@example.com", "7"))
	assert.Equal(t, "jane", normalize.DisplayName("", "", "jane@example.com", "7"))
	assert.Equal(t, "User 7", normalize.DisplayName("", "", "", "7"))
}

func TestRoundPct(t *testing.T) {
	assert.Equal(t, 33.33, normalize.RoundPct(1, 3))
	assert.Equal(t, 50.0, normalize.RoundPct(1, 2))
	assert.Equal(t, 0.0, normalize.RoundPct(1, 0))
	assert.Equal(t, 100.0, normalize.RoundPct(5, 5))
}
