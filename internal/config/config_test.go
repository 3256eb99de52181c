package config_test

import (
	"testing"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeFields() config.FieldMap {
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
	}
}

func TestValidateBitrix_CompleteConfig(t *testing.T) {
	cfg := &config.BitrixConfig{
		WebhookURL:  "https://example.bitrix24.ae/rest/1/abc",
		WonStageIDs: []string{"WON"},
		Fields:      completeFields(),
	}
	assert.NoError(t, config.ValidateBitrix(cfg))
}

func TestValidateBitrix_MissingRequiredField(t *testing.T) {
	fields := completeFields()
	fields.GrossCommission = ""
	cfg := &config.BitrixConfig{
		WebhookURL:  "https://example.bitrix24.ae/rest/1/abc",
		WonStageIDs: []string{"WON"},
		Fields:      fields,
	}

	err := config.ValidateBitrix(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GrossCommission")
}

func TestValidateBitrix_RequiresWonStages(t *testing.T) {
	cfg := &config.BitrixConfig{
		WebhookURL: "https://example.bitrix24.ae/rest/1/abc",
		Fields:     completeFields(),
	}

	err := config.ValidateBitrix(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WonStageIDs")
}

func TestValidateBitrix_OptionalFieldsStayOptional(t *testing.T) {
	cfg := &config.BitrixConfig{
		WebhookURL:  "https://example.bitrix24.ae/rest/1/abc",
		WonStageIDs: []string{"WON", "C2:WON"},
		Fields:      completeFields(),
	}
	// No monitoring columns or user fields configured
	assert.NoError(t, config.ValidateBitrix(cfg))
}

func TestBitrixEnabled(t *testing.T) {
	b := &config.BitrixConfig{}
	assert.False(t, b.Enabled())
	b.WebhookURL = "https://example.bitrix24.ae/rest/1/abc"
	assert.True(t, b.Enabled())
}

func TestDurationHelpers(t *testing.T) {
	b := &config.BitrixConfig{RequestTimeout: 30}
	assert.Equal(t, 30*time.Second, b.RequestTimeoutDuration())

	c := &config.CacheConfig{TTL: 300, WarmTimeout: 120}
	assert.Equal(t, 5*time.Minute, c.TTLDuration())
	assert.Equal(t, 2*time.Minute, c.WarmTimeoutDuration())

	s := &config.ServerConfig{ReadTimeout: 30, WriteTimeout: 60}
	assert.Equal(t, 30*time.Second, s.ReadTimeoutDuration())
	assert.Equal(t, time.Minute, s.WriteTimeoutDuration())
}
