package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Bitrix    BitrixConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	ApiKey    ApiKeyConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// BitrixConfig holds connectivity and field-mapping configuration for the
// Bitrix24 webhook endpoint. The webhook URL is optional: when absent the
// CRM client is disabled and every report degrades to empty data. The field
// map, however, is validated eagerly at startup — the custom field IDs are
// per-deployment constants and a missing required mapping silently corrupts
// every aggregation, so we fail fast instead of discovering it at use-sites.
type BitrixConfig struct {
	// WebhookURL is the inbound webhook base, e.g.
	// https://example.bitrix24.ae/rest/1/abc123 (no trailing slash)
	WebhookURL string
	// WonStageIDs marks a deal as won (STAGE_ID values, one per pipeline)
	WonStageIDs []string `validate:"min=1"`
	// SalesDepartmentID optionally narrows the agent list to one department
	SalesDepartmentID string
	// RequestTimeout is the per-HTTP-call timeout (seconds)
	RequestTimeout int
	Fields         FieldMap
}

// FieldMap enumerates the Bitrix custom field IDs this deployment uses.
// Required mappings feed the aggregation engines; optional ones only affect
// the deals-monitoring columns, which render "N/A" when unmapped.
type FieldMap struct {
	Developer        string `validate:"required"`
	GrossCommission  string `validate:"required"`
	NetCommission    string `validate:"required"`
	PaymentReceived  string `validate:"required"`
	PropertyType     string `validate:"required"`
	AmountReceivable string `validate:"required"`
	ProjectName      string `validate:"required"`
	AgentName        string `validate:"required"`
	TotalCommission  string `validate:"required"`

	TransactionType        string
	PropertyReference      string
	UnitNumber             string
	NoOfBedrooms           string
	ClientName             string
	Team                   string
	GrossCommissionVAT     string
	VAT                    string
	AgentNetCommission     string
	ManagerCommission      string
	SalesSupportCommission string
	CompanyNetCommission   string
	CommissionSlab         string
	Referral               string
	ReferralFee            string
	InvoiceStatus          string
	PaymentStatus          string
	FirstPayment           string
	SecondPayment          string
	ThirdPayment           string
	TotalPayment           string
	BookingForm            string
	PPCopy                 string
	KYC                    string
	Screening              string
	ClientID               string
	ClientType             string
	PassportNo             string
	EmiratesID             string
	Birthday               string
	Country                string
	Nationality            string

	// User (agent) custom fields
	UserHiredBy     string
	UserJoiningDate string
}

// CacheConfig controls the in-memory report cache and the warm job
type CacheConfig struct {
	// TTL is the staleness window for cached reports (seconds)
	TTL int
	// WarmEnabled turns on the periodic cache-warm job
	WarmEnabled bool
	// WarmCron is the cron expression for the warm job
	WarmCron string
	// WarmTimeout bounds a single warm run (seconds)
	WarmTimeout int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	WhitelistIPs      []string
	WhitelistPaths    []string
}

// ApiKeyConfig guards the /api/v1 surface when a key is configured
type ApiKeyConfig struct {
	Value string
}

// Enabled reports whether the CRM client can be constructed at all
func (b *BitrixConfig) Enabled() bool {
	return b.WebhookURL != ""
}

// RequestTimeoutDuration returns the per-call timeout as duration
func (b *BitrixConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(b.RequestTimeout) * time.Second
}

// TTLDuration returns the cache staleness window as duration
func (c *CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// WarmTimeoutDuration returns the warm-run timeout as duration
func (c *CacheConfig) WarmTimeoutDuration() time.Duration {
	return time.Duration(c.WarmTimeout) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables.
// When the Bitrix webhook is configured the field map is validated and an
// incomplete one is a startup error; a missing webhook only disables the
// CRM client.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Common env spellings that don't match the nested keys
	if cfg.Bitrix.WebhookURL == "" {
		cfg.Bitrix.WebhookURL = v.GetString("BITRIX_WEBHOOK_URL")
	}
	if cfg.ApiKey.Value == "" {
		cfg.ApiKey.Value = v.GetString("API_KEY")
	}

	if cfg.Bitrix.Enabled() {
		if err := ValidateBitrix(&cfg.Bitrix); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// ValidateBitrix checks the Bitrix configuration, in particular that every
// required field mapping is present. Called from Load for configured
// deployments; exported so tests can check a config they assembled.
func ValidateBitrix(b *BitrixConfig) error {
	validate := validator.New()
	if err := validate.Struct(b); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			missing := make([]string, 0, len(ve))
			for _, fe := range ve {
				missing = append(missing, fe.Namespace())
			}
			return fmt.Errorf("bitrix configuration incomplete, missing: %s", strings.Join(missing, ", "))
		}
		return fmt.Errorf("bitrix configuration invalid: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Springfield Management Dashboard API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Bitrix defaults
	v.SetDefault("bitrix.requestTimeout", 30)

	// Cache defaults
	v.SetDefault("cache.ttl", 300) // 5 minutes
	v.SetDefault("cache.warmEnabled", false)
	v.SetDefault("cache.warmCron", "@every 10m")
	v.SetDefault("cache.warmTimeout", 120)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 60)
	v.SetDefault("server.requestTimeout", 90)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Content-Disposition", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/crm"})
}
