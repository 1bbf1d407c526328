package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DataSourceFixture  = "fixture"
	DataSourcePostgres = "postgres"

	InterestRateFixed = "fixed"
	InterestRateCBR   = "cbr"
)

// Config holds application configuration
type Config struct {
	HTTPPort string
	GRPCPort string
	LogLevel string

	DataSource  string
	DBConn      string
	FixturePath string // Empty means the built-in data set

	RedisAddr string // Empty disables the price-history cache
	CacheTTL  time.Duration

	JWTSecret           string
	CollaboratorTimeout time.Duration

	AnnualInterestRate  decimal.Decimal
	InterestRateSource  string
	CBRURL              string
	BankMargin          decimal.Decimal // Percentage points added to the key rate
	DefaultManufacturer string
	MaxHorizonMonths    int

	PromotionSchedule  string // Empty disables the promotion watcher
	PromotionModels    []string
	PromotionModelYear int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	NotifyEmail  string

	DefaultUser     string
	DefaultPassword string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8081"),
		GRPCPort: getEnv("GRPC_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		DataSource:  strings.ToLower(getEnv("DATA_SOURCE", DataSourceFixture)),
		DBConn:      getEnv("DB_CONN", "host=localhost port=5432 user=postgres password=postgres dbname=vehicleplan sslmode=disable"),
		FixturePath: getEnv("FIXTURE_PATH", ""),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		JWTSecret: getEnv("JWT_SECRET", "secret"),

		InterestRateSource:  strings.ToLower(getEnv("INTEREST_RATE_SOURCE", InterestRateFixed)),
		CBRURL:              getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		DefaultManufacturer: getEnv("DEFAULT_MANUFACTURER", "mercedes-benz"),

		PromotionSchedule: getEnv("PROMOTION_SCHEDULE", "0 8 * * *"),
		PromotionModels:   splitList(getEnv("PROMOTION_MODELS", "Mercedes S-Class,Mercedes E-Class,Maybach S-Class")),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@vehicleplan.local"),
		NotifyEmail:  getEnv("NOTIFY_EMAIL", ""),

		DefaultUser:     getEnv("DEFAULT_USER", "testuser"),
		DefaultPassword: getEnv("DEFAULT_PASSWORD", "password123"),
	}

	var err error
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.CollaboratorTimeout, err = getDuration("COLLABORATOR_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.AnnualInterestRate, err = getDecimal("ANNUAL_INTEREST_RATE", "0.10"); err != nil {
		return nil, err
	}
	if cfg.BankMargin, err = getDecimal("BANK_MARGIN", "5"); err != nil {
		return nil, err
	}
	if cfg.MaxHorizonMonths, err = getInt("MAX_HORIZON_MONTHS", 600); err != nil {
		return nil, err
	}
	if cfg.PromotionModelYear, err = getInt("PROMOTION_MODEL_YEAR", 2025); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case DataSourceFixture:
	case DataSourcePostgres:
		if c.DBConn == "" {
			return fmt.Errorf("DB_CONN is required when DATA_SOURCE=%s", DataSourcePostgres)
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", DataSourceFixture, DataSourcePostgres, c.DataSource)
	}

	switch c.InterestRateSource {
	case InterestRateFixed:
	case InterestRateCBR:
		if c.CBRURL == "" {
			return fmt.Errorf("CBR_URL is required when INTEREST_RATE_SOURCE=%s", InterestRateCBR)
		}
	default:
		return fmt.Errorf("INTEREST_RATE_SOURCE must be %q or %q, got %q", InterestRateFixed, InterestRateCBR, c.InterestRateSource)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AnnualInterestRate.IsNegative() {
		return fmt.Errorf("ANNUAL_INTEREST_RATE cannot be negative")
	}
	if c.MaxHorizonMonths <= 0 {
		return fmt.Errorf("MAX_HORIZON_MONTHS must be positive")
	}
	return nil
}

// NotificationsEnabled reports whether promotion e-mails can be sent
func (c *Config) NotificationsEnabled() bool {
	return c.SMTPHost != "" && c.NotifyEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getDecimal(key, defaultVal string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, defaultVal))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultVal int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
