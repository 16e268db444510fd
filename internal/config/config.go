package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Config struct {
	BarbersDir      string `validate:"required"`
	ReportSuffix    string `validate:"required"`
	DataFile        string `validate:"required"`
	CombinedFile    string `validate:"required"`
	StandardRate    decimal.Decimal
	RateOverrides   map[string]decimal.Decimal
	ExcludedWeekday time.Weekday `validate:"gte=0,lte=6"`
	LogLevel        string       `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat       string       `validate:"oneof=text json"`
	DatabaseURL     string
	RedisAddr       string
	APIPort         int    `validate:"gt=0,lte=65535"`
	PublicDir       string `validate:"required"`
	DebtSchedule    string
}

var validate = validator.New()

func New() (*Config, error) {
	cfg := &Config{
		BarbersDir:      getEnv("BARBERS_DIR", "barbers"),
		ReportSuffix:    getEnv("REPORT_SUFFIX", "_debt"),
		DataFile:        getEnv("DATA_FILE", "data.json"),
		CombinedFile:    getEnv("COMBINED_FILE", "combined.json"),
		StandardRate:    decimal.NewFromInt(7),
		RateOverrides:   map[string]decimal.Decimal{"Genesis": decimal.NewFromInt(5)},
		ExcludedWeekday: time.Sunday,
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		APIPort:         3000,
		PublicDir:       getEnv("PUBLIC_DIR", "public"),
		DebtSchedule:    os.Getenv("DEBT_SCHEDULE"),
	}

	var err error
	cfg.APIPort, err = getEnvAsInt("API_PORT", cfg.APIPort)
	if err != nil {
		return nil, err
	}

	cfg.StandardRate, err = getEnvAsDecimal("STANDARD_RATE", cfg.StandardRate)
	if err != nil {
		return nil, err
	}
	if cfg.StandardRate.IsNegative() {
		return nil, fmt.Errorf("invalid value for STANDARD_RATE: must not be negative")
	}

	if raw := os.Getenv("RATE_OVERRIDES"); raw != "" {
		cfg.RateOverrides, err = ParseRateOverrides(raw)
		if err != nil {
			return nil, err
		}
	}

	if err := checkDiscounts(cfg.StandardRate, cfg.RateOverrides); err != nil {
		return nil, err
	}

	if raw := os.Getenv("EXCLUDED_WEEKDAY"); raw != "" {
		cfg.ExcludedWeekday, err = ParseWeekday(raw)
		if err != nil {
			return nil, err
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ParseRateOverrides parses "Genesis=5,Other Name=6.5" into a name to rate table.
func ParseRateOverrides(raw string) (map[string]decimal.Decimal, error) {
	overrides := make(map[string]decimal.Decimal)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, rate, found := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("invalid rate override %q: expected Name=rate", item)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(rate))
		if err != nil {
			return nil, fmt.Errorf("invalid rate override %q: %w", item, err)
		}
		if value.IsNegative() {
			return nil, fmt.Errorf("invalid rate override %q: must not be negative", item)
		}
		overrides[name] = value
	}
	return overrides, nil
}

// checkDiscounts rejects any override that is not strictly below the standard rate.
func checkDiscounts(standard decimal.Decimal, overrides map[string]decimal.Decimal) error {
	for name, rate := range overrides {
		if rate.GreaterThanOrEqual(standard) {
			return fmt.Errorf("invalid rate override %s=%s: must be below the standard rate %s", name, rate, standard)
		}
	}
	return nil
}

// ParseWeekday accepts an English weekday name ("sunday", "Sun") or a number
// where 0 is Sunday.
func ParseWeekday(raw string) (time.Weekday, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("invalid weekday %q: expected 0-6", raw)
		}
		return time.Weekday(n), nil
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(raw, name) || strings.EqualFold(raw, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", raw)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value for %s: expected a number, got '%s'", key, valueStr)
	}

	return value, nil
}
