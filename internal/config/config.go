package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	Venue    VenueConfig
	Payroll  PayrollConfig
	App      AppConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// VenueConfig holds venue-level settings shared by every outlet terminal.
type VenueConfig struct {
	// UTCOffsetMinutes fixes the business-day boundary independent of the
	// server locale, e.g. 180 for UTC+3.
	UTCOffsetMinutes int
}

// PayrollConfig holds settlement batch settings.
type PayrollConfig struct {
	// DeductionCapPercent limits how much of an employee's gross a single
	// payroll run may collect. Nil means no cap.
	DeductionCapPercent *decimal.Decimal
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// .env is optional outside development; real env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "resto"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Venue configuration
	offset, err := strconv.Atoi(getEnv("VENUE_UTC_OFFSET_MINUTES", "180"))
	if err != nil {
		return nil, fmt.Errorf("invalid VENUE_UTC_OFFSET_MINUTES: %w", err)
	}
	config.Venue = VenueConfig{UTCOffsetMinutes: offset}

	// Payroll configuration
	if raw := getEnv("PAYROLL_DEDUCTION_CAP_PERCENT", ""); raw != "" {
		capPct, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAYROLL_DEDUCTION_CAP_PERCENT: %w", err)
		}
		if capPct.IsNegative() || capPct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("PAYROLL_DEDUCTION_CAP_PERCENT must be between 0 and 100")
		}
		config.Payroll = PayrollConfig{DeductionCapPercent: &capPct}
	}

	// Application configuration
	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
