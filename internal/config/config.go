package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App   AppConfig
	Redis RedisConfig
	JWT   JWTConfig
	Loan  LoanConfig
	Cache CacheConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

// LoanConfig carries the borrowing policy knobs.
type LoanConfig struct {
	PeriodDays     int
	ExtensionDays  int
	MaxActiveLoans int
	DueSoonDays    int
	FinePerDay     decimal.Decimal
}

type CacheConfig struct {
	StatsTTLSeconds int
	BookTTLSeconds  int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	finePerDay, err := decimal.NewFromString(getEnv("LOAN_FINE_PER_DAY", "0.50"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOAN_FINE_PER_DAY: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),  // minutes
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72), // hours
		},
		Loan: LoanConfig{
			PeriodDays:     getEnvInt("LOAN_PERIOD_DAYS", 14),
			ExtensionDays:  getEnvInt("LOAN_EXTENSION_DAYS", 7),
			MaxActiveLoans: getEnvInt("LOAN_MAX_ACTIVE", 5),
			DueSoonDays:    getEnvInt("LOAN_DUE_SOON_DAYS", 2),
			FinePerDay:     finePerDay,
		},
		Cache: CacheConfig{
			StatsTTLSeconds: getEnvInt("CACHE_STATS_TTL", 60),
			BookTTLSeconds:  getEnvInt("CACHE_BOOK_TTL", 300),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that must never reach production.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	if c.Loan.PeriodDays <= 0 {
		return fmt.Errorf("LOAN_PERIOD_DAYS must be positive")
	}
	if c.Loan.MaxActiveLoans <= 0 {
		return fmt.Errorf("LOAN_MAX_ACTIVE must be positive")
	}
	if c.Loan.FinePerDay.IsNegative() {
		return fmt.Errorf("LOAN_FINE_PER_DAY must not be negative")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
