package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Store
	StoreDriver      string
	ConnectionString string
	DBName           string
	StoreTimeout     time.Duration

	// Tokens
	JWTSecret string
	JWTExpiry time.Duration

	// Checkout
	StripeSecret       string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	CheckoutCurrency   string

	// Server
	Port          string
	CORSOrigins   string
	AuthRateLimit int

	// Observability
	Env       string
	LogLevel  string
	SentryDSN string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	conn := getEnv("CONNECTION_STRING", "")
	if conn == "" {
		conn = getEnv("MONGO_URL", "mongodb://localhost:27017")
	}

	return &Config{
		StoreDriver:      getEnv("STORE_DRIVER", "mongo"),
		ConnectionString: conn,
		DBName:           getEnv("DB_NAME", "techshop"),
		StoreTimeout:     getEnvAsDuration("STORE_TIMEOUT", 10*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),

		StripeSecret:       getEnv("STRIPE_SECRET", ""),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/success"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/cancel"),
		CheckoutCurrency:   getEnv("CHECKOUT_CURRENCY", "usd"),

		Port:          getEnv("PORT", "5000"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		AuthRateLimit: getEnvAsInt("AUTH_RATE_LIMIT", 10),

		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.StoreDriver {
	case "mongo":
		if c.ConnectionString == "" {
			return errors.New("CONNECTION_STRING environment variable is required")
		}
	case "memory":
	default:
		return errors.New("STORE_DRIVER must be mongo or memory")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return fallback
}
