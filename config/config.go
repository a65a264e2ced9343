package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingFeedID is returned when neither the back-office nor the public
// provider feed id is configured. Sync operations cannot run without one.
var ErrMissingFeedID = errors.New("no provider feed id configured")

// Config holds every environment-driven setting the application reads.
type Config struct {
	AppHost string
	AppPort string

	DBHost     string
	DBPort     string
	DBDatabase string
	DBUsername string
	DBPassword string
	DBSSLMode  string

	ProviderBaseURL   string
	ProviderAPIKey    string
	ProviderAPISecret string
	ProviderTimeout   time.Duration

	BackofficeFeedID string
	PublicFeedID     string

	// RedisAddr selects the Redis-backed quote cache when set. Empty means
	// the in-process cache is used.
	RedisAddr     string
	RedisPassword string

	JWTSecret string
}

// Load reads the .env file (if present) and builds the Config from the
// environment. A missing .env is not fatal; containerized deployments set
// the variables directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppHost:           os.Getenv("APP_HOST"),
		AppPort:           getEnv("APP_PORT", "8080"),
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBDatabase:        os.Getenv("DB_DATABASE"),
		DBUsername:        os.Getenv("DB_USERNAME"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		ProviderBaseURL:   os.Getenv("PROVIDER_BASE_URL"),
		ProviderAPIKey:    os.Getenv("PROVIDER_API_KEY"),
		ProviderAPISecret: os.Getenv("PROVIDER_API_SECRET"),
		ProviderTimeout:   15 * time.Second,
		BackofficeFeedID:  os.Getenv("PROVIDER_BACKOFFICE_FEED_ID"),
		PublicFeedID:      os.Getenv("PROVIDER_PUBLIC_FEED_ID"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}

	if raw := os.Getenv("PROVIDER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT %q: %w", raw, err)
		}
		cfg.ProviderTimeout = d
	}

	if cfg.ProviderBaseURL == "" {
		return nil, errors.New("PROVIDER_BASE_URL is required")
	}

	return cfg, nil
}

// FeedID returns the feed id used for provider calls. The back-office feed
// is preferred; the public feed is the fallback.
func (c *Config) FeedID() (string, error) {
	if c.BackofficeFeedID != "" {
		return c.BackofficeFeedID, nil
	}
	if c.PublicFeedID != "" {
		return c.PublicFeedID, nil
	}
	return "", ErrMissingFeedID
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUsername, c.DBPassword, c.DBDatabase, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
