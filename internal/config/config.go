package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults shared by the server and journalctl.
const (
	DefaultDatabasePath       = "./data/trade_journal.db"
	DefaultReportTimezone     = "Local"
	DefaultRefreshConcurrency = 4
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Auth      AuthConfig
	Reports   ReportsConfig
	Prices    PricesConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// AuthConfig holds the shared secret used to verify access tokens issued by the
// external authentication provider.
type AuthConfig struct {
	JWTSecret string
}

// ReportsConfig holds settings for period reports and CSV export.
type ReportsConfig struct {
	// Location is the time zone in which week and month windows are computed.
	Location *time.Location
}

// PricesConfig holds settings for the quote refresh job.
type PricesConfig struct {
	// RefreshCron is a cron spec; empty disables the scheduled refresh.
	RefreshCron string
	// Concurrency bounds the number of quotes fetched at once.
	Concurrency int
}

// RateLimitConfig holds the per-client request rate limit.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	location, err := ReportLocation("")
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	concurrency, err := RefreshConcurrency()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: DatabasePath(),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		Reports: ReportsConfig{
			Location: location,
		},
		Prices: PricesConfig{
			RefreshCron: os.Getenv("PRICE_REFRESH_CRON"),
			Concurrency: concurrency,
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
	}

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// DatabasePath returns $DB_PATH, or DefaultDatabasePath when unset.
func DatabasePath() string {
	return getEnv("DB_PATH", DefaultDatabasePath)
}

// ReportLocation loads the named time zone. An empty name falls back to
// $REPORT_TIMEZONE, then DefaultReportTimezone.
func ReportLocation(name string) (*time.Location, error) {
	if name == "" {
		name = getEnv("REPORT_TIMEZONE", DefaultReportTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}

// RefreshConcurrency returns $PRICE_REFRESH_CONCURRENCY, or
// DefaultRefreshConcurrency when unset. It must be at least 1.
func RefreshConcurrency() (int, error) {
	raw := os.Getenv("PRICE_REFRESH_CONCURRENCY")
	if raw == "" {
		return DefaultRefreshConcurrency, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid PRICE_REFRESH_CONCURRENCY: %q", raw)
	}
	return n, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
