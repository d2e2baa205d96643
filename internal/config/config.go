package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Sheet    SheetConfig
	Auth     AuthConfig
	Session  SessionConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds the editor session database configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// SheetConfig holds the source spreadsheet configuration
type SheetConfig struct {
	// URL is the fixed Google Sheets locator the dashboard reads from.
	URL string

	// CacheTTL bounds how long a fetched dataset is reused before the next
	// access triggers a fresh ingestion.
	CacheTTL time.Duration

	// FetchTimeout bounds the CSV export fetch, connection setup included.
	FetchTimeout time.Duration
}

// AuthConfig holds the access gate configuration
type AuthConfig struct {
	// AdminPassword is the single shared secret unlocking the full dataset.
	// Compared for exact equality; see DESIGN.md for the trust-boundary note.
	AdminPassword string
}

// SessionConfig holds the editor session configuration
type SessionConfig struct {
	// Key signs editor session tokens. When SESSION_KEY is unset a random
	// key is generated at startup, which invalidates tokens on restart.
	Key *fernet.Key

	// TTL bounds both token validity and how long idle sessions are kept.
	TTL time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	sheetURL := os.Getenv("SHEET_URL")
	if sheetURL == "" {
		return nil, fmt.Errorf("SHEET_URL is required")
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}

	sessionKey, err := loadSessionKey()
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getEnvSeconds("CACHE_TTL_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := getEnvSeconds("FETCH_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := getEnvHours("SESSION_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/asset_dashboard.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Sheet: SheetConfig{
			URL:          sheetURL,
			CacheTTL:     cacheTTL,
			FetchTimeout: fetchTimeout,
		},
		Auth: AuthConfig{
			AdminPassword: adminPassword,
		},
		Session: SessionConfig{
			Key: sessionKey,
			TTL: sessionTTL,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// loadSessionKey decodes SESSION_KEY or generates an ephemeral key when the
// variable is unset.
func loadSessionKey() (*fernet.Key, error) {
	raw := os.Getenv("SESSION_KEY")
	if raw == "" {
		key := &fernet.Key{}
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		return key, nil
	}

	key, err := fernet.DecodeKey(raw)
	if err != nil {
		return nil, fmt.Errorf("SESSION_KEY is not a valid fernet key: %w", err)
	}
	return key, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvSeconds(key string, defaultValue int) (time.Duration, error) {
	return getEnvDuration(key, defaultValue, time.Second)
}

func getEnvHours(key string, defaultValue int) (time.Duration, error) {
	return getEnvDuration(key, defaultValue, time.Hour)
}

func getEnvDuration(key string, defaultValue int, unit time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultValue) * unit, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return time.Duration(n) * unit, nil
}
