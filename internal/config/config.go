// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// TokenTTL is the lifetime of issued session tokens. Defaults to 720h
	// (30 days) — a planning session spans weeks, not minutes.
	TokenTTL time.Duration

	// RateAPIURL is the external exchange-rate endpoint polled on refresh.
	RateAPIURL string

	// EnrichProxies is an ordered list of CORS-proxy prefixes tried when a
	// direct listing fetch fails. Each prefix gets the escaped target URL
	// appended. Empty means direct fetch only.
	EnrichProxies []string

	// CaptainEmail and CaptainPassword seed the captain account on first
	// boot. Both empty disables seeding (and captain login, until an
	// account is created some other way).
	CaptainEmail    string
	CaptainPassword string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RateAPIURL:      getEnv("RATE_API_URL", "https://api.exchangerate-api.com/v4/latest/EUR"),
		EnrichProxies:   splitCSV(os.Getenv("ENRICH_PROXIES")),
		CaptainEmail:    os.Getenv("CAPTAIN_EMAIL"),
		CaptainPassword: os.Getenv("CAPTAIN_PASSWORD"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.TokenTTL = 720 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid TOKEN_TTL %q: must be a positive duration", raw)
		}
		cfg.TokenTTL = ttl
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
