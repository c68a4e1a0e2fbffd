// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Upstream sweepstakes API
	BackendAPIURL  string
	BackendTimeout time.Duration

	// Redis (optional; in-memory session store when empty)
	RedisURL string

	// Security
	JWTSecret  string
	SessionTTL time.Duration

	// OTP flow
	OTPCooldown     time.Duration
	OTPAutoReturn   time.Duration
	FlowIdleTTL     time.Duration
	CleanupInterval time.Duration

	// Campaign defaults
	DefaultSweepstakeID string
	LegacyStoreIDs      map[string]string // old ID -> replacement, "old:new" pairs
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Upstream API
		BackendAPIURL:  getEnv("BACKEND_API_URL", "https://api.sweepstouch.com"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", "15s"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Security
		JWTSecret:  getEnv("JWT_SECRET", "change-this-in-production"),
		SessionTTL: getEnvDuration("SESSION_TTL", "12h"),

		// OTP flow
		OTPCooldown:     getEnvDuration("OTP_COOLDOWN", "60s"),
		OTPAutoReturn:   getEnvDuration("OTP_AUTO_RETURN", "1200ms"),
		FlowIdleTTL:     getEnvDuration("FLOW_IDLE_TTL", "15m"),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", "1m"),

		// Campaign defaults
		DefaultSweepstakeID: getEnv("DEFAULT_SWEEPSTAKE_ID", ""),
		LegacyStoreIDs:      getEnvPairs("LEGACY_STORE_IDS"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BackendAPIURL == "" {
		return fmt.Errorf("backend API URL is required")
	}

	if c.JWTSecret == "change-this-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret must be changed for production")
	}

	if c.OTPCooldown < time.Second {
		return fmt.Errorf("OTP cooldown must be at least one second")
	}

	if c.FlowIdleTTL < time.Minute {
		return fmt.Errorf("flow idle TTL must be at least one minute")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper functions

// getEnv gets a string value from environment with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment with a default
func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		// If parsing fails, try to parse the default
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

// getEnvPairs parses "old1:new1,old2:new2" into a map.
func getEnvPairs(key string) map[string]string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	pairs := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			pairs[parts[0]] = parts[1]
		}
	}
	return pairs
}
