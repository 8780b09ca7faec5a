// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. The resulting Config is built once at startup and handed to
// constructors by reference; nothing mutates it afterwards.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 5050).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// FrontendOrigin is the browser origin allowed to call the API with
	// credentials (CORS).
	FrontendOrigin string

	// Database holds MongoDB connection settings.
	Database DatabaseConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig

	// Guard holds the UI route guard patterns.
	Guard GuardConfig
}

// DatabaseConfig holds MongoDB connection parameters.
type DatabaseConfig struct {
	// URI is the MongoDB connection string. Required.
	URI string

	// Name is the database holding the users and supplies collections.
	Name string

	// ConnectTimeout bounds each connection attempt at startup.
	ConnectTimeout time.Duration

	// QueryTimeout bounds every individual store call.
	QueryTimeout time.Duration
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// Secret is the HMAC key used to sign session tokens. Required.
	Secret string

	// BcryptCost is the bcrypt work factor for new password hashes.
	BcryptCost int

	// HashTimeout bounds a single password hash or comparison.
	HashTimeout time.Duration

	// CookieSecure marks the session cookie Secure. Enable when the app is
	// served over TLS.
	CookieSecure bool
}

// GuardConfig holds glob patterns for the UI route guard. A path is guarded
// when it matches a Protect pattern and no Allow pattern.
type GuardConfig struct {
	Protect []string
	Allow   []string
}

// Default guard patterns: everything except the auth pages, static assets,
// the JSON API (which does its own verification) and operational endpoints.
var (
	DefaultGuardProtect = []string{"/**"}
	DefaultGuardAllow   = []string{
		"/",
		"/login",
		"/register",
		"/static/**",
		"/favicon.ico",
		"/api/**",
		"/ping",
		"/healthz",
		"/metrics",
	}
)

// ErrMissingRequired is wrapped by Load when a required variable is unset.
var ErrMissingRequired = errors.New("missing required configuration")

// Load reads configuration from environment variables with sensible defaults.
// Returns an error naming the variable if MONGO_URI or JWT_SECRET is missing;
// the process must not start without them.
func Load() (*Config, error) {
	env := getEnv("ENV", "development")
	defaultLevel := "info"
	if isDevelopment(env) {
		defaultLevel = "debug"
	}

	cfg := &Config{
		Env:            env,
		Port:           getEnvInt("PORT", 5050),
		LogLevel:       getEnv("LOG_LEVEL", defaultLevel),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),

		Database: DatabaseConfig{
			URI:            strings.TrimSpace(getEnv("MONGO_URI", "")),
			Name:           getEnv("MONGO_DB", "dental_inventory"),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			QueryTimeout:   getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},

		Auth: AuthConfig{
			Secret:       getEnv("JWT_SECRET", ""),
			BcryptCost:   getEnvInt("BCRYPT_COST", 12),
			HashTimeout:  getEnvDuration("HASH_TIMEOUT", 5*time.Second),
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},

		Guard: GuardConfig{
			Protect: getEnvList("GUARD_PROTECT", DefaultGuardProtect),
			Allow:   getEnvList("GUARD_ALLOW", DefaultGuardAllow),
		},
	}

	if cfg.Database.URI == "" {
		return nil, fmt.Errorf("MONGO_URI: %w", ErrMissingRequired)
	}
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET: %w", ErrMissingRequired)
	}

	if !cfg.IsDevelopment() && len(cfg.Auth.Secret) < 32 {
		slog.Warn("JWT_SECRET is shorter than 32 characters")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return isDevelopment(c.Env)
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isDevelopment(env string) bool {
	env = strings.ToLower(env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvBool reads a boolean env var ("true", "1", ...) or returns the default.
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "5s") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvList reads a comma-separated env var, dropping empty items.
func getEnvList(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return append([]string(nil), defaultVal...)
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
