package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ordercraft/auth/pkg/jwtx"
)

type Config struct {
	JWTSecret string // Required: base64-encoded HS256 signing secret (32+ bytes decoded)
	Issuer    string // Issuer claim for access tokens (default: ordercraft-auth)

	AccessTokenTTL   time.Duration // Access token lifetime (default: 300m)
	RefreshTokenTTL  time.Duration // Refresh session lifetime (default: 168h)
	RefreshExtension time.Duration // How far a session extension pushes the expiry (default: 168h)
	MaxSessions      int           // Concurrent session cap per account (default: 6)

	ProtectedPrefixes    []string      // Path prefixes open to USER tokens (default: /api/v1/users,/api/v1/orders)
	PurgeExpiredSessions bool          // Delete expired sessions on discovery during refresh (default: false)
	StoreTimeout         time.Duration // Per-call store timeout (default: 5s)

	CredentialsBackend string // Identity backend: local or remote (default: local)
	UserServiceURL     string // Required when CredentialsBackend=remote: user service base URL

	SessionsBackend string // Session store: sqlite or redis (default: sqlite)
	RedisAddr       string // Required when SessionsBackend=redis: redis address
	RedisPrefix     string // Key prefix for redis session records (default: auth)

	DatabaseFile         string        // Path to SQLite database file (default: ./auth.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "ordercraft-auth"),

		AccessTokenTTL:   getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:  getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		RefreshExtension: getEnvDurationOrDefault("AUTH_REFRESH_EXTENSION", jwtx.DefaultRefreshTokenTTL),
		MaxSessions:      getEnvIntOrDefault("AUTH_MAX_SESSIONS", 6),

		PurgeExpiredSessions: getEnvBoolOrDefault("AUTH_PURGE_EXPIRED_SESSIONS", false),
		StoreTimeout:         getEnvDurationOrDefault("AUTH_STORE_TIMEOUT", 5*time.Second),

		CredentialsBackend: getEnvOrDefault("AUTH_CREDENTIALS_BACKEND", "local"),
		UserServiceURL:     os.Getenv("AUTH_USER_SERVICE_URL"),

		SessionsBackend: getEnvOrDefault("AUTH_SESSIONS_BACKEND", "sqlite"),
		RedisAddr:       os.Getenv("AUTH_REDIS_ADDR"),
		RedisPrefix:     getEnvOrDefault("AUTH_REDIS_PREFIX", "auth"),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	prefixes := getEnvOrDefault("AUTH_PROTECTED_PREFIXES", "/api/v1/users,/api/v1/orders")
	for _, prefix := range strings.Split(prefixes, ",") {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			cfg.ProtectedPrefixes = append(cfg.ProtectedPrefixes, prefix)
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
