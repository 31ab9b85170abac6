package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	StoreDriver  string // json, sqlite or memory (default: json)
	DatabaseFile string // JSON document or SQLite file (default: ./db.json, ./custody.db for sqlite)
	PepperFile   string // Password pepper, generated on first use (default: ./pepper)

	SessionAlgorithm string        // HS256 or EdDSA (default: HS256)
	SessionSecret    string        // HS256 secret; random per process when empty
	SessionKeyFile   string        // EdDSA PEM key, generated on first start (default: ./session.pem)
	SessionIssuer    string        // iss claim (default: custody)
	SessionTTL       time.Duration // Session lifetime (default: 8h)
	CookieSecure     bool          // Mark the session cookie Secure (default: false)

	RevocationBackend string // memory or redis (default: memory)
	RedisURL          string // redis:// URL or host:port, for the redis backend

	SeedOnStart bool   // Seed an empty store at startup (default: false)
	RosterFile  string // YAML roster used for seeding; built-in roster when empty

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Revocation pruning interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		StoreDriver:       strings.ToLower(getEnvOrDefault("STORE_DRIVER", "json")),
		DatabaseFile:      os.Getenv("DATABASE_FILE"),
		PepperFile:        getEnvOrDefault("PEPPER_FILE", "pepper"),
		SessionAlgorithm:  getEnvOrDefault("SESSION_ALGORITHM", "HS256"),
		SessionSecret:     getEnvOrDefault("SESSION_SECRET", os.Getenv("JWT_SECRET")),
		SessionKeyFile:    getEnvOrDefault("SESSION_KEY_FILE", "session.pem"),
		SessionIssuer:     getEnvOrDefault("SESSION_ISSUER", "custody"),
		SessionTTL:        getEnvDurationOrDefault("SESSION_TTL", 8*time.Hour),
		CookieSecure:      getEnvBoolOrDefault("COOKIE_SECURE", false),
		RevocationBackend: strings.ToLower(getEnvOrDefault("REVOCATION_BACKEND", "memory")),
		RedisURL:          os.Getenv("REDIS_URL"),
		SeedOnStart:       getEnvBoolOrDefault("SEED_ON_START", false),
		RosterFile:        os.Getenv("ROSTER_FILE"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = DefaultDatabaseFile(cfg.StoreDriver)
	}

	// A Redis URL on its own is enough to pick the backend.
	if os.Getenv("REVOCATION_BACKEND") == "" && cfg.RedisURL != "" {
		cfg.RevocationBackend = "redis"
	}

	return cfg
}

// DefaultDatabaseFile is the file a driver uses when DATABASE_FILE is unset.
func DefaultDatabaseFile(driver string) string {
	if driver == "sqlite" {
		return "custody.db"
	}
	return "db.json"
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

	if b, err := strconv.ParseBool(value); err == nil {
		return b
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

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
