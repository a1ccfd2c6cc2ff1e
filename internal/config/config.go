package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	RedisURL        string
	TrustProxy      bool
	JWTSecret       string
	CSRFSecret      string
	DefaultLocale   string
	SessionDuration time.Duration
	ReportCacheTTL  time.Duration
	StaticFilesPath string
	TemplatesPath   string
	MigrationsPath  string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./coachreports.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		TrustProxy:      getBool("TRUST_PROXY", false),
		JWTSecret:       getEnv("JWT_SECRET", "change-me-jwt"),
		CSRFSecret:      getEnv("CSRF_SECRET", "change-me-csrf"),
		DefaultLocale:   getEnv("DEFAULT_LOCALE", "en"),
		SessionDuration: getDuration("SESSION_DURATION", 24*time.Hour),
		ReportCacheTTL:  getDuration("REPORT_CACHE_TTL", 30*time.Second),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration like "15m"; unparseable values fall back to the default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

// getBool parses "true", "1", "false" and the like; unparseable values fall back to the default
func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}
