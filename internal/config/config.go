package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Knowledge backends selectable through KNOWLEDGE_BACKEND.
const (
	BackendStatic    = "static"
	BackendWarehouse = "warehouse"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Outbreak knowledge source
	KnowledgeBackend      string
	DatabaseURL           string
	KnowledgeQueryTimeout time.Duration
	KnowledgeCacheTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Business rules that differ between handler revisions
	SymptomCap             int
	ExcludeRoutineVaccines bool
	NormalizeDiacritics    bool

	// Webhook / admin auth
	WebhookUsername string
	WebhookPassword string
	AdminJWTSecret  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		KnowledgeBackend:      strings.ToLower(strings.TrimSpace(getEnv("KNOWLEDGE_BACKEND", BackendStatic))),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		KnowledgeQueryTimeout: getEnvAsDuration("KNOWLEDGE_QUERY_TIMEOUT", 5*time.Second),
		KnowledgeCacheTTL:     getEnvAsDuration("KNOWLEDGE_CACHE_TTL", 10*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SymptomCap:             getEnvAsInt("SYMPTOM_CAP", 3),
		ExcludeRoutineVaccines: getEnvAsBool("EXCLUDE_ROUTINE_VACCINES", true),
		NormalizeDiacritics:    getEnvAsBool("NORMALIZE_CITY_DIACRITICS", true),

		WebhookUsername: getEnv("WEBHOOK_USERNAME", ""),
		WebhookPassword: getEnv("WEBHOOK_PASSWORD", ""),
		AdminJWTSecret:  getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// UseWarehouse reports whether lookups should go to the SQL warehouse.
func (c *Config) UseWarehouse() bool {
	return c.KnowledgeBackend == BackendWarehouse
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
