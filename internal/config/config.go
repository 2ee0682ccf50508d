package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL points at a local development backend.
const DefaultBaseURL = "http://localhost:8080/api"

// Config holds application configuration
type Config struct {
	// APIBaseURL is the base URL of the appointments backend.
	APIBaseURL string
	// HTTPTimeout bounds every backend request.
	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string
	// IdentityFile overrides the default location of the demo identity file.
	IdentityFile string
	// SelectorLimit caps the demo role-selector listings client-side;
	// the backend does not paginate those endpoints.
	SelectorLimit int
	// IdentityPollInterval is the reconciliation interval for identity
	// watchers picking up changes made by other processes.
	IdentityPollInterval time.Duration

	// Demo server settings, used only by clinic-demo-server.
	DemoServerPort string
	DemoSeed       bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		APIBaseURL:           getEnv("CLINIC_API_BASE_URL", DefaultBaseURL),
		HTTPTimeout:          getEnvAsDuration("CLINIC_HTTP_TIMEOUT", 30*time.Second),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),
		IdentityFile:         getEnv("CLINIC_IDENTITY_FILE", ""),
		SelectorLimit:        getEnvAsInt("CLINIC_SELECTOR_LIMIT", 10),
		IdentityPollInterval: getEnvAsDuration("CLINIC_IDENTITY_POLL_INTERVAL", time.Second),

		DemoServerPort: getEnv("PORT", "8080"),
		DemoSeed:       getEnvAsBool("CLINIC_DEMO_SEED", true),
	}
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
