package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string

	// External metadata source (arXiv)
	ArxivBaseURL string
	ArxivTimeout time.Duration

	// LLM outline generation (Perplexity)
	PerplexityAPIKey  string
	PerplexityBaseURL string
	PerplexityModel   string

	// Traversal bounds
	MaxDepth      int
	MaxBranch     int
	MaxConcurrent int

	// Cache tiers and sweep
	MetadataTTL        time.Duration
	DerivedTTL         time.Duration
	CacheSweepInterval time.Duration

	// Retry policy
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "papergraph"),

		ArxivBaseURL: getEnv("ARXIV_BASE_URL", "http://export.arxiv.org/api/query"),
		ArxivTimeout: getEnvDuration("ARXIV_TIMEOUT_MS", 5000),

		PerplexityAPIKey:  getEnv("PERPLEXITY_API_KEY", ""),
		PerplexityBaseURL: getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
		PerplexityModel:   getEnv("PERPLEXITY_MODEL", "llama-3.1-sonar-large-128k-online"),

		MaxDepth:      getEnvInt("DISCOVERY_MAX_DEPTH", 4),
		MaxBranch:     getEnvInt("DISCOVERY_MAX_BRANCH", 8),
		MaxConcurrent: getEnvInt("DISCOVERY_MAX_CONCURRENT", 16),

		// Long tier for externally-sourced metadata, short tier for
		// derived artifacts whose inputs are client-supplied.
		MetadataTTL:        getEnvDuration("METADATA_TTL_MS", 3600_000),
		DerivedTTL:         getEnvDuration("DERIVED_TTL_MS", 300_000),
		CacheSweepInterval: getEnvDuration("CACHE_SWEEP_INTERVAL_MS", 600_000),

		RetryMaxAttempts:  getEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: getEnvDuration("RETRY_INITIAL_DELAY_MS", 1000),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required in production")
		}
		if c.PerplexityAPIKey == "" {
			return fmt.Errorf("PERPLEXITY_API_KEY is required in production")
		}
	}

	if c.MaxDepth < 0 || c.MaxBranch < 0 {
		return fmt.Errorf("traversal bounds must not be negative")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a millisecond-valued environment variable
func getEnvDuration(key string, defaultMillis int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMillis)) * time.Millisecond
}
