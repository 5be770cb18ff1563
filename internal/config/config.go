package config

import (
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Sampler SamplerConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// StorageConfig holds the optional run-persistence settings. An empty
// URL disables persistence entirely.
type StorageConfig struct {
	DatabaseURL string
}

// SamplerConfig exposes the sampling schedule. Overriding the defaults
// is for development only since results are seed-defined.
type SamplerConfig struct {
	Chains        int
	WarmupDraws   int
	RetainedDraws int
	TargetAccept  float64
	Seed          uint64
	Verbose       bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Storage: StorageConfig{
			DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Sampler: SamplerConfig{
			Chains:        getEnvIntOrDefault("SAMPLER_CHAINS", 2),
			WarmupDraws:   getEnvIntOrDefault("SAMPLER_WARMUP", 1000),
			RetainedDraws: getEnvIntOrDefault("SAMPLER_DRAWS", 2000),
			TargetAccept:  getEnvFloatOrDefault("SAMPLER_TARGET_ACCEPT", 0.9),
			Seed:          uint64(getEnvIntOrDefault("SAMPLER_SEED", 44)),
			Verbose:       getEnvBoolOrDefault("SAMPLER_VERBOSE", false),
		},
	}, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
