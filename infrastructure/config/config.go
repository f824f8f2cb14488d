// Package config loads server configuration from the environment and,
// optionally, a watched YAML file for runtime-adjustable limits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// PlantUML render server used for diagram previews
	PlantUMLServer string

	// Optional YAML file holding runtime-adjustable limits
	ConfigFile string

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		PlantUMLServer:  getEnv("PLANTUML_SERVER", "https://www.plantuml.com/plantuml"),
		ConfigFile:      getEnv("CONFIG_FILE", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),
		EnableMetrics:   getEnvBool("ENABLE_METRICS", true),
		EnableTracing:   getEnvBool("ENABLE_TRACING", false),
		EnableCORS:      getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS cannot be empty")
	}
	if c.PlantUMLServer == "" {
		return fmt.Errorf("PLANTUML_SERVER cannot be empty")
	}
	if !strings.HasPrefix(c.PlantUMLServer, "http://") && !strings.HasPrefix(c.PlantUMLServer, "https://") {
		return fmt.Errorf("PLANTUML_SERVER must be an http(s) URL")
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
