package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	rulecfg "github.com/platinummonkey/buildcheck/pkg/buildcheck/config"
)

// Config holds all application configuration
type Config struct {
	// Analysis configuration
	Analysis AnalysisConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// AnalysisConfig holds the build check session settings
type AnalysisConfig struct {
	// Namespace prefixes rule configuration keys
	Namespace string
	// MaxParallel bounds concurrently evaluated projects
	MaxParallel int
	// ConfigFile is the rule configuration file; empty means discovery
	ConfigFile string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  logrus.Level
	LogFormat string

	// Metrics
	MetricsEnabled bool
	MetricsFile    string

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
	OTelSampleRatio    float64
	OTelExportInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Analysis:      loadAnalysisConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAnalysisConfig loads analysis configuration from environment
func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Namespace:   getEnv("BUILDCHECK_NAMESPACE", rulecfg.DefaultNamespace),
		MaxParallel: getEnvInt("BUILDCHECK_MAX_PARALLEL", 4),
		ConfigFile:  getEnv("BUILDCHECK_CONFIG_FILE", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("BUILDCHECK_LOG_LEVEL", "info")),
		LogFormat:          getEnv("BUILDCHECK_LOG_FORMAT", "text"),
		MetricsEnabled:     getEnvBool("BUILDCHECK_METRICS_ENABLED", false),
		MetricsFile:        getEnv("BUILDCHECK_METRICS_FILE", ""),
		OTelEnabled:        getEnvBool("BUILDCHECK_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("BUILDCHECK_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("BUILDCHECK_OTEL_SERVICE_NAME", "buildcheck"),
		OTelServiceVersion: getEnv("BUILDCHECK_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("BUILDCHECK_OTEL_INSECURE", true),
		OTelSampleRatio:    getEnvFloat("BUILDCHECK_OTEL_SAMPLE_RATIO", 1.0),
		OTelExportInterval: getEnvDuration("BUILDCHECK_OTEL_EXPORT_INTERVAL", 10*time.Second),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Analysis.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if strings.Contains(c.Analysis.Namespace, " ") {
		return fmt.Errorf("namespace must not contain spaces: %q", c.Analysis.Namespace)
	}
	if c.Analysis.MaxParallel < 1 {
		return fmt.Errorf("max parallel must be at least 1, got %d", c.Analysis.MaxParallel)
	}

	switch strings.ToLower(c.Observability.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Observability.LogFormat)
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
		if c.Observability.OTelSampleRatio < 0 || c.Observability.OTelSampleRatio > 1 {
			return fmt.Errorf("OpenTelemetry sample ratio must be between 0 and 1, got %v", c.Observability.OTelSampleRatio)
		}
	}

	return nil
}

// parseLogLevel parses a log level string, defaulting to info
func parseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns a float environment variable or a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
