// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates the settings of the buildcheck binary from
// environment variables with sensible defaults. Rule configuration is separate;
// it lives in the rule configuration file handled by pkg/buildcheck/config.
//
// # Configuration Structure
//
// Analysis settings:
//
//	BUILDCHECK_NAMESPACE="build_check"
//	BUILDCHECK_MAX_PARALLEL="4"
//	BUILDCHECK_CONFIG_FILE="buildcheck.yaml"
//
// Observability settings:
//
//	BUILDCHECK_LOG_LEVEL="info"  # trace, debug, info, warn, error
//	BUILDCHECK_METRICS_ENABLED="true"
//	BUILDCHECK_METRICS_FILE="/var/lib/node_exporter/buildcheck.prom"
//	BUILDCHECK_OTEL_ENABLED="true"
//	BUILDCHECK_OTEL_ENDPOINT="otel-collector:4317"
//	BUILDCHECK_OTEL_SAMPLE_RATIO="0.5"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Namespace: %s\n", cfg.Analysis.Namespace)
//
// # Related Packages
//
//   - pkg/cli: Overrides these settings with command line flags
//   - pkg/observability: Uses observability configuration
package config
