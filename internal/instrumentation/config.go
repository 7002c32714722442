package instrumentation

import (
	"os"
	"strconv"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: deskmate).
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: true).
	// Set INSTRUMENTATION_ENABLED=false to disable metrics and tracing.
	Enabled bool

	// OTLPEndpoint is the OTLP collector endpoint for traces and pushed
	// metrics, without a protocol prefix (e.g. "localhost:4318"). OTLP
	// export is disabled when empty; Prometheus scraping stays available
	// either way.
	OTLPEndpoint string

	// OTLPInsecure controls whether to use insecure HTTP for OTLP export.
	// Never use insecure transport in production; traces may contain
	// sensitive metadata.
	OTLPInsecure bool

	// TraceSamplingRate is the sampling rate for traces (0.0 to 1.0).
	TraceSamplingRate float64
}

// DefaultConfig returns the default instrumentation configuration,
// overridable through environment variables.
func DefaultConfig() Config {
	cfg := Config{
		ServiceName:       "deskmate",
		ServiceVersion:    "dev",
		Enabled:           true,
		TraceSamplingRate: 0.1,
	}

	if v := os.Getenv("INSTRUMENTATION_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.OTLPEndpoint = endpoint
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v == "true" {
		cfg.OTLPInsecure = true
	}
	if v := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0 && rate <= 1 {
			cfg.TraceSamplingRate = rate
		}
	}

	return cfg
}
