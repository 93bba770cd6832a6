package config

import (
	"fmt"
	"os"
)

// TracingConfig controls the optional OpenTelemetry request spans.
type TracingConfig struct {
	Endpoint    string  // OTLP collector endpoint (host:port)
	Protocol    string  // "grpc" (default) or "http"
	Insecure    bool    // plaintext connection to the collector
	Propagate   bool    // inject traceparent headers into requests
	SampleRate  float64 // 0.0-1.0
	ServiceName string
}

// Enabled reports whether spans should be created at all.
func (c TracingConfig) Enabled() bool {
	return c.Endpoint != "" || c.Propagate || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

func (c TracingConfig) ShouldPropagate() bool {
	return c.Propagate
}

func (c TracingConfig) Validate() error {
	var issues []string
	switch c.Protocol {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("otlp protocol %q: use \"grpc\" or \"http\"", c.Protocol))
	}
	if c.SampleRate < 0 || c.SampleRate > 1.0 {
		issues = append(issues, fmt.Sprintf("trace sample rate must be between 0.0 and 1.0, got %g", c.SampleRate))
	}
	if len(issues) > 0 {
		return &ConfigError{Input: "tracing", Err: ValidationError{issues: issues}}
	}
	return nil
}
