package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command. The parsed flag
// set is resolved into a Config by Loader.FromFlags.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Request flags
	flags.BoolP("verbose", "v", false, "Runs in verbose mode")
	flags.StringP("target", "t", "", "URL to be requested using an operation [default: GET] Ex. GET http://localhost:3000/")
	flags.StringP("request-body", "r", "", "File path for the request body")
	flags.StringArray("headers", nil, "Headers, multi value in format headerName:HeaderValue (GOKU_HEADERS takes one per line)")

	// Workload flags
	flags.IntP("clients", "c", DefaultClients, "Number of concurrent clients")
	flags.IntP("iterations", "i", DefaultRequests, "Total number of iterations")
	flags.Int64P("duration", "d", 0, "Duration of the test in seconds")
	flags.Int64("timeout", DefaultTimeout, "Timeout in milliseconds")
	flags.Int64("keep-alive", 0, "TCP keep-alive interval in milliseconds (0 uses the transport default)")
	flags.String("scenario", "", "Scenario file")

	// Output flags
	flags.Bool("json-output", false, "Print the summary as JSON")

	// Tracing flags
	flags.String("otlp-endpoint", "", "OTLP collector endpoint for request spans (defaults to OTEL_EXPORTER_OTLP_ENDPOINT)")
	flags.String("otlp-protocol", "grpc", "OTLP exporter protocol: 'grpc' or 'http'")
	flags.Bool("otlp-insecure", false, "Disable TLS towards the OTLP collector")
	flags.Bool("trace-propagate", false, "Inject W3C trace context headers into requests")
	flags.Float64("trace-sample-rate", 1.0, "Fraction of request spans to sample (0.0-1.0)")
}
