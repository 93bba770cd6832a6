package runner

import (
	"go.uber.org/zap"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/tracing"
)

// Options configure the Runner.
type Options struct {
	Settings *config.Settings  // workload (required)
	Tracer   *tracing.Provider // optional request spans
	Logger   *zap.Logger       // defaults to a no-op logger
	RunID    string            // span attribute; Run fills it from the report
}

func (o *Options) normalize() {
	if o.Settings == nil {
		o.Settings = config.NewSettings("")
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}
