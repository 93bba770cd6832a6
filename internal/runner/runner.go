package runner

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/httpclient"
	"github.com/torosent/goku/internal/metrics"
)

const (
	maxSinkCapacity     = 65536
	durationSinkPerWork = 256
)

// Runner drives one load test: a fixed set of workers feeding a sample sink.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Start builds one HTTP client per worker, launches the workers and returns
// without waiting for them. The sink is closed once every worker has
// returned. If any client cannot be built, the sink is closed and no worker
// starts.
func (r *Runner) Start(ctx context.Context, sink chan<- metrics.Sample, latch *Latch) error {
	return r.start(ctx, sink, latch, r.opt.RunID)
}

func (r *Runner) start(ctx context.Context, sink chan<- metrics.Sample, latch *Latch, runID string) error {
	s := r.opt.Settings

	builder, err := httpclient.NewRequestBuilder(s)
	if err != nil {
		close(sink)
		return err
	}

	clients := make([]*http.Client, s.Clients)
	for i := range clients {
		client, err := httpclient.NewClient(httpclient.ClientOptions{
			Timeout:   s.RequestTimeout(),
			KeepAlive: s.KeepAliveInterval(),
		})
		if err != nil {
			close(sink)
			return &httpclient.SetupError{Client: i, Err: err}
		}
		clients[i] = client
	}

	r.opt.Logger.Debug("starting workers",
		zap.String("run_id", runID),
		zap.Int("clients", s.Clients),
		zap.Stringer("mode", s.Termination().Mode),
		zap.String("target", builder.Target()),
	)

	var wg sync.WaitGroup
	wg.Add(len(clients))
	for i, client := range clients {
		w := &worker{
			id:      i,
			client:  client,
			builder: builder,
			budget:  newBudget(s),
			sink:    sink,
			latch:   latch,
			tracer:  r.opt.Tracer,
			runID:   runID,
			logger:  r.opt.Logger,
		}
		go func() {
			defer wg.Done()
			w.run(ctx)
		}()
	}

	go func() {
		wg.Wait()
		close(sink)
	}()
	return nil
}

// Collect drains sink into report until the sink is closed. onSample, if
// set, sees every sample before it is recorded.
func Collect(sink <-chan metrics.Sample, report *metrics.Report, onSample func(metrics.Sample)) {
	for s := range sink {
		if onSample != nil {
			onSample(s)
		}
		report.Add(s)
	}
}

// Run executes the whole test and returns the finished report. A nil latch
// makes the run purely budget bounded.
func (r *Runner) Run(ctx context.Context, latch *Latch, onSample func(metrics.Sample)) (*metrics.Report, error) {
	s := r.opt.Settings
	report := metrics.NewReport(s.Clients, s.RequestTimeout())

	runID := r.opt.RunID
	if runID == "" {
		runID = report.RunID
	} else {
		report.RunID = runID
	}

	sink := make(chan metrics.Sample, SinkCapacity(s))
	if err := r.start(ctx, sink, latch, runID); err != nil {
		return nil, err
	}
	Collect(sink, report, onSample)
	report.Finish()

	r.opt.Logger.Debug("run finished",
		zap.String("run_id", runID),
		zap.Int64("samples", report.Count()),
		zap.Duration("elapsed", report.Elapsed()),
		zap.Bool("cancelled", latch.IsSet()),
	)
	return report, nil
}

// SinkCapacity sizes the sample channel for a run.
func SinkCapacity(s *config.Settings) int {
	var n int
	if s.Termination().Mode == config.ByDuration {
		n = s.Clients * durationSinkPerWork
	} else {
		n = s.ExpectedSamples()
	}
	if n > maxSinkCapacity {
		n = maxSinkCapacity
	}
	if n < 1 {
		n = 1
	}
	return n
}
