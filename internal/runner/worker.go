package runner

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/torosent/goku/internal/httpclient"
	"github.com/torosent/goku/internal/metrics"
	"github.com/torosent/goku/internal/tracing"
)

// worker issues the configured request in a loop over one HTTP client.
type worker struct {
	id      int
	client  *http.Client
	builder *httpclient.RequestBuilder
	budget  budget
	sink    chan<- metrics.Sample
	latch   *Latch
	tracer  *tracing.Provider
	runID   string
	logger  *zap.Logger
}

func (w *worker) run(ctx context.Context) {
	for {
		if w.latch.IsSet() || ctx.Err() != nil {
			return
		}
		iteration, ok := w.budget.next()
		if !ok {
			return
		}
		sample := w.do(ctx, iteration)
		if ctx.Err() != nil {
			return
		}
		if !w.deliver(ctx, sample) {
			return
		}
	}
}

// deliver hands the sample to the collector. A sample whose request finished
// before cancellation is kept whenever the sink has room.
func (w *worker) deliver(ctx context.Context, s metrics.Sample) bool {
	select {
	case w.sink <- s:
		return true
	default:
	}
	select {
	case w.sink <- s:
		return true
	case <-w.latch.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

func (w *worker) do(ctx context.Context, iteration int) metrics.Sample {
	sample := metrics.Sample{Client: w.id, Iteration: iteration}

	ctx, span := tracing.StartRequestSpan(ctx, w.tracer.Tracer(),
		w.builder.Method(), w.builder.Target(), w.runID, w.id, iteration)

	req, err := w.builder.Build(ctx)
	if err != nil {
		sample.Status = metrics.FailedToConnect
		sample.Cause = metrics.ErrorCause(err)
		tracing.EndSpan(span, sample.Status, 0, err)
		return sample
	}
	if w.tracer.ShouldPropagate() {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	start := time.Now()
	resp, err := w.client.Do(req)
	sample.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		sample.Status = metrics.FailedToConnect
		sample.Cause = metrics.ErrorCause(err)
		w.logger.Debug("request failed",
			zap.Int("client", w.id),
			zap.Int("iteration", iteration),
			zap.String("cause", sample.Cause),
			zap.Error(err),
		)
		tracing.EndSpan(span, sample.Status, 0, err)
		return sample
	}

	sample.Status = httpclient.StatusTag(resp.StatusCode)
	// Drain so the connection goes back to the pool.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	tracing.EndSpan(span, sample.Status, resp.StatusCode, nil)
	return sample
}
