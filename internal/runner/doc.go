// Package runner is the load generation engine of goku.
//
// A run is a fixed set of workers, one per configured client. Each worker
// owns its own HTTP client, issues the configured request in a loop and
// sends one [metrics.Sample] per request to a shared sink channel. A single
// collector drains the sink into a [metrics.Report].
//
// # Basic Usage
//
//	r := runner.New(runner.Options{Settings: settings, Logger: logger})
//	report, err := r.Run(ctx, latch, nil)
//
// # Termination
//
// In iteration mode every worker performs Requests / Clients iterations; the
// remainder is dropped. In duration mode every worker loops until Duration
// seconds have passed since it started. Requests in flight are never cut
// short by the deadline.
//
// # Cancellation
//
// A [Latch] is a one-way flag observed by every worker. Once set, workers
// stop at their next iteration boundary or while waiting on a full sink. A
// request already in flight still produces a sample.
//
// The sink is closed when the last worker returns, which is what ends
// [Collect].
package runner
