// Package metrics aggregates request samples into a latency report.
//
// Every request a worker performs becomes a [Sample]: the client index, the
// iteration index, a status tag and the elapsed time in whole milliseconds.
// Failed requests are samples too; their status tag is [FailedToConnect].
//
// # Report
//
// The [Report] type folds samples into an HDR histogram (3 significant
// figures) and keeps the raw sample list for the status table:
//
//	report := metrics.NewReport(settings.Clients, settings.RequestTimeout())
//	report.Add(metrics.Sample{Client: 0, Iteration: 0, Status: "200 OK", DurationMs: 12})
//
//	report.Count()            // number of samples
//	report.Mean()             // exact mean in ms
//	report.Quantile(0.95)     // p95 from the histogram
//	report.StatusCounts()     // sorted status frequency rows
//
// Durations above the histogram ceiling are clamped rather than dropped, so
// Count always equals the number of samples added.
//
// # Thread Safety
//
// A Report is owned by a single collector goroutine and performs no locking.
// Read it only after the collector has returned.
package metrics
