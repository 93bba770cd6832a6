package metrics

import (
	"math"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/oklog/ulid/v2"
)

// FailedToConnect is the status tag for requests that never produced an
// HTTP status: connect errors, timeouts and TLS failures.
const FailedToConnect = "Failed to connect"

const (
	// minHistogramCeiling keeps at least 60s of range even for short timeouts.
	minHistogramCeiling = 60_000
	significantFigures  = 3
)

// Sample is the measured outcome of a single request.
type Sample struct {
	Client     int    `json:"client"`
	Iteration  int    `json:"iteration"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Cause      string `json:"cause,omitempty"` // error category for failed requests
}

// Failed reports whether the request ended without an HTTP status.
func (s Sample) Failed() bool {
	return s.Status == FailedToConnect
}

// Report aggregates every sample of a run. The histogram is authoritative
// for quantiles; min, max and mean are tracked exactly alongside it.
// A Report is not safe for concurrent use.
type Report struct {
	Clients int
	RunID   string
	Samples []Sample
	Start   time.Time

	hist    *hdrhistogram.Histogram
	ceiling int64
	min     int64
	max     int64
	sum     int64
	end     time.Time
}

// NewReport prepares an empty report. The histogram covers at least
// [1, timeout] milliseconds; larger values are clamped on record.
func NewReport(clients int, timeout time.Duration) *Report {
	ceiling := timeout.Milliseconds()
	if ceiling < minHistogramCeiling {
		ceiling = minHistogramCeiling
	}
	return &Report{
		Clients: clients,
		RunID:   ulid.Make().String(),
		Start:   time.Now(),
		hist:    hdrhistogram.New(1, ceiling, significantFigures),
		ceiling: ceiling,
	}
}

// Add records one sample. It never fails.
func (r *Report) Add(s Sample) {
	v := s.DurationMs
	if v < 0 {
		v = 0
	}
	if v > r.ceiling {
		v = r.ceiling
	}
	_ = r.hist.RecordValue(v)

	if len(r.Samples) == 0 || v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}
	r.sum += v
	r.Samples = append(r.Samples, s)
}

func (r *Report) Count() int64 {
	return r.hist.TotalCount()
}

func (r *Report) Min() int64 {
	if r.Count() == 0 {
		return 0
	}
	return r.min
}

func (r *Report) Max() int64 {
	return r.max
}

func (r *Report) Mean() float64 {
	n := r.Count()
	if n == 0 {
		return 0
	}
	return float64(r.sum) / float64(n)
}

// Quantile returns the latency at q in (0,1), e.g. 0.95 for p95.
// Results are clamped into [Min, Max] so bucket rounding never escapes the observed range.
func (r *Report) Quantile(q float64) int64 {
	if r.Count() == 0 || math.IsNaN(q) {
		return 0
	}
	q = math.Max(0, math.Min(q, 1))
	v := r.hist.ValueAtQuantile(q * 100)
	if v < r.min {
		v = r.min
	}
	if v > r.max {
		v = r.max
	}
	return v
}

// StatusFrequencies counts samples per status tag.
func (r *Report) StatusFrequencies() map[string]int {
	freq := make(map[string]int)
	for _, s := range r.Samples {
		freq[s.Status]++
	}
	return freq
}

// StatusCounts returns the status frequencies as sorted rows.
func (r *Report) StatusCounts() []StatusCount {
	return SortStatusCounts(r.StatusFrequencies())
}

// FailureCauses breaks the failed samples down by Cause. Failures recorded
// without a cause count as CauseOther.
func (r *Report) FailureCauses() []CauseCount {
	freq := make(map[string]int)
	for _, s := range r.Samples {
		if !s.Failed() {
			continue
		}
		cause := s.Cause
		if cause == "" {
			cause = CauseOther
		}
		freq[cause]++
	}
	return SortCauseCounts(freq)
}

// Finish freezes Elapsed at the current instant. Calling it again has no effect.
func (r *Report) Finish() {
	if r.end.IsZero() {
		r.end = time.Now()
	}
}

// Elapsed is the wall-clock time since the report was created, or until Finish.
func (r *Report) Elapsed() time.Duration {
	if !r.end.IsZero() {
		return r.end.Sub(r.Start)
	}
	return time.Since(r.Start)
}
