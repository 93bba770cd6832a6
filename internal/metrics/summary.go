package metrics

import "time"

// Summary is a JSON-friendly snapshot of a Report.
type Summary struct {
	RunID          string        `json:"run_id"`
	Clients        int           `json:"clients"`
	Total          int64         `json:"total"`
	Elapsed        time.Duration `json:"-"`
	ElapsedMs      float64       `json:"elapsed_ms"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	MeanMs         float64       `json:"mean_ms"`
	MinMs          int64         `json:"min_ms"`
	MaxMs          int64         `json:"max_ms"`
	P50Ms          int64         `json:"p50_ms"`
	P90Ms          int64         `json:"p90_ms"`
	P95Ms          int64         `json:"p95_ms"`
	P99Ms          int64         `json:"p99_ms"`
	P999Ms         int64         `json:"p999_ms"`
	Statuses       []StatusCount `json:"statuses,omitempty"`
	Failures       []CauseCount  `json:"failures,omitempty"`
}

func (r *Report) Summary() Summary {
	elapsed := r.Elapsed()
	s := Summary{
		RunID:     r.RunID,
		Clients:   r.Clients,
		Total:     r.Count(),
		Elapsed:   elapsed,
		ElapsedMs: float64(elapsed) / float64(time.Millisecond),
		MeanMs:    r.Mean(),
		MinMs:     r.Min(),
		MaxMs:     r.Max(),
		P50Ms:     r.Quantile(0.50),
		P90Ms:     r.Quantile(0.90),
		P95Ms:     r.Quantile(0.95),
		P99Ms:     r.Quantile(0.99),
		P999Ms:    r.Quantile(0.999),
		Statuses:  r.StatusCounts(),
		Failures:  r.FailureCauses(),
	}
	if elapsed > 0 && s.Total > 0 {
		s.RequestsPerSec = float64(s.Total) / elapsed.Seconds()
	}
	return s
}
