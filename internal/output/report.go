package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/metrics"
)

var (
	label = color.New(color.FgYellow, color.Bold)
	value = color.New(color.FgMagenta)

	traceLabel  = color.New(color.FgGreen, color.Bold)
	traceStatus = color.New(color.FgYellow, color.Bold)
	traceTiming = color.New(color.FgCyan)
)

// PrintBanner announces the run before any request is made.
func PrintBanner(w io.Writer, s *config.Settings) {
	if term := s.Termination(); term.Mode == config.ByDuration {
		fmt.Fprintf(w, "kamehameha to %s with %d concurrent clients for %d seconds\n",
			s.Target, s.Clients, s.Duration)
		return
	}
	fmt.Fprintf(w, "kamehameha to %s with %d concurrent clients and %d total iterations\n",
		s.Target, s.Clients, s.Requests)
}

// PrintSample writes the verbose trace line of one request.
func PrintSample(w io.Writer, s metrics.Sample) {
	fmt.Fprintf(w, "[%s %s %s %s] %s %s\n",
		traceLabel.Sprint("Client"),
		traceLabel.Sprint(s.Client),
		traceLabel.Sprint("Iteration"),
		traceLabel.Sprint(s.Iteration),
		traceStatus.Sprint(s.Status),
		traceTiming.Sprintf("%dms", s.DurationMs),
	)
}

// PrintReport outputs the human-readable summary of a finished run.
func PrintReport(w io.Writer, r *metrics.Report) {
	fmt.Fprint(w, "\n\n\n")
	line(w, "Concurrency level", fmt.Sprint(r.Clients))
	line(w, "Time taken", fmt.Sprintf("%.2f seconds", r.Elapsed().Seconds()))
	line(w, "Total requests", fmt.Sprint(r.Count()))
	line(w, "Mean request time", fmt.Sprintf("%.2f ms", r.Mean()))
	line(w, "Max request time", fmt.Sprintf("%d ms", r.Max()))
	line(w, "Min request time", fmt.Sprintf("%d ms", r.Min()))
	line(w, "95'th percentile:", fmt.Sprintf("%d ms", r.Quantile(0.95)))
	line(w, "99.9'th percentile:", fmt.Sprintf("%d ms", r.Quantile(0.999)))
	for _, row := range r.StatusCounts() {
		line(w, row.Status, fmt.Sprint(row.Count))
	}
	for _, row := range r.FailureCauses() {
		line(w, "  "+row.Cause, fmt.Sprint(row.Count))
	}
}

func line(w io.Writer, name, v string) {
	fmt.Fprintf(w, "%s %s\n", label.Sprint(name), value.Sprint(v))
}

// PrintJSONReport outputs the summary as indented JSON.
func PrintJSONReport(w io.Writer, r *metrics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Summary())
}
