package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/metrics"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func sampleReport() *metrics.Report {
	r := metrics.NewReport(2, 30*time.Second)
	for i, d := range []int64{10, 20, 30, 40} {
		r.Add(metrics.Sample{Client: i % 2, Iteration: i / 2, Status: "200 OK", DurationMs: d})
	}
	r.Add(metrics.Sample{Client: 0, Iteration: 2, Status: metrics.FailedToConnect, DurationMs: 5, Cause: metrics.CauseRefused})
	r.Finish()
	return r
}

func TestPrintBanner(t *testing.T) {
	s := config.NewSettings("GET http://localhost:3000/")
	s.Clients = 4
	s.Requests = 100

	var buf bytes.Buffer
	PrintBanner(&buf, s)
	want := "kamehameha to GET http://localhost:3000/ with 4 concurrent clients and 100 total iterations\n"
	if buf.String() != want {
		t.Fatalf("banner = %q, want %q", buf.String(), want)
	}

	s.Duration = 10
	buf.Reset()
	PrintBanner(&buf, s)
	want = "kamehameha to GET http://localhost:3000/ with 4 concurrent clients for 10 seconds\n"
	if buf.String() != want {
		t.Fatalf("banner = %q, want %q", buf.String(), want)
	}
}

func TestPrintSample(t *testing.T) {
	var buf bytes.Buffer
	PrintSample(&buf, metrics.Sample{Client: 3, Iteration: 12, Status: "404 Not Found", DurationMs: 7})
	want := "[Client 3 Iteration 12] 404 Not Found 7ms\n"
	if buf.String() != want {
		t.Fatalf("sample line = %q, want %q", buf.String(), want)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, sampleReport())
	out := buf.String()

	for _, want := range []string{
		"Concurrency level 2\n",
		"Total requests 5\n",
		"Mean request time 21.00 ms\n",
		"Max request time 40 ms\n",
		"Min request time 5 ms\n",
		"95'th percentile: 40 ms\n",
		"99.9'th percentile: 40 ms\n",
		"200 OK 4\n",
		"Failed to connect 1\n",
		"  Connection refused 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "200 OK") > strings.Index(out, "Failed to connect") {
		t.Errorf("status rows should be sorted by count:\n%s", out)
	}
	if strings.Index(out, "Connection refused") < strings.Index(out, "Failed to connect") {
		t.Errorf("failure causes should follow the status rows:\n%s", out)
	}
}

func TestPrintReportEmpty(t *testing.T) {
	r := metrics.NewReport(10, time.Second)
	r.Finish()

	var buf bytes.Buffer
	PrintReport(&buf, r)
	if !strings.Contains(buf.String(), "Total requests 0\n") {
		t.Fatalf("unexpected empty report:\n%s", buf.String())
	}
}

func TestPrintJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSONReport(&buf, sampleReport()); err != nil {
		t.Fatalf("PrintJSONReport() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["total"] != float64(5) {
		t.Errorf("total = %v, want 5", decoded["total"])
	}
	if decoded["max_ms"] != float64(40) {
		t.Errorf("max_ms = %v, want 40", decoded["max_ms"])
	}
	if _, ok := decoded["run_id"].(string); !ok {
		t.Errorf("run_id missing: %v", decoded)
	}
	statuses, ok := decoded["statuses"].([]any)
	if !ok || len(statuses) != 2 {
		t.Errorf("statuses = %v, want two rows", decoded["statuses"])
	}
	failures, ok := decoded["failures"].([]any)
	if !ok || len(failures) != 1 {
		t.Fatalf("failures = %v, want one row", decoded["failures"])
	}
	if row, _ := failures[0].(map[string]any); row["cause"] != metrics.CauseRefused || row["count"] != float64(1) {
		t.Errorf("failure row = %v", failures[0])
	}
}
