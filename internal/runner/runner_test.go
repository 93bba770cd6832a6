package runner_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zaptest"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/httpclient"
	"github.com/torosent/goku/internal/metrics"
	"github.com/torosent/goku/internal/runner"
	"github.com/torosent/goku/internal/tracing"
)

func newOKServer(t *testing.T) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func settingsFor(target string, clients, requests int) *config.Settings {
	s := config.NewSettings(target)
	s.Clients = clients
	s.Requests = requests
	return s
}

func run(t *testing.T, s *config.Settings, latch *runner.Latch, onSample func(metrics.Sample)) *metrics.Report {
	t.Helper()
	r := runner.New(runner.Options{Settings: s, Logger: zaptest.NewLogger(t)})
	report, err := r.Run(context.Background(), latch, onSample)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return report
}

func TestRunSingleRequest(t *testing.T) {
	server, _ := newOKServer(t)

	report := run(t, settingsFor("GET "+server.URL+"/", 1, 1), nil, nil)

	if report.Count() != 1 {
		t.Fatalf("expected 1 sample, got %d", report.Count())
	}
	if report.Min() != report.Max() {
		t.Fatalf("single sample must have min == max, got %d/%d", report.Min(), report.Max())
	}
	freq := report.StatusFrequencies()
	if len(freq) != 1 || freq["200 OK"] != 1 {
		t.Fatalf("unexpected status frequencies %v", freq)
	}
}

func TestRunDistributesIterationsAcrossClients(t *testing.T) {
	server, hits := newOKServer(t)

	var mu sync.Mutex
	perClient := map[int][]int{}
	start := time.Now()
	report := run(t, settingsFor("GET "+server.URL+"/", 4, 100), nil, func(s metrics.Sample) {
		mu.Lock()
		perClient[s.Client] = append(perClient[s.Client], s.Iteration)
		mu.Unlock()
	})

	if report.Count() != 100 {
		t.Fatalf("expected 100 samples, got %d", report.Count())
	}
	if atomic.LoadInt64(hits) != 100 {
		t.Fatalf("expected 100 requests on the server, got %d", atomic.LoadInt64(hits))
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("run took too long: %s", elapsed)
	}
	if len(perClient) != 4 {
		t.Fatalf("expected samples from 4 clients, got %d", len(perClient))
	}
	for client, iterations := range perClient {
		if len(iterations) != 25 {
			t.Fatalf("client %d ran %d iterations, want 25", client, len(iterations))
		}
		for i, it := range iterations {
			if it != i {
				t.Fatalf("client %d iterations out of order: %v", client, iterations)
			}
		}
	}
}

func TestRunDropsIterationRemainder(t *testing.T) {
	server, hits := newOKServer(t)

	report := run(t, settingsFor("GET "+server.URL+"/", 10, 7), nil, nil)

	if report.Count() != 0 {
		t.Fatalf("7 iterations over 10 clients must run nothing, got %d samples", report.Count())
	}
	if atomic.LoadInt64(hits) != 0 {
		t.Fatalf("expected no requests, got %d", atomic.LoadInt64(hits))
	}
	if report.Mean() != 0 || report.Quantile(0.95) != 0 {
		t.Fatalf("empty report must have zero statistics")
	}
}

func TestRunForDuration(t *testing.T) {
	server, _ := newOKServer(t)
	s := settingsFor("GET "+server.URL+"/", 2, 1)
	s.Duration = 1

	last := map[int]int{0: -1, 1: -1}
	report := run(t, s, nil, func(sample metrics.Sample) {
		// Collect calls back from a single goroutine.
		if sample.Iteration <= last[sample.Client] {
			t.Errorf("client %d iteration %d after %d", sample.Client, sample.Iteration, last[sample.Client])
		}
		last[sample.Client] = sample.Iteration
	})

	if report.Elapsed() < time.Second {
		t.Fatalf("expected elapsed >= 1s, got %s", report.Elapsed())
	}
	if report.Count() == 0 {
		t.Fatal("expected samples in duration mode")
	}
	if freq := report.StatusFrequencies(); len(freq) != 1 || freq["200 OK"] != int(report.Count()) {
		t.Fatalf("expected every sample to be 200 OK, got %v", freq)
	}
}

func TestRunPostsBodyFromFile(t *testing.T) {
	var mu sync.Mutex
	var received [][]byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/echo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = append(received, body)
		mu.Unlock()
		_, _ = w.Write(body)
	}))
	defer server.Close()

	payload := []byte("{\"name\":\"goku\",\n \"power\": 9001}\n")
	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}

	cmd := &cobra.Command{Use: "goku"}
	config.RegisterFlags(cmd)
	if err := cmd.Flags().Parse([]string{"-t", "POST " + server.URL + "/echo", "-r", path}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := config.NewLoader().FromFlags(cmd.Flags())
	if err != nil {
		t.Fatalf("FromFlags() error = %v", err)
	}

	report := run(t, cfg.Settings, nil, nil)

	if freq := report.StatusFrequencies(); freq["200 OK"] != 1 {
		t.Fatalf("expected one 200 OK, got %v", freq)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || string(received[0]) != string(payload) {
		t.Fatalf("server received %q, want %q", received, payload)
	}
}

func TestRunAgainstClosedPort(t *testing.T) {
	s := settingsFor("GET http://127.0.0.1:1", 1, 3)
	s.Timeout = 2000

	var samples []metrics.Sample
	report := run(t, s, nil, func(sample metrics.Sample) {
		samples = append(samples, sample)
	})

	if report.Count() != 3 {
		t.Fatalf("expected 3 samples, got %d", report.Count())
	}
	for _, sample := range samples {
		if sample.Status != metrics.FailedToConnect {
			t.Fatalf("expected %q, got %q", metrics.FailedToConnect, sample.Status)
		}
		if sample.Cause == "" {
			t.Fatalf("expected a failure cause on %+v", sample)
		}
	}
}

func TestRunRecordsNonSuccessStatuses(t *testing.T) {
	var n int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&n, 1)%2 == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	report := run(t, settingsFor(server.URL, 1, 10), nil, nil)

	counts := report.StatusCounts()
	if len(counts) != 2 {
		t.Fatalf("expected two status rows, got %v", counts)
	}
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if int64(total) != report.Count() {
		t.Fatalf("status counts %d do not add up to %d samples", total, report.Count())
	}
}

func TestLatchStopsDurationRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	}))
	defer server.Close()

	s := settingsFor(server.URL, 4, 1)
	s.Duration = 60

	latch := runner.NewLatch()
	timer := time.AfterFunc(200*time.Millisecond, latch.Set)
	defer timer.Stop()

	start := time.Now()
	report := run(t, s, latch, nil)

	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("cancelled run did not stop promptly: %s", elapsed)
	}
	if !latch.IsSet() {
		t.Fatal("latch should be set")
	}
	if report.Count() == 0 {
		t.Fatal("expected samples recorded before cancellation")
	}
}

func TestLatchSetBeforeRunRecordsNothing(t *testing.T) {
	server, hits := newOKServer(t)
	latch := runner.NewLatch()
	latch.Set()

	report := run(t, settingsFor(server.URL, 3, 30), latch, nil)

	if report.Count() != 0 || atomic.LoadInt64(hits) != 0 {
		t.Fatalf("expected nothing after cancellation, got %d samples and %d hits", report.Count(), atomic.LoadInt64(hits))
	}
}

func TestRunPropagatesTraceContext(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	var withHeader int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Traceparent") != "" {
			atomic.AddInt64(&withHeader, 1)
		}
	}))
	defer server.Close()

	provider, err := tracing.Init(context.Background(), config.TracingConfig{Propagate: true, SampleRate: 1})
	if err != nil {
		t.Fatalf("tracing.Init() error = %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	r := runner.New(runner.Options{
		Settings: settingsFor(server.URL, 2, 4),
		Tracer:   provider,
		Logger:   zaptest.NewLogger(t),
	})
	if _, err := r.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := atomic.LoadInt64(&withHeader); got != 4 {
		t.Fatalf("expected traceparent on 4 requests, got %d", got)
	}
}

func TestStartClosesSinkOnSetupError(t *testing.T) {
	s := settingsFor("http://127.0.0.1:1", 2, 2)
	s.KeepAlive = -1

	sink := make(chan metrics.Sample, 1)
	err := runner.New(runner.Options{Settings: s}).Start(context.Background(), sink, nil)

	var setupErr *httpclient.SetupError
	if !errors.As(err, &setupErr) {
		t.Fatalf("expected SetupError, got %v", err)
	}
	if setupErr.Client != 0 {
		t.Fatalf("expected the first client to fail, got %d", setupErr.Client)
	}
	if _, ok := <-sink; ok {
		t.Fatal("sink should be closed after a setup failure")
	}
}

func TestRunRejectsMalformedHeaders(t *testing.T) {
	s := settingsFor("http://127.0.0.1:1", 1, 1)
	s.Headers = []config.Header{{Key: "bad header", Value: "x"}}

	_, err := runner.New(runner.Options{Settings: s}).Run(context.Background(), nil, nil)
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestRunUsesConfiguredRunID(t *testing.T) {
	server, _ := newOKServer(t)
	r := runner.New(runner.Options{Settings: settingsFor(server.URL, 1, 1), RunID: "fixed-run"})
	report, err := r.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.RunID != "fixed-run" {
		t.Fatalf("RunID = %q, want fixed-run", report.RunID)
	}
}

func TestSinkCapacity(t *testing.T) {
	tests := []struct {
		name     string
		clients  int
		requests int
		duration int64
		want     int
	}{
		{"iterations", 4, 100, 0, 100},
		{"remainder dropped", 3, 10, 0, 9},
		{"zero iterations", 10, 7, 0, 1},
		{"duration", 8, 1, 30, 8 * 256},
		{"capped", 1000, 1, 60, 65536},
		{"large iteration run capped", 10, 1_000_000, 0, 65536},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settingsFor("http://localhost/", tt.clients, tt.requests)
			s.Duration = tt.duration
			if got := runner.SinkCapacity(s); got != tt.want {
				t.Fatalf("SinkCapacity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLatch(t *testing.T) {
	var nilLatch *runner.Latch
	if nilLatch.IsSet() {
		t.Fatal("nil latch must never be set")
	}
	nilLatch.Set()

	l := runner.NewLatch()
	if l.IsSet() {
		t.Fatal("new latch must not be set")
	}
	select {
	case <-l.Done():
		t.Fatal("Done closed before Set")
	default:
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Set()
		}()
	}
	wg.Wait()

	if !l.IsSet() {
		t.Fatal("latch should be set")
	}
	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Set")
	}
}
