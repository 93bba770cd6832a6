package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

const (
	DefaultClients  = 1
	DefaultRequests = 1
	DefaultTimeout  = 30000 // milliseconds
)

// Settings is the immutable description of a run. Durations are kept as
// plain integers so the YAML scenario format stays human-editable.
type Settings struct {
	Clients   int      `yaml:"clients"`
	Requests  int      `yaml:"requests"`
	Target    string   `yaml:"target"`
	KeepAlive int64    `yaml:"keep_alive,omitempty"` // milliseconds, 0 uses the transport default
	Body      string   `yaml:"body,omitempty"`
	Headers   []Header `yaml:"headers,omitempty"`
	Duration  int64    `yaml:"duration,omitempty"` // seconds, 0 selects iteration mode
	Verbose   bool     `yaml:"verbose"`
	Timeout   int64    `yaml:"timeout"` // milliseconds
}

// Header is a single request header. Order matters: later entries with the
// same name overwrite earlier ones when the request is built.
type Header struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type TerminationMode int

const (
	ByIterations TerminationMode = iota
	ByDuration
)

func (m TerminationMode) String() string {
	if m == ByDuration {
		return "duration"
	}
	return "iterations"
}

// Termination describes when a run ends.
type Termination struct {
	Mode     TerminationMode
	Total    int           // total iterations across all clients (ByIterations)
	Duration time.Duration // wall-clock budget per worker (ByDuration)
}

// NewSettings returns Settings populated with the CLI defaults.
func NewSettings(target string) *Settings {
	return &Settings{
		Clients:  DefaultClients,
		Requests: DefaultRequests,
		Target:   target,
		Timeout:  DefaultTimeout,
	}
}

func (s *Settings) Termination() Termination {
	if s.Duration > 0 {
		return Termination{Mode: ByDuration, Duration: time.Duration(s.Duration) * time.Second}
	}
	return Termination{Mode: ByIterations, Total: s.Requests}
}

// RequestsPerClient splits the iteration budget evenly. The remainder of
// Requests / Clients is dropped, so 7 requests over 10 clients runs nothing.
func (s *Settings) RequestsPerClient() int {
	if s.Clients <= 0 {
		return 0
	}
	return s.Requests / s.Clients
}

// ExpectedSamples is the number of samples an uncancelled iteration run produces.
func (s *Settings) ExpectedSamples() int {
	return s.Clients * s.RequestsPerClient()
}

func (s *Settings) Method() Method {
	m, _ := ParseTarget(s.Target)
	return m
}

func (s *Settings) URL() string {
	_, u := ParseTarget(s.Target)
	return u
}

func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Millisecond
}

func (s *Settings) KeepAliveInterval() time.Duration {
	return time.Duration(s.KeepAlive) * time.Millisecond
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the settings before any work starts. A run with more
// clients than requests is accepted: the extra workers simply do nothing.
func (s *Settings) Validate() error {
	var issues []string

	if s.Clients < 1 {
		issues = append(issues, "clients must be >= 1")
	}
	if s.Duration < 0 {
		issues = append(issues, "duration must be >= 0")
	}
	if s.Duration == 0 && s.Requests < 1 {
		issues = append(issues, "requests must be >= 1")
	}
	if s.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if s.KeepAlive < 0 {
		issues = append(issues, "keep_alive must be >= 0")
	}

	if strings.TrimSpace(s.Target) == "" {
		issues = append(issues, "target is required (use --help for usage information)")
	} else if err := validateURL(s.URL()); err != nil {
		issues = append(issues, err.Error())
	}

	for i, h := range s.Headers {
		if strings.TrimSpace(h.Key) == "" {
			issues = append(issues, fmt.Sprintf("headers[%d]: key must not be empty", i))
			continue
		}
		if !httpguts.ValidHeaderFieldName(h.Key) {
			issues = append(issues, fmt.Sprintf("headers[%d]: invalid header name %q", i, h.Key))
		}
		if !httpguts.ValidHeaderFieldValue(h.Value) {
			issues = append(issues, fmt.Sprintf("headers[%d]: invalid value for %s", i, h.Key))
		}
	}

	if len(issues) > 0 {
		return &ConfigError{Input: "settings", Err: ValidationError{issues: issues}}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("target url %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("target url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("target url %q: host is required", raw)
	}
	return nil
}
