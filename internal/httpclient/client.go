package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/torosent/goku/internal/config"
)

// RequestBuilder produces identical requests for every iteration of a run.
type RequestBuilder struct {
	method  string
	target  string
	host    string
	headers http.Header
	body    BodySource
}

// NewRequestBuilder resolves the target, body and headers of the settings.
// Headers are applied in order; a later duplicate overwrites an earlier value.
func NewRequestBuilder(s *config.Settings) (*RequestBuilder, error) {
	if s == nil {
		return nil, errors.New("settings cannot be nil")
	}

	method, target := config.ParseTarget(s.Target)
	if target == "" {
		return nil, errors.New("target URL is required")
	}

	bodySource, err := NewBodySource(s)
	if err != nil {
		return nil, err
	}

	b := &RequestBuilder{
		method:  string(method),
		target:  target,
		headers: make(http.Header, len(s.Headers)),
		body:    bodySource,
	}
	for _, h := range s.Headers {
		key := strings.TrimSpace(h.Key)
		if key == "" || !httpguts.ValidHeaderFieldName(key) {
			return nil, &config.ConfigError{Input: "headers", Err: fmt.Errorf("invalid header key %q", h.Key)}
		}
		if !httpguts.ValidHeaderFieldValue(h.Value) {
			return nil, &config.ConfigError{Input: "headers", Err: fmt.Errorf("invalid header value for %s", key)}
		}
		// net/http ignores a Host entry in Header; it must go on the request itself.
		if http.CanonicalHeaderKey(key) == "Host" {
			b.host = h.Value
			continue
		}
		b.headers.Set(key, h.Value)
	}
	return b, nil
}

func (b *RequestBuilder) Method() string { return b.method }

func (b *RequestBuilder) Target() string { return b.target }

// Build returns a new request bound to ctx.
func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := b.body.NewReader()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, b.method, b.target, reader)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	req.Header = b.headers.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if b.host != "" {
		req.Host = b.host
	}

	if length, ok := b.body.ContentLength(); ok {
		req.ContentLength = length
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return b.body.NewReader()
	}
	return req, nil
}

// ClientOptions configure a single worker's HTTP client.
type ClientOptions struct {
	Timeout   time.Duration // per-request timeout, 0 disables it
	KeepAlive time.Duration // TCP keep-alive period, 0 uses the dialer default
}

// NewClient creates an HTTP client with its own connection pool. Certificate
// validation is disabled.
func NewClient(opts ClientOptions) (*http.Client, error) {
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0, got %s", opts.Timeout)
	}
	if opts.KeepAlive < 0 {
		return nil, fmt.Errorf("keep-alive must be >= 0, got %s", opts.KeepAlive)
	}

	keepAlive := opts.KeepAlive
	if keepAlive == 0 {
		keepAlive = 30 * time.Second
	}
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: keepAlive,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          8,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // load testing accepts any certificate
		},
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}, nil
}

// StatusTag renders a status code the way it appears in the report, e.g. "200 OK".
func StatusTag(code int) string {
	text := http.StatusText(code)
	if text == "" {
		text = "<unknown status code>"
	}
	return strconv.Itoa(code) + " " + text
}

// SetupError reports a failure to construct a worker's HTTP client.
type SetupError struct {
	Client int
	Err    error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("can not create http client %d: %v", e.Client, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
