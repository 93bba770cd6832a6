// Package toolserver exposes goku benchmarks as Model Context Protocol
// tools. Each tool runs one load test and answers with a single statistic.
package toolserver

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/metrics"
	"github.com/torosent/goku/internal/runner"
)

// CodeCoreError is the JSON-RPC error code carried by settings and
// benchmark failures.
const CodeCoreError = 0

const instructions = "This server provides a benchmark tool that given a target, concurrent clients and number of total requests"

// BenchmarkFunc runs one load test and returns its report.
type BenchmarkFunc func(ctx context.Context, s *config.Settings) (*metrics.Report, error)

// Options configure a Server.
type Options struct {
	Name      string
	Version   string
	Logger    *zap.Logger
	Benchmark BenchmarkFunc // defaults to runner.Run without a cancel latch
}

// Server is an MCP server with the benchmark tools registered.
type Server struct {
	opt Options
	mcp *mcp.Server
}

func New(opt Options) *Server {
	if opt.Name == "" {
		opt.Name = "goku-mcp"
	}
	if opt.Version == "" {
		opt.Version = "dev"
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	if opt.Benchmark == nil {
		logger := opt.Logger
		opt.Benchmark = func(ctx context.Context, s *config.Settings) (*metrics.Report, error) {
			return runner.New(runner.Options{Settings: s, Logger: logger}).Run(ctx, nil, nil)
		}
	}

	s := &Server{opt: opt}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: opt.Name, Version: opt.Version},
		&mcp.ServerOptions{Instructions: instructions},
	)
	for _, t := range tools {
		mcp.AddTool(s.mcp, &mcp.Tool{Name: t.name, Description: t.description}, s.handler(t))
	}
	return s
}

// Run serves one session on t until the peer disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.mcp.Run(ctx, t)
}

// Connect starts a session on t without waiting for it to end.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}

func (s *Server) handler(t tool) mcp.ToolHandlerFor[Arguments, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args Arguments) (*mcp.CallToolResult, any, error) {
		settings := args.Settings()
		logger := s.opt.Logger.With(
			zap.String("tool", t.name),
			zap.String("target", settings.Target),
			zap.Int("clients", settings.Clients),
			zap.Int("requests", settings.Requests),
		)
		logger.Info("running benchmark")

		if err := settings.Validate(); err != nil {
			logger.Warn("benchmark rejected", zap.Error(err))
			return nil, nil, coreError(err)
		}
		report, err := s.opt.Benchmark(ctx, settings)
		if err != nil {
			logger.Warn("benchmark failed", zap.Error(err))
			return nil, nil, coreError(err)
		}

		value := t.stat(report)
		logger.Info("benchmark finished", zap.Int64("samples", report.Count()), zap.Int64("value_ms", value))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: strconv.FormatInt(value, 10)}},
		}, nil, nil
	}
}

// coreError is returned as a JSON-RPC error rather than a tool result.
func coreError(err error) error {
	return &jsonrpc.Error{Code: CodeCoreError, Message: err.Error()}
}
