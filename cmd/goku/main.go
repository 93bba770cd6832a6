package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/logging"
	"github.com/torosent/goku/internal/metrics"
	"github.com/torosent/goku/internal/output"
	"github.com/torosent/goku/internal/runner"
	"github.com/torosent/goku/internal/tracing"
)

var version = "dev"

const tracingShutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "goku",
		Short:         "goku is a HTTP load testing application",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().FromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			return execute(cmd.Context(), cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	config.RegisterFlags(cmd)
	return cmd
}

func execute(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s := cfg.Settings

	logger := logging.New(stderr, s.Verbose)
	defer func() { _ = logger.Sync() }()

	if s.Termination().Mode == config.ByIterations && s.ExpectedSamples() != s.Requests {
		logger.Warn("iterations are not a multiple of clients, the remainder is not executed",
			zap.Int("clients", s.Clients),
			zap.Int("iterations", s.Requests),
			zap.Int("executed", s.ExpectedSamples()),
		)
	}

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("flushing request spans failed", zap.Error(err))
		}
	}()

	latch := runner.NewLatch()
	stop := notifyLatch(latch, logger)
	defer stop()

	var bar *output.ProgressBar
	var onSample func(metrics.Sample)
	switch {
	case cfg.JSONOutput:
	case s.Verbose:
		onSample = func(sample metrics.Sample) { output.PrintSample(stdout, sample) }
	default:
		bar = output.NewProgressBar(stdout, s)
		onSample = bar.Observe
	}

	if !cfg.JSONOutput {
		output.PrintBanner(stdout, s)
	}

	r := runner.New(runner.Options{Settings: s, Tracer: provider, Logger: logger})
	report, err := r.Run(ctx, latch, onSample)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}
	if latch.IsSet() {
		logger.Info("run interrupted, reporting partial results", zap.Int64("samples", report.Count()))
	}

	if cfg.JSONOutput {
		return output.PrintJSONReport(stdout, report)
	}
	output.PrintReport(stdout, report)
	return nil
}

// notifyLatch sets latch on SIGINT or SIGTERM until the returned stop
// function is called.
func notifyLatch(latch *runner.Latch, logger *zap.Logger) (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			logger.Info("signal received, stopping clients", zap.Stringer("signal", sig))
			latch.Set()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
