package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/torosent/goku/internal/logging"
	"github.com/torosent/goku/internal/toolserver"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.ReadCloser, stdout io.WriteCloser, stderr io.Writer) error {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "goku-mcp",
		Short:         "Serve goku benchmarks as MCP tools on stdin/stdout",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.New(stderr, verbose)
			defer func() { _ = logger.Sync() }()

			logger.Info("serving tools on stdio", zap.String("version", version))
			srv := toolserver.New(toolserver.Options{Version: version, Logger: logger})
			err := srv.Run(cmd.Context(), &mcp.IOTransport{Reader: stdin, Writer: stdout})
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				logger.Info("session closed")
				return nil
			}
			return err
		},
	}
	// stdout is the protocol channel; help and errors go to stderr.
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request at debug level")
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
