package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pschichtel/VirtualScanner/internal/metrics"
	"github.com/pschichtel/VirtualScanner/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Serve the compiler over HTTP. Nothing is typed.

Endpoints:
  POST /compile   {"input": "...", "envelope": "...", "direct": false}
  GET  /keys      named keys
  GET  /healthz
  GET  /metrics   Prometheus metrics

Example:
  vscan serve --addr 127.0.0.1:8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "listen address")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer func() { _ = env.Logger.Sync() }()

	dopts, err := env.Config.DirectOptions(env.Layout)
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}

	h := server.NewHandler(&server.Server{
		Options: env.Config.CompileOptions(env.Layout),
		Direct:  dopts,
		Metrics: metrics.New(),
		Logger:  env.Logger,
	})

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !formatter.IsJSON() {
		fmt.Fprintf(formatter.GetErrWriter(), "Serving on %s. Press Ctrl-C to stop.\n", opts.Addr)
	}
	if err := server.ListenAndServe(ctx, opts.Addr, h, env.Logger); err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	env.Logger.Info("server stopped", zap.String("addr", opts.Addr))
	return nil
}
