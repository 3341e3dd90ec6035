package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pschichtel/VirtualScanner/internal/engine"
	"github.com/pschichtel/VirtualScanner/internal/inject"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/metrics"
	"github.com/pschichtel/VirtualScanner/internal/notify"
	"github.com/pschichtel/VirtualScanner/internal/server"
	"github.com/pschichtel/VirtualScanner/internal/source"
)

// Watch sources.
const (
	SourceClipboard = "clipboard"
	SourceStdin     = "stdin"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Source      string
	MetricsAddr string
	DryRun      bool
	Direct      bool
	NotifyCmd   string

	// Notifier overrides --notify-cmd (for testing).
	Notifier notify.Notifier
	// Injector overrides the keyboard backend (for testing).
	Injector inject.Injector
	// NewSource overrides source construction (for testing).
	NewSource func(env *environment) (source.Source, error)
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return newWatchCommand(&WatchOptions{RootOptions: rootOpts})
}

func newWatchCommand(opts *WatchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Type every detected content",
		Long: `Run the scan engine: every detection from the source is compiled and
typed, one at a time, in arrival order.

Failures are reported and the engine continues with the next detection.
With --notify-cmd, scans that were not typed are also announced through an
external notifier called as: <cmd> <args...> <title> <message>.
The engine stops on Ctrl-C, or when a stdin source reaches end of input.

Examples:
  vscan watch
  vscan watch --source stdin --dry-run
  vscan watch --metrics-addr :9090
  vscan watch --notify-cmd notify-send`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", SourceClipboard, "detection source (clipboard|stdin)")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve /metrics, /healthz and /compile on this address")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print events instead of typing them")
	cmd.Flags().BoolVar(&opts.Direct, "direct", false, "type characters through the layout only (all-or-nothing)")
	cmd.Flags().StringVar(&opts.NotifyCmd, "notify-cmd", "", "announce scans that were not typed through this command")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer func() { _ = env.Logger.Sync() }()

	src, err := newWatchSource(opts, env, cmd)
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}

	em, err := newEmitter(env, opts.Injector, opts.DryRun, formatter.GetErrWriter())
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}

	c, err := env.scanCompiler(opts.Direct, em.Injector())
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}

	notifier, err := watchNotifier(opts)
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	historyOpts, closeHistory, err := historyOptions(ctx, env)
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}
	defer closeHistory()

	m := metrics.New()
	var watched int
	eng := engine.New(c, em, append(historyOpts,
		engine.WithLogger(env.Logger),
		engine.WithMetrics(m),
		engine.WithUnicodeNormalization(env.Config.NormalizeUnicode),
		engine.WithScanHook(func(rec ir.ScanRecord) {
			watched++
			printWatchedScan(formatter, rec)
			announceScan(ctx, notifier, rec, env.Logger)
		}),
	)...)

	var handler http.Handler
	if opts.MetricsAddr != "" {
		if handler, err = watchHandler(env, m); err != nil {
			return fail(formatter, ExitCommandError, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ignoreCanceled(eng.Run(gctx))
	})
	g.Go(func() error {
		defer eng.Stop()
		return ignoreCanceled(src.Run(gctx, func(d source.Detection) {
			if !eng.Enqueue(d) {
				env.Logger.Warn("engine stopped, dropping detection", zap.String("source", d.Source))
			}
		}))
	})
	if handler != nil {
		g.Go(func() error {
			return server.ListenAndServe(gctx, opts.MetricsAddr, handler, env.Logger)
		})
	}

	if !formatter.IsJSON() {
		fmt.Fprintf(formatter.GetErrWriter(), "Watching %s. Press Ctrl-C to stop.\n", src.Name())
	}
	env.Logger.Info("watch started", zap.String("source", src.Name()))

	if err := g.Wait(); err != nil {
		return failWith(formatter, ExitFailure, ErrCodeGeneric, fmt.Sprintf("watch stopped: %v", err), nil)
	}

	env.Logger.Info("watch stopped", zap.Int("scans", watched))
	return nil
}

// newWatchSource builds the detection source named by --source.
func newWatchSource(opts *WatchOptions, env *environment, cmd *cobra.Command) (source.Source, error) {
	if opts.NewSource != nil {
		return opts.NewSource(env)
	}
	switch opts.Source {
	case SourceClipboard:
		if err := source.ClipboardAvailable(); err != nil {
			return nil, err
		}
		return source.NewClipboard(env.Config.PollInterval, env.Logger), nil
	case SourceStdin:
		return source.NewLines(cmd.InOrStdin(), env.Config.EncodingHint, env.Logger), nil
	default:
		return nil, fmt.Errorf("unknown source %q: must be %s or %s", opts.Source, SourceClipboard, SourceStdin)
	}
}

// watchNotifier returns the notifier for --notify-cmd, or nil.
func watchNotifier(opts *WatchOptions) (notify.Notifier, error) {
	if opts.Notifier != nil {
		return opts.Notifier, nil
	}
	if opts.NotifyCmd == "" {
		return nil, nil
	}
	return notify.NewCommand(strings.Fields(opts.NotifyCmd))
}

// announceScan notifies the user about a scan that was not typed.
// Notifier failures are logged and never stop the engine.
func announceScan(ctx context.Context, n notify.Notifier, rec ir.ScanRecord, logger *zap.Logger) {
	if n == nil {
		return
	}
	msg, ok := notify.Message(rec)
	if !ok {
		return
	}
	if err := n.Notify(ctx, msg); err != nil {
		logger.Warn("notification failed", zap.String("scan_id", rec.ID), zap.Error(err))
	}
}

// watchHandler serves metrics next to the compile API.
func watchHandler(env *environment, m *metrics.Metrics) (http.Handler, error) {
	dopts, err := env.Config.DirectOptions(env.Layout)
	if err != nil {
		return nil, err
	}
	return server.NewHandler(&server.Server{
		Options: env.Config.CompileOptions(env.Layout),
		Direct:  dopts,
		Metrics: m,
		Logger:  env.Logger,
	}), nil
}

// printWatchedScan reports a processed scan: a status line in text mode,
// one JSON object per line otherwise.
func printWatchedScan(formatter *OutputFormatter, rec ir.ScanRecord) {
	if formatter.IsJSON() {
		enc := json.NewEncoder(formatter.Writer)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(rec)
		return
	}
	writeScanLine(formatter.Writer, rec)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
