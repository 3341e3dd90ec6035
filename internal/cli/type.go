package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pschichtel/VirtualScanner/internal/engine"
	"github.com/pschichtel/VirtualScanner/internal/inject"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/source"
	"github.com/pschichtel/VirtualScanner/internal/store"
)

// TypeOptions holds flags for the type command.
type TypeOptions struct {
	*RootOptions
	DryRun bool
	Direct bool

	// Injector overrides the keyboard backend (for testing).
	Injector inject.Injector
}

// TypeResult summarizes one type invocation.
type TypeResult struct {
	Scans  []ir.ScanRecord `json:"scans"`
	Typed  int             `json:"typed"`
	Failed int             `json:"failed"`
}

// NewTypeCommand creates the type command.
func NewTypeCommand(rootOpts *RootOptions) *cobra.Command {
	return newTypeCommand(&TypeOptions{RootOptions: rootOpts})
}

func newTypeCommand(opts *TypeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type [content...]",
		Short: "Compile content and type it",
		Long: `Compile content and type it through the virtual keyboard.

Arguments are joined with spaces and typed as one content. Without
arguments every non-empty line of stdin is typed in order.

With --dry-run the events are printed instead of typed.

Exit codes:
  0 - All content typed
  1 - Some content was not typed
  2 - Command error (bad config, keyboard unavailable, etc.)

Examples:
  vscan type 'Ab{ENTER}'
  printf 'a\nb\n' | vscan type --dry-run`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runType(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print events instead of typing them")
	cmd.Flags().BoolVar(&opts.Direct, "direct", false, "type characters through the layout only (all-or-nothing)")

	return cmd
}

func runType(opts *TypeOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer func() { _ = env.Logger.Sync() }()

	dryRunOut := formatter.Writer
	if formatter.IsJSON() {
		dryRunOut = formatter.GetErrWriter()
	}
	em, err := newEmitter(env, opts.Injector, opts.DryRun, dryRunOut)
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}

	c, err := env.scanCompiler(opts.Direct, em.Injector())
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}

	engineOpts, closeHistory, err := historyOptions(cmd.Context(), env)
	if err != nil {
		return fail(formatter, ExitCommandError, err)
	}
	defer closeHistory()

	eng := engine.New(c, em, append(engineOpts,
		engine.WithLogger(env.Logger),
		engine.WithUnicodeNormalization(env.Config.NormalizeUnicode),
	)...)

	var detections []source.Detection
	if len(args) > 0 {
		detections = append(detections, source.Detection{Source: "args", Contents: []string{strings.Join(args, " ")}})
	} else {
		lines := source.NewLines(cmd.InOrStdin(), env.Config.EncodingHint, env.Logger)
		if err := lines.Run(commandContext(cmd), func(d source.Detection) {
			detections = append(detections, d)
		}); err != nil {
			return failWith(formatter, ExitCommandError, ErrCodeGeneric, fmt.Sprintf("reading stdin: %v", err), nil)
		}
	}

	result := TypeResult{Scans: make([]ir.ScanRecord, 0, len(detections))}
	var firstErr error
	for _, d := range detections {
		rec, err := eng.Process(commandContext(cmd), d)
		result.Scans = append(result.Scans, rec)
		if rec.Outcome == ir.OutcomeTyped {
			result.Typed++
		} else {
			result.Failed++
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := outputTypeResult(formatter, result); err != nil {
		return err
	}
	if firstErr != nil {
		var scanErr *engine.ScanError
		if errors.As(firstErr, &scanErr) {
			return WrapExitError(ExitFailure, fmt.Sprintf("%s: %d content(s) not typed", ErrorCode(firstErr), result.Failed), firstErr)
		}
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: recording scans", ErrCodeWriteFailed), firstErr)
	}
	return nil
}

// newEmitter builds the emitter. A dry run prints events to out without
// delays; otherwise the evdev keyboard (or the injector override) is paced
// with the configured delays.
func newEmitter(env *environment, override inject.Injector, dryRun bool, out io.Writer) (*inject.Emitter, error) {
	logOpt := inject.WithLogger(env.Logger)
	if dryRun {
		return inject.NewEmitter(&inject.DryRun{W: out}, inject.WithEventDelay(0), logOpt), nil
	}

	injector := override
	if injector == nil {
		kb, err := inject.NewEvdev()
		if err != nil {
			return nil, err
		}
		injector = kb
	}
	return inject.NewEmitter(injector,
		inject.WithStartDelay(env.Config.Delay),
		inject.WithEventDelay(env.Config.EventDelay),
		logOpt,
	), nil
}

// historyOptions opens the configured history database and resumes the
// logical clock after its last record. Without history_db it returns no
// options.
func historyOptions(ctx context.Context, env *environment) ([]engine.Option, func(), error) {
	if env.Config.HistoryDB == "" {
		return nil, func() {}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(env.Config.HistoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			env.Logger.Error("error closing history", zap.Error(err))
		}
	}

	seq, err := st.MaxSeq(ctx)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("reading history: %w", err)
	}
	env.Logger.Debug("history opened", zap.String("path", env.Config.HistoryDB), zap.Int64("seq", seq))
	return []engine.Option{engine.WithHistory(st), engine.WithClock(engine.NewClockAt(seq))}, closeFn, nil
}

// commandContext returns the command's context or Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func outputTypeResult(formatter *OutputFormatter, result TypeResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, rec := range result.Scans {
		writeScanLine(w, rec)
	}
	if result.Failed > 0 {
		fmt.Fprintf(w, "\n%d typed, %d not typed\n", result.Typed, result.Failed)
	}
	return nil
}

// writeScanLine prints one scan record as a status line.
func writeScanLine(w io.Writer, rec ir.ScanRecord) {
	if rec.Outcome == ir.OutcomeTyped {
		fmt.Fprintf(w, "✓ [%d] typed %q (%d event(s))\n", rec.Seq, rec.Content, rec.EventCount)
		if len(rec.Unresolved) > 0 {
			fmt.Fprintf(w, "    dropped: %s\n", strings.Join(rec.Unresolved, " "))
		}
		return
	}
	fmt.Fprintf(w, "✗ [%d] %s %q\n", rec.Seq, rec.Outcome, rec.Content)
	if rec.Error != "" {
		fmt.Fprintf(w, "    %s\n", rec.Error)
	}
}
