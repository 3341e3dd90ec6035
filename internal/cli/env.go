package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pschichtel/VirtualScanner/internal/config"
	"github.com/pschichtel/VirtualScanner/internal/engine"
	"github.com/pschichtel/VirtualScanner/internal/inject"
	"github.com/pschichtel/VirtualScanner/internal/layout"
	"github.com/pschichtel/VirtualScanner/internal/logging"
)

// environment is what every command needs before doing work: the loaded
// configuration, the layout it names and a logger.
type environment struct {
	Config config.Config
	Layout *layout.Layout
	Logger *zap.Logger
}

// newFormatter builds the output formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadEnvironment loads config, layout and logger. Failures are reported
// through formatter and returned as an ExitError.
func loadEnvironment(opts *RootOptions, formatter *OutputFormatter) (*environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fail(formatter, ExitCommandError, err)
	}

	logger, err := newLogger(opts, cfg)
	if err != nil {
		return nil, failWith(formatter, ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	l, err := cfg.LoadLayout()
	if err != nil {
		code := ErrorCode(err)
		if code == ErrCodeGeneric {
			code = ErrCodeLayout
		}
		return nil, failWith(formatter, ExitCommandError, code, err.Error(), errorDetails(err))
	}
	if l != nil {
		formatter.VerboseLog("Loaded layout %s (%d entries)", l.Source(), l.Len())
	}

	return &environment{Config: cfg, Layout: l, Logger: logger}, nil
}

// newLogger builds the zap logger. --verbose forces debug level and
// --format json selects the JSON encoder.
func newLogger(opts *RootOptions, cfg config.Config) (*zap.Logger, error) {
	if opts.Logger != nil {
		return opts.Logger, nil
	}
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	return logging.New(level, opts.Format == "json")
}

// scanCompiler picks the compile path for detected content. When the
// injector can look up codes for characters, the macro path falls back to
// it for characters no table covers.
func (env *environment) scanCompiler(direct bool, injector inject.Injector) (engine.Compiler, error) {
	if direct {
		dopts, err := env.Config.DirectOptions(env.Layout)
		if err != nil {
			return nil, fmt.Errorf("direct options: %w", err)
		}
		return engine.DirectCompiler{Options: dopts}, nil
	}
	copts := env.Config.CompileOptions(env.Layout)
	if cc, ok := injector.(inject.CharCoder); ok {
		copts.CharCoder = cc.CodeForChar
	}
	return engine.MacroCompiler{Options: copts}, nil
}
