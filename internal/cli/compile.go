package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pschichtel/VirtualScanner/internal/compiler"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/vk"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Direct    bool
	Envelope  string
	NoNesting bool
	NoSpecial bool
}

// CompilationResult is the compiled form of one macro.
type CompilationResult struct {
	Input      string        `json:"input"`
	Path       string        `json:"path"`
	Tree       string        `json:"tree,omitempty"`
	Events     []ir.KeyEvent `json:"events"`
	Canonical  string        `json:"canonical"`
	Unresolved []string      `json:"unresolved,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <macro>",
		Short: "Compile a macro to key events",
		Long: `Compile a macro to key press/release events without typing it.

Prints the action tree after envelope substitution, every event and the
canonical action list (+N press, -N release, ~N tap).

Examples:
  vscan compile 'Ab{ENTER}'
  vscan compile --envelope '{F1}{CONTENT}\n' 'AB'
  vscan compile --direct 'abc' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Direct, "direct", false, "type characters through the layout only (all-or-nothing)")
	cmd.Flags().StringVar(&opts.Envelope, "envelope", "", "envelope template (overrides config)")
	cmd.Flags().BoolVar(&opts.NoNesting, "no-nesting", false, "treat parentheses as literal characters")
	cmd.Flags().BoolVar(&opts.NoSpecial, "no-special", false, "treat braces as literal characters")

	return cmd
}

func runCompile(opts *CompileOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := loadEnvironment(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	var result *CompilationResult
	if opts.Direct {
		result, err = compileDirect(env, input)
	} else {
		copts := env.Config.CompileOptions(env.Layout)
		if cmd.Flags().Changed("envelope") {
			copts.Envelope = nil
			if opts.Envelope != "" {
				copts = copts.WithEnvelope(opts.Envelope)
			}
		}
		if opts.NoNesting {
			copts.AllowNesting = false
		}
		if opts.NoSpecial {
			copts.AllowSpecial = false
		}
		result, err = compileMacro(input, copts)
	}
	if err != nil {
		return fail(formatter, ExitFailure, err)
	}

	formatter.VerboseLog("Compiled %d event(s) via %s path", len(result.Events), result.Path)
	return outputCompileSuccess(formatter, result)
}

func compileMacro(input string, opts compiler.Options) (*CompilationResult, error) {
	prog, err := compiler.Compile(input, opts)
	if err != nil {
		return nil, err
	}
	result := &CompilationResult{
		Input:     input,
		Path:      "macro",
		Tree:      ir.FormatSequence(prog.Tree, ""),
		Events:    nonNilEvents(prog.Events),
		Canonical: prog.Canonical(),
	}
	for _, key := range prog.Unresolved {
		result.Unresolved = append(result.Unresolved, key.String())
	}
	return result, nil
}

func compileDirect(env *environment, input string) (*CompilationResult, error) {
	dopts, err := env.Config.DirectOptions(env.Layout)
	if err != nil {
		return nil, err
	}
	events, err := compiler.CompileDirect(input, dopts)
	if err != nil {
		return nil, err
	}
	return &CompilationResult{
		Input:     input,
		Path:      "direct",
		Events:    nonNilEvents(events),
		Canonical: ir.Canonicalize(events),
	}, nil
}

func nonNilEvents(events []ir.KeyEvent) []ir.KeyEvent {
	if events == nil {
		return []ir.KeyEvent{}
	}
	return events
}

// outputCompileSuccess outputs a compiled macro.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d event(s)\n\n", len(result.Events))
	if result.Tree != "" {
		fmt.Fprintf(w, "Tree:      %s\n", result.Tree)
	}
	fmt.Fprintf(w, "Canonical: %s\n", result.Canonical)

	if len(result.Events) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Events:")
		for i, e := range result.Events {
			fmt.Fprintf(w, "  %3d  %-5s %-8s %s\n", i, e, e.Phase, vk.Name(e.Code))
		}
	}

	if len(result.Unresolved) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Dropped unresolved key(s): %s\n", strings.Join(result.Unresolved, " "))
	}
	return nil
}
