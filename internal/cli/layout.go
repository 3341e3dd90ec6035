package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pschichtel/VirtualScanner/internal/compiler"
	"github.com/pschichtel/VirtualScanner/internal/config"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/layout"
)

// DefaultCharset is checked by layout check when neither --charset nor the
// config names one: printable ASCII.
var DefaultCharset = func() string {
	b := make([]byte, 0, 0x7f-0x20)
	for c := byte(0x20); c < 0x7f; c++ {
		b = append(b, c)
	}
	return string(b)
}()

// LayoutEntry is one layout mapping in display form.
type LayoutEntry struct {
	Key       string `json:"key"`
	Canonical string `json:"canonical"`
}

// LayoutCheckResult reports the coverage of a charset.
type LayoutCheckResult struct {
	Path    string   `json:"path"`
	Entries int      `json:"entries"`
	Checked int      `json:"checked"`
	Missing []string `json:"missing"`
}

// NewLayoutCommand creates the layout command group.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and convert keyboard layouts",
		Long: `Inspect and convert keyboard layout files.

Layouts map characters to key event lists. Files ending in .json or
.yaml/.yml hold structured tables; anything else is a line file with one
<char>=<action spec> entry per line.`,
	}

	cmd.AddCommand(newLayoutConvertCommand(rootOpts))
	cmd.AddCommand(newLayoutCheckCommand(rootOpts))
	cmd.AddCommand(newLayoutShowCommand(rootOpts))

	return cmd
}

func newLayoutConvertCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a layout between formats",
		Long: `Convert a layout between the line format and JSON/YAML tables.
The formats are picked from the file extensions.

Examples:
  vscan layout convert de.txt de.yaml
  vscan layout convert de.json de.txt`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayoutConvert(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runLayoutConvert(rootOpts *RootOptions, in, out string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	l, err := loadLayoutArg(formatter, in)
	if err != nil {
		return err
	}

	skipped, err := layout.SaveFile(out, l)
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", out, err), nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(map[string]any{
			"in":      in,
			"out":     out,
			"entries": l.Len() - len(skipped),
			"skipped": skipped,
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Converted %d entries from %s to %s\n", l.Len()-len(skipped), in, out)
	if len(skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d key(s) the line format cannot hold:\n", len(skipped))
		for _, key := range skipped {
			fmt.Fprintf(w, "  %s\n", strconv.Quote(key))
		}
	}
	return nil
}

// LayoutCheckOptions holds flags for layout check.
type LayoutCheckOptions struct {
	*RootOptions
	Charset string
}

func newLayoutCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LayoutCheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report characters a layout cannot type",
		Long: `Report the characters of a charset that have no layout entry.

The charset comes from --charset, then the config's charset, then
printable ASCII.

Exit codes:
  0 - Every character is covered
  1 - Characters are missing
  2 - Command error (layout not loadable, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayoutCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Charset, "charset", "", "characters the layout must cover")

	return cmd
}

func runLayoutCheck(opts *LayoutCheckOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	charset := opts.Charset
	if charset == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return fail(formatter, ExitCommandError, err)
		}
		charset = cfg.Charset
	}
	if charset == "" {
		charset = DefaultCharset
	}

	l, err := loadLayoutArg(formatter, path)
	if err != nil {
		return err
	}

	missing := l.Missing(charset)
	result := LayoutCheckResult{
		Path:    path,
		Entries: l.Len(),
		Checked: countDistinct(charset),
		Missing: make([]string, len(missing)),
	}
	for i, r := range missing {
		result.Missing[i] = string(r)
	}

	if len(missing) > 0 {
		missingErr := &compiler.MissingCharactersError{Chars: missing}
		return failWith(formatter, ExitFailure, ErrCodeMissingChars, missingErr.Error(), errorDetails(missingErr))
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Layout covers all %d character(s)\n", result.Checked)
	return nil
}

func countDistinct(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

func newLayoutShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <file>",
		Short:         "List the entries of a layout",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayoutShow(rootOpts, args[0], cmd)
		},
	}
}

func runLayoutShow(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	l, err := loadLayoutArg(formatter, path)
	if err != nil {
		return err
	}

	keys := l.Keys()
	entries := make([]LayoutEntry, 0, len(keys))
	for _, key := range keys {
		events, _ := l.Lookup(key)
		entries = append(entries, LayoutEntry{Key: key, Canonical: ir.Canonicalize(events)})
	}

	if formatter.IsJSON() {
		return formatter.Success(entries)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Layout %s: %d entries\n\n", path, len(entries))
	for _, e := range entries {
		fmt.Fprintf(w, "  %-8s %s\n", strconv.Quote(e.Key), e.Canonical)
	}
	return nil
}

// loadLayoutArg loads a layout named on the command line.
func loadLayoutArg(formatter *OutputFormatter, path string) (*layout.Layout, error) {
	l, err := layout.LoadFile(path)
	if err != nil {
		code := ErrorCode(err)
		if code == ErrCodeGeneric {
			code = ErrCodeLayout
		}
		return nil, failWith(formatter, ExitCommandError, code, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded layout %s (%d entries)", path, l.Len())
	return l, nil
}
