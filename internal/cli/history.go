package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pschichtel/VirtualScanner/internal/config"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Content  string
}

// HistoryResult holds recorded scans and totals per outcome.
type HistoryResult struct {
	Scans  []ir.ScanRecord    `json:"scans"`
	Counts map[ir.Outcome]int `json:"counts"`
	Total  int                `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scans",
		Long: `List the most recent scans recorded in the history database,
oldest first, with totals per outcome.

The database comes from --db or the config's history_db.

Examples:
  vscan history --limit 50
  vscan history --content 'Ab{ENTER}'
  vscan history --db ./scans.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the history database (overrides config)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of scans to show (0 for all)")
	cmd.Flags().StringVar(&opts.Content, "content", "", "only show scans of this exact content")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	dbPath := opts.Database
	if dbPath == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return fail(formatter, ExitCommandError, err)
		}
		dbPath = cfg.HistoryDB
	}
	if dbPath == "" {
		return failWith(formatter, ExitCommandError, ErrCodeConfig, "no history database: set history_db or pass --db", nil)
	}
	// Opening would create an empty database.
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return failWith(formatter, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("history database not found: %s", dbPath), nil)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeGeneric, fmt.Sprintf("opening history: %v", err), nil)
	}
	defer st.Close()

	ctx := commandContext(cmd)
	var scans []ir.ScanRecord
	if opts.Content != "" {
		scans, err = st.ReadScansByHash(ctx, ir.ContentHash(opts.Content))
		if err == nil && opts.Limit > 0 && len(scans) > opts.Limit {
			scans = scans[len(scans)-opts.Limit:]
		}
	} else {
		scans, err = st.ReadScans(ctx, opts.Limit)
	}
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeGeneric, fmt.Sprintf("reading history: %v", err), nil)
	}

	counts, err := st.CountByOutcome(ctx)
	if err != nil {
		return failWith(formatter, ExitCommandError, ErrCodeGeneric, fmt.Sprintf("reading history: %v", err), nil)
	}

	result := HistoryResult{Scans: scans, Counts: counts}
	for _, n := range counts {
		result.Total += n
	}
	return outputHistory(formatter, result)
}

func outputHistory(formatter *OutputFormatter, result HistoryResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Scans) == 0 {
		fmt.Fprintln(w, "No scans recorded.")
		return nil
	}

	for _, rec := range result.Scans {
		fmt.Fprintf(w, "[%d] %s %-16s %-9s %q\n",
			rec.Seq, rec.RecordedAt.Local().Format(time.DateTime), rec.Outcome, rec.Source, rec.Content)
		if rec.Canonical != "" {
			fmt.Fprintf(w, "     Events: %s\n", rec.Canonical)
		}
		if rec.Error != "" {
			fmt.Fprintf(w, "     Error: %s\n", rec.Error)
		}
		fmt.Fprintf(w, "     ID: %s\n", truncateID(rec.ID))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d scan(s)", result.Total)
	for _, o := range ir.Outcomes {
		if n := result.Counts[o]; n > 0 {
			fmt.Fprintf(w, ", %s %d", o, n)
		}
	}
	fmt.Fprintln(w)
	return nil
}

// truncateID shortens long IDs for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
