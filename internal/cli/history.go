package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonathan2951/mapping-specs/internal/canonical"
	"github.com/jonathan2951/mapping-specs/internal/loader"
	"github.com/jonathan2951/mapping-specs/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit    int
	SpecHash string
	ShowSQL  bool
}

// HistoryResult is the payload of the history command.
type HistoryResult struct {
	Compilations []store.Compilation `json:"compilations"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded compilations",
		Long: `List compilations recorded in the journal with compile --record,
newest first.

Examples:
  mapsql history --journal mapsql.db
  mapsql history --journal mapsql.db --limit 5
  mapsql history --journal mapsql.db --spec 3f2a9c --sql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of records (0 for all)")
	cmd.Flags().StringVar(&opts.SpecHash, "spec", "", "only records whose spec hash starts with this prefix")
	cmd.Flags().BoolVar(&opts.ShowSQL, "sql", false, "print the SQL of each record")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter, err := newFormatter(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	if opts.Journal == "" {
		_ = formatter.Error(ErrCodeNoJournal, "history requires a journal path (--journal, MAPSQL_JOURNAL or journal: in mapsql.yaml)", nil)
		return NewExitError(ExitCommandError, ErrCodeNoJournal+": journal path not configured")
	}
	if _, err := os.Stat(opts.Journal); os.IsNotExist(err) {
		_ = formatter.Error(loader.ErrCodeNotFound, fmt.Sprintf("journal not found: %s", opts.Journal), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", opts.Journal))
	}

	st, err := store.Open(opts.Journal)
	if err != nil {
		_ = formatter.Error(ErrCodeJournalFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeJournalFailed, err)
	}
	defer st.Close()

	ctx := cmd.Context()
	var records []store.Compilation
	if opts.SpecHash != "" {
		records, err = st.FindBySpecHash(ctx, strings.ToLower(opts.SpecHash))
		if err == nil && opts.Limit > 0 && len(records) > opts.Limit {
			records = records[:opts.Limit]
		}
	} else {
		records, err = st.List(ctx, opts.Limit)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeJournalFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeJournalFailed, err)
	}
	formatter.VerboseLog("Read %d record(s) from %s", len(records), opts.Journal)

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Compilations: records})
	}
	return outputHistoryText(formatter, records, opts.ShowSQL)
}

func outputHistoryText(formatter *OutputFormatter, records []store.Compilation, showSQL bool) error {
	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No compilations found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(formatter.Writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Seq", "Spec", "SQL", "Strict", "Source"})
	for _, c := range records {
		t.AppendRow(table.Row{c.Seq, canonical.ShortHash(c.SpecHash), canonical.ShortHash(c.SQLHash), c.Strict, c.Source})
	}
	t.Render()

	if showSQL {
		for _, c := range records {
			fmt.Fprintf(formatter.Writer, "\n-- #%d %s\n%s\n", c.Seq, c.Source, c.SQL)
		}
	}
	return nil
}
