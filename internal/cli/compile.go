package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan2951/mapping-specs/internal/canonical"
	"github.com/jonathan2951/mapping-specs/internal/loader"
	"github.com/jonathan2951/mapping-specs/internal/querysql"
	"github.com/jonathan2951/mapping-specs/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompileResult is the payload of a successful compilation.
type CompileResult struct {
	SQL      string `json:"sql"`
	SpecHash string `json:"spec_hash"`
	SQLHash  string `json:"sql_hash"`
	Source   string `json:"source"`
	Output   string `json:"output,omitempty"`
	Recorded bool   `json:"recorded"`
	Seq      int64  `json:"seq,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <mapping-file>",
		Short: "Compile a mapping specification to SQL",
		Long: `Compile a mapping specification (.yaml, .yml, .json or .cue) into a
single SQL SELECT statement.

In text mode the SQL is printed as-is so it can be piped. With --record the
compilation is appended to the journal given by --journal.

Examples:
  mapsql compile orders.yaml
  mapsql compile orders.cue --strict -o orders.sql
  mapsql compile orders.yaml --record --journal mapsql.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write SQL to this file")
	cmd.Flags().BoolVar(&rootOpts.Record, "record", false, "record the compilation in the journal")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter, err := newFormatter(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	spec, err := loader.LoadFile(path)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	formatter.VerboseLog("Loaded %s: %d column(s), %d source(s), %d join(s)",
		path, len(spec.Columns), len(spec.Sources), len(spec.Joins))

	sql, err := querysql.NewSQLCompiler(opts.CompilerOptions()).Compile(spec)
	if err != nil {
		return outputCompileError(formatter, err)
	}

	specHash, err := canonical.SpecHash(spec)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	result := &CompileResult{
		SQL:      sql,
		SpecHash: specHash,
		SQLHash:  canonical.SQLHash(sql),
		Source:   path,
	}
	formatter.VerboseLog("Spec hash %s", canonical.ShortHash(result.SpecHash))

	// Write to file if --output specified
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(sql+"\n"), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
		result.Output = opts.Output
	}

	if opts.Record {
		if opts.Journal == "" {
			_ = formatter.Error(ErrCodeNoJournal, "--record requires a journal path (--journal, MAPSQL_JOURNAL or journal: in mapsql.yaml)", nil)
			return NewExitError(ExitCommandError, ErrCodeNoJournal+": journal path not configured")
		}
		if err := recordCompilation(cmd.Context(), opts.RootOptions, result); err != nil {
			_ = formatter.Error(ErrCodeJournalFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeJournalFailed, err)
		}
		formatter.VerboseLog("Recorded compilation #%d in %s", result.Seq, opts.Journal)
	}

	return outputCompileSuccess(formatter, result)
}

// recordCompilation appends the result to the journal.
func recordCompilation(ctx context.Context, opts *RootOptions, result *CompileResult) error {
	st, err := store.Open(opts.Journal)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, _, err := st.Record(ctx, store.Compilation{
		SpecHash: result.SpecHash,
		SQLHash:  result.SQLHash,
		Source:   result.Source,
		SQL:      result.SQL,
		Strict:   opts.Strict,
	})
	if err != nil {
		return err
	}
	result.Recorded = true
	result.Seq = rec.Seq
	return nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompileResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Output != "" {
		fmt.Fprintf(formatter.Writer, "✓ Wrote SQL to %s\n", result.Output)
		if result.Recorded {
			fmt.Fprintf(formatter.Writer, "✓ Recorded as #%d (%s)\n", result.Seq, canonical.ShortHash(result.SpecHash))
		}
		return nil
	}

	fmt.Fprintln(formatter.Writer, result.SQL)
	return nil
}

// outputCompileError outputs a load or compilation error.
func outputCompileError(formatter *OutputFormatter, err error) error {
	code, message := errorCode(err)

	if formatter.Format != "json" {
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
	}
	_ = formatter.Error(code, message, nil)

	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, code, err)
}
