package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan2951/mapping-specs/internal/config"
	"github.com/jonathan2951/mapping-specs/internal/querysql"
)

// RootOptions holds global flags for all commands. After flag parsing the
// root command overwrites them with the resolved configuration.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"
	Strict     bool
	Journal    string // SQLite journal path, empty disables recording
	Record     bool   // record successful compilations in the journal
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// CompilerOptions returns the SQL compiler options selected by --strict.
func (o *RootOptions) CompilerOptions() querysql.Options {
	return querysql.Options{StrictAliases: o.Strict, StrictJoins: o.Strict}
}

// NewRootCommand creates the root command for the mapsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mapsql",
		Short: "mapsql - mapping specifications to SQL",
		Long: `Compile declarative column mapping specifications into SQL SELECT statements.

A mapping names source tables by alias, the joins between them, projected
columns and filters. Mappings may be written in YAML, JSON or CUE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: loading configuration: %v\n", err)
				return WrapExitError(ExitCommandError, "loading configuration", err)
			}
			opts.apply(cfg)

			setupLogging(cmd, opts.Verbose)
			if cfg.FileUsed != "" {
				slog.Debug("configuration loaded", "file", cfg.FileUsed)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: mapsql.yaml searched upward)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.FormatText, "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "reject duplicate aliases and joins introducing several aliases")
	cmd.PersistentFlags().StringVar(&opts.Journal, "journal", "", "path to the SQLite compilation journal")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// apply copies the resolved configuration into the options.
func (o *RootOptions) apply(cfg *config.Config) {
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose
	o.Strict = cfg.Strict
	o.Journal = cfg.Journal
	o.Record = cfg.Record
}

// setupLogging configures the default logger on the command's stderr.
func setupLogging(cmd *cobra.Command, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newFormatter builds the output formatter for a command.
func newFormatter(opts *RootOptions, cmd *cobra.Command) (*OutputFormatter, error) {
	if !isValidFormat(opts.Format) {
		msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", msg)
		return nil, NewExitError(ExitCommandError, msg)
	}
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}, nil
}
