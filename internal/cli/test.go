package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan2951/mapping-specs/internal/harness"
	"github.com/jonathan2951/mapping-specs/internal/loader"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern on scenario name)
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []*harness.Result `json:"scenarios"`
	harness.Summary
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenarios against the SQL compiler.

Each scenario names a mapping (by path relative to the scenario file, or
inline) and the expected SQL, SQL fragments or error.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, malformed scenarios, etc.)

Examples:
  mapsql test ./testdata/scenarios
  mapsql test ./testdata/scenarios --filter "orders_*"
  mapsql test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter, err := newFormatter(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return outputTestError(formatter, loader.ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	scenarios, err := harness.LoadScenarios(scenariosDir)
	if err != nil {
		return outputTestError(formatter, loader.ErrCodeLoadFailed, err.Error())
	}

	scenarios, err = filterScenarios(scenarios, opts.Filter)
	if err != nil {
		return outputTestError(formatter, loader.ErrCodeGeneric, fmt.Sprintf("invalid filter pattern: %v", err))
	}
	formatter.VerboseLog("Running %d scenario(s) from %s", len(scenarios), scenariosDir)

	result := TestResult{Scenarios: make([]*harness.Result, 0, len(scenarios))}
	for _, s := range scenarios {
		r, err := harness.Run(s)
		if err != nil {
			r = harness.NewResult(s.Name)
			r.AddError(fmt.Sprintf("execution failed: %v", err))
		}
		result.Scenarios = append(result.Scenarios, r)

		if opts.Format != "json" {
			printScenarioResult(cmd, r)
		}
	}
	result.Summary = harness.Summarize(result.Scenarios)

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

// filterScenarios keeps scenarios whose name matches the glob pattern.
func filterScenarios(scenarios []*harness.Scenario, pattern string) ([]*harness.Scenario, error) {
	if pattern == "" {
		return scenarios, nil
	}
	var out []*harness.Scenario
	for _, s := range scenarios {
		matched, err := filepath.Match(pattern, s.Name)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, s)
		}
	}
	return out, nil
}

func printScenarioResult(cmd *cobra.Command, r *harness.Result) {
	w := cmd.OutOrStdout()
	if r.Pass {
		fmt.Fprintf(w, "✓ %s\n", r.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", r.Name)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}

	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

// outputTestError outputs a command-level error.
func outputTestError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
