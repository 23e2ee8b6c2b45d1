package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan2951/mapping-specs/internal/loader"
	"github.com/jonathan2951/mapping-specs/internal/mapping"
)

// FileValidation holds the diagnostics for one mapping file.
type FileValidation struct {
	Path        string               `json:"path"`
	Valid       bool                 `json:"valid"`
	Diagnostics []mapping.Diagnostic `json:"diagnostics,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool             `json:"valid"`
	Files    []FileValidation `json:"files"`
	Errors   int              `json:"errors"`
	Warnings int              `json:"warnings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <mapping-file|dir>",
		Short: "Validate mappings without compiling",
		Long: `Validate mapping specifications without generating SQL.

Reports every structural problem instead of stopping at the first one.
Duplicate aliases, unknown join types and joins introducing several aliases
are warnings; --strict turns the first and last into errors.

Exit codes:
  0 - All mappings valid (warnings allowed)
  1 - One or more mappings have errors
  2 - Command error (path not found, no mapping files, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter, err := newFormatter(opts, cmd)
	if err != nil {
		return err
	}

	files, err := mappingFiles(path)
	if err != nil {
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, loader.ErrCodeGeneric, err.Error(), nil)
	}
	formatter.VerboseLog("Found %d mapping file(s) in %s", len(files), path)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		fv := validateFile(file, mapping.ValidateOptions{Strict: opts.Strict})
		for _, d := range fv.Diagnostics {
			if d.Severity == mapping.SeverityError {
				result.Errors++
			} else {
				result.Warnings++
			}
		}
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	return outputValidationResult(formatter, result)
}

// mappingFiles resolves a file or directory argument to mapping files.
func mappingFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &loader.LoadError{Code: loader.ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return nil, &loader.LoadError{Code: loader.ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := loader.FindSpecFiles(path)
	if err != nil {
		return nil, &loader.LoadError{Code: loader.ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &loader.LoadError{Code: loader.ErrCodeNoFiles, Message: fmt.Sprintf("no mapping files found in %s", path)}
	}
	return files, nil
}

// validateFile loads one mapping and collects its diagnostics. Load
// failures become a single error diagnostic.
func validateFile(path string, opts mapping.ValidateOptions) FileValidation {
	spec, err := loader.LoadFile(path)
	if err != nil {
		code, message := errorCode(err)
		field := "load"
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			field = fmt.Sprintf("line %d", loadErr.Pos.Line())
		}
		return FileValidation{
			Path:  path,
			Valid: false,
			Diagnostics: []mapping.Diagnostic{{
				Field:    field,
				Message:  message,
				Code:     code,
				Severity: mapping.SeverityError,
			}},
		}
	}

	diags := mapping.Validate(spec, opts)
	return FileValidation{
		Path:        path,
		Valid:       !mapping.HasErrors(diags),
		Diagnostics: diags,
	}
}

// outputValidationResult outputs per-file results and the overall status.
func outputValidationResult(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			first := firstError(result)
			response.Status = "error"
			response.Error = &CLIError{Code: first.Code, Message: first.Message}
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
	} else {
		for _, fv := range result.Files {
			mark := "✓"
			if !fv.Valid {
				mark = "✗"
			}
			fmt.Fprintf(formatter.Writer, "%s %s\n", mark, fv.Path)
			for _, d := range fv.Diagnostics {
				fmt.Fprintf(formatter.Writer, "  %s %s: %s: %s\n", d.Severity, d.Code, d.Field, d.Message)
			}
		}
		fmt.Fprintln(formatter.Writer)
		if result.Valid {
			fmt.Fprintf(formatter.Writer, "✓ All mappings valid (%d warning(s))\n", result.Warnings)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ Validation failed: %d error(s), %d warning(s)\n", result.Errors, result.Warnings)
		}
	}

	if !result.Valid {
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", result.Errors))
	}
	return nil
}

func firstError(result ValidationResult) mapping.Diagnostic {
	for _, fv := range result.Files {
		for _, d := range fv.Diagnostics {
			if d.Severity == mapping.SeverityError {
				return d
			}
		}
	}
	return mapping.Diagnostic{Code: loader.ErrCodeGeneric, Message: "validation failed"}
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Command errors = exit code 2
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
