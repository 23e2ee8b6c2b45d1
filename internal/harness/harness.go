package harness

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan2951/mapping-specs/internal/canonical"
	"github.com/jonathan2951/mapping-specs/internal/loader"
	"github.com/jonathan2951/mapping-specs/internal/mapping"
	"github.com/jonathan2951/mapping-specs/internal/querysql"
)

// Run executes a scenario and returns the result.
//
// An error is returned only when the scenario's mapping cannot be loaded.
// Compilation failures are compared against expect.error and reported
// through the result.
func Run(scenario *Scenario) (*Result, error) {
	spec, err := scenarioSource(scenario).Load()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(scenario.Name)
	if h, err := canonical.SpecHash(spec); err == nil {
		result.SpecHash = h
	}

	compiler := querysql.NewSQLCompiler(querysql.Options{
		StrictAliases: scenario.Strict,
		StrictJoins:   scenario.Strict,
	})
	sql, compileErr := compiler.Compile(spec)
	if compileErr != nil {
		result.CompileError = compileErr.Error()
	} else {
		result.SQL = sql
	}

	checkExpect(scenario.Expect, sql, compileErr, result)

	slog.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass)
	return result, nil
}

// RunAll executes scenarios in order. It stops at the first scenario whose
// mapping cannot be loaded.
func RunAll(scenarios []*Scenario) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, s := range scenarios {
		r, err := Run(s)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func scenarioSource(s *Scenario) loader.Source {
	if s.Mapping != nil {
		return loader.Static{Spec: cloneSpec(s.Mapping)}
	}
	return loader.File(s.Spec)
}

// cloneSpec copies the inline mapping so repeated runs see the same input.
func cloneSpec(in *mapping.Specification) *mapping.Specification {
	out := &mapping.Specification{
		Columns: append([]mapping.Column(nil), in.Columns...),
		Sources: append([]mapping.Source(nil), in.Sources...),
		Filters: append([]string(nil), in.Filters...),
	}
	for _, j := range in.Joins {
		out.Joins = append(out.Joins, mapping.Join{Type: j.Type, On: append([]string(nil), j.On...)})
	}
	return out
}

func checkExpect(e Expect, sql string, compileErr error, result *Result) {
	if e.Error != "" {
		switch {
		case compileErr == nil:
			result.AddError(fmt.Sprintf("expected error containing %q, compilation succeeded", e.Error))
		case !strings.Contains(compileErr.Error(), e.Error):
			result.AddError(fmt.Sprintf("expected error containing %q, got %q", e.Error, compileErr.Error()))
		}
		return
	}

	if compileErr != nil {
		result.AddError(fmt.Sprintf("unexpected compile error: %v", compileErr))
		return
	}

	if e.SQL != "" {
		want := strings.TrimSpace(e.SQL)
		if sql != want {
			result.AddError(fmt.Sprintf("sql mismatch:\n--- want\n%s\n--- got\n%s", want, sql))
		}
	}
	for _, frag := range e.Contains {
		if !strings.Contains(sql, frag) {
			result.AddError(fmt.Sprintf("sql does not contain %q", frag))
		}
	}
}
