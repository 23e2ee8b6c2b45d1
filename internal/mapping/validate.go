package mapping

import (
	"fmt"
	"strings"
)

// Validation diagnostic codes (E200-E299)
const (
	ErrNoColumns         = "E201" // columns is empty (warning: compiles to an empty SELECT list)
	ErrEmptyColumn       = "E202" // expression_sql or target_column is empty
	ErrNoSources         = "E203" // no base table
	ErrIncompleteSource  = "E204" // alias, catalog, schema or table is empty
	ErrDuplicateAlias    = "E205" // alias declared more than once
	ErrEmptyJoin         = "E206" // join has no conditions
	ErrUnknownJoinType   = "E207" // join type outside inner/left/right/full
	ErrEmptyFilter       = "E208" // filter fragment is empty
	ErrAmbiguousJoin     = "E209" // join introduces more than one new alias
	ErrUnresolvableAlias = "E210" // join introduces an alias with no source
)

// Severity of a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Field, d.Message)
}

// ValidateOptions tunes Validate.
type ValidateOptions struct {
	// Strict promotes duplicate aliases and ambiguous joins from warnings
	// to errors, matching the compiler's strict mode.
	Strict bool
}

// Validate checks the specification's structure and returns every problem
// found. It does not fail fast.
func Validate(spec *Specification, opts ValidateOptions) []Diagnostic {
	v := &validator{opts: opts}
	if spec == nil {
		v.add(SeverityError, "spec", ErrNoSources, "specification is nil")
		return v.diags
	}
	v.validateColumns(spec.Columns)
	v.validateSources(spec.Sources)
	v.validateJoins(spec)
	v.validateFilters(spec.Filters)
	return v.diags
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

type validator struct {
	opts  ValidateOptions
	diags []Diagnostic
}

func (v *validator) add(sev Severity, field, code, format string, args ...any) {
	v.diags = append(v.diags, Diagnostic{
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Code:     code,
		Severity: sev,
	})
}

func (v *validator) strictSeverity() Severity {
	if v.opts.Strict {
		return SeverityError
	}
	return SeverityWarning
}

func (v *validator) validateColumns(cols []Column) {
	if len(cols) == 0 {
		v.add(SeverityWarning, "columns", ErrNoColumns, "no columns declared; SELECT list will be empty")
		return
	}
	for i, col := range cols {
		if strings.TrimSpace(col.ExpressionSQL) == "" {
			v.add(SeverityError, fmt.Sprintf("columns[%d].expression_sql", i), ErrEmptyColumn, "expression_sql is required")
		}
		if strings.TrimSpace(col.TargetColumn) == "" {
			v.add(SeverityError, fmt.Sprintf("columns[%d].target_column", i), ErrEmptyColumn, "target_column is required")
		}
	}
}

func (v *validator) validateSources(sources []Source) {
	if len(sources) == 0 {
		v.add(SeverityError, "sources", ErrNoSources, "at least one source is required; the first source is the base table")
		return
	}

	firstSeen := make(map[string]int)
	for i, src := range sources {
		for _, f := range []struct{ name, value string }{
			{"alias", src.Alias},
			{"catalog", src.Catalog},
			{"schema", src.Schema},
			{"table", src.Table},
		} {
			if strings.TrimSpace(f.value) == "" {
				v.add(SeverityError, fmt.Sprintf("sources[%d].%s", i, f.name), ErrIncompleteSource, "%s is required", f.name)
			}
		}

		if src.Alias == "" {
			continue
		}
		if first, ok := firstSeen[src.Alias]; ok {
			v.add(v.strictSeverity(), fmt.Sprintf("sources[%d].alias", i), ErrDuplicateAlias,
				"alias %q already declared by sources[%d]; the later declaration wins", src.Alias, first)
			continue
		}
		firstSeen[src.Alias] = i
	}
}

// validateJoins replays alias discovery so that unresolvable and ambiguous
// joins are reported without compiling.
func (v *validator) validateJoins(spec *Specification) {
	declared := make(map[string]bool, len(spec.Sources))
	for _, src := range spec.Sources {
		declared[src.Alias] = true
	}
	used := map[string]bool{}
	if base := spec.BaseAlias(); base != "" {
		used[base] = true
	}

	for i, join := range spec.Joins {
		field := fmt.Sprintf("joins[%d]", i)
		if !join.NormalizedType().IsKnown() {
			v.add(SeverityWarning, field+".type", ErrUnknownJoinType,
				"join type %q is not one of inner, left, right, full; it is passed through as-is", join.Type)
		}
		if len(join.On) == 0 {
			v.add(SeverityError, field+".on", ErrEmptyJoin, "join has no conditions")
			continue
		}
		for j, cond := range join.On {
			if strings.TrimSpace(cond) == "" {
				v.add(SeverityError, fmt.Sprintf("%s.on[%d]", field, j), ErrEmptyJoin, "join condition is empty")
			}
		}

		var fresh []string
		for _, alias := range join.ReferencedAliases() {
			if !used[alias] {
				fresh = append(fresh, alias)
			}
		}
		if len(fresh) == 0 {
			continue
		}
		if len(fresh) > 1 {
			v.add(v.strictSeverity(), field+".on", ErrAmbiguousJoin,
				"join introduces %d new aliases %v; %q is attached", len(fresh), fresh, fresh[0])
		}
		if !declared[fresh[0]] {
			v.add(SeverityError, field+".on", ErrUnresolvableAlias, "alias %q not found in sources", fresh[0])
		}
		used[fresh[0]] = true
	}
}

func (v *validator) validateFilters(filters []string) {
	for i, f := range filters {
		if strings.TrimSpace(f) == "" {
			v.add(SeverityError, fmt.Sprintf("filters[%d]", i), ErrEmptyFilter, "filter is empty")
		}
	}
}
