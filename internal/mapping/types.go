package mapping

import "strings"

// Specification describes exactly one output query.
type Specification struct {
	Columns []Column `json:"columns" yaml:"columns"`
	Sources []Source `json:"sources" yaml:"sources"`
	Joins   []Join   `json:"joins,omitempty" yaml:"joins,omitempty"`
	Filters []string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// Column maps an SQL expression onto an output column.
type Column struct {
	ExpressionSQL string `json:"expression_sql" yaml:"expression_sql"`
	TargetColumn  string `json:"target_column" yaml:"target_column"`
}

// Source binds a fully-qualified table to an alias.
type Source struct {
	Alias   string `json:"alias" yaml:"alias"`
	Catalog string `json:"catalog" yaml:"catalog"`
	Schema  string `json:"schema" yaml:"schema"`
	Table   string `json:"table" yaml:"table"`
}

// QualifiedName returns catalog.schema.table.
func (s Source) QualifiedName() string {
	return s.Catalog + "." + s.Schema + "." + s.Table
}

// Join declares one join. The source it introduces is not named; it is
// discovered from the aliases referenced in On.
type Join struct {
	Type string   `json:"type" yaml:"type"`
	On   []string `json:"on" yaml:"on"`
}

// JoinType is the upper-cased join keyword.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
)

// KnownJoinTypes lists the join types the validator accepts without warning.
var KnownJoinTypes = []JoinType{JoinInner, JoinLeft, JoinRight, JoinFull}

// NormalizedType upper-cases the declared type. Unknown types pass through
// unchanged apart from case.
func (j Join) NormalizedType() JoinType {
	return JoinType(strings.ToUpper(j.Type))
}

// IsKnown reports whether t is one of KnownJoinTypes.
func (t JoinType) IsKnown() bool {
	for _, k := range KnownJoinTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Condition returns the ON clause text: the conditions joined with AND, in
// declared order.
func (j Join) Condition() string {
	return strings.Join(j.On, " AND ")
}

// ReferencedAliases returns the aliases referenced across all conditions of
// the join, in order of first appearance, without duplicates.
func (j Join) ReferencedAliases() []string {
	var aliases []string
	seen := make(map[string]bool)
	for _, cond := range j.On {
		for _, alias := range QualifiedAliases(cond) {
			if seen[alias] {
				continue
			}
			seen[alias] = true
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// BaseAlias returns the alias of the first source, or "" when there are no
// sources.
func (s *Specification) BaseAlias() string {
	if len(s.Sources) == 0 {
		return ""
	}
	return s.Sources[0].Alias
}
