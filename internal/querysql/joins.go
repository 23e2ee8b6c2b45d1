package querysql

import (
	"fmt"
	"log/slog"

	"github.com/jonathan2951/mapping-specs/internal/mapping"
)

// resolveSources indexes sources by alias. Later declarations overwrite
// earlier ones unless StrictAliases is set.
func (c *SQLCompiler) resolveSources(sources []mapping.Source) (map[string]mapping.Source, error) {
	if len(sources) == 0 {
		return nil, ErrMissingBaseSource
	}

	byAlias := make(map[string]mapping.Source, len(sources))
	firstIndex := make(map[string]int, len(sources))
	for i, src := range sources {
		if first, dup := firstIndex[src.Alias]; dup {
			if c.opts.StrictAliases {
				return nil, &DuplicateAliasError{Alias: src.Alias, First: first, Second: i}
			}
			slog.Debug("duplicate source alias, later declaration wins",
				"alias", src.Alias, "first", first, "second", i)
		} else {
			firstIndex[src.Alias] = i
		}
		byAlias[src.Alias] = src
	}
	return byAlias, nil
}

// linearizeJoins renders the FROM line for the base source followed by one
// JOIN line per join that introduces a new alias, in declaration order.
//
// The alias a join introduces is discovered, not declared: it is the
// leftmost alias referenced in the join's conditions that is not yet
// attached. Joins referencing only attached aliases are redundant and emit
// nothing.
func (c *SQLCompiler) linearizeJoins(baseAlias string, joins []mapping.Join, sources map[string]mapping.Source) ([]string, error) {
	// The base is looked up by alias like every other source, so a later
	// duplicate of the base alias replaces its table too.
	base := sources[baseAlias]
	lines := []string{fmt.Sprintf("FROM %s AS %s", base.QualifiedName(), baseAlias)}
	used := map[string]bool{baseAlias: true}

	for i, join := range joins {
		newAliases := unattached(join.ReferencedAliases(), used)
		if len(newAliases) == 0 {
			slog.Debug("skipping redundant join", "join", i)
			continue
		}
		if len(newAliases) > 1 && c.opts.StrictJoins {
			return nil, &AmbiguousJoinError{Join: i, Aliases: newAliases}
		}

		alias := newAliases[0]
		src, ok := sources[alias]
		if !ok {
			return nil, &UnknownAliasError{Alias: alias, Join: i}
		}

		lines = append(lines, fmt.Sprintf("%s JOIN %s AS %s ON %s",
			join.NormalizedType(), src.QualifiedName(), alias, join.Condition()))
		used[alias] = true
	}

	return lines, nil
}

// unattached returns the aliases not in used, preserving order.
func unattached(aliases []string, used map[string]bool) []string {
	var out []string
	for _, a := range aliases {
		if !used[a] {
			out = append(out, a)
		}
	}
	return out
}
