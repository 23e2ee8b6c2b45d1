package querysql

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan2951/mapping-specs/internal/mapping"
)

// columnIndent prefixes every projected column.
const columnIndent = "    "

// Options controls how the compiler resolves the two ambiguous cases a
// specification can contain.
type Options struct {
	// StrictAliases rejects duplicate source aliases with a
	// DuplicateAliasError. When false the last declaration wins.
	StrictAliases bool

	// StrictJoins rejects joins that introduce more than one new alias with
	// an AmbiguousJoinError. When false the leftmost new alias is attached.
	StrictJoins bool
}

// SQLCompiler compiles mapping specifications to a single SELECT statement.
// It holds no state between calls and is safe for concurrent use.
type SQLCompiler struct {
	opts Options
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler(opts Options) *SQLCompiler {
	return &SQLCompiler{opts: opts}
}

// Compile is shorthand for NewSQLCompiler(Options{}).Compile(spec).
func Compile(spec *mapping.Specification) (string, error) {
	return NewSQLCompiler(Options{}).Compile(spec)
}

// Compile converts a specification to SQL.
//
// The statement is assembled in fixed order: SELECT list, FROM and JOIN
// lines, then WHERE when filters are present, terminated with a semicolon.
// On error no partial SQL is returned.
func (c *SQLCompiler) Compile(spec *mapping.Specification) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("cannot compile nil specification")
	}

	sources, err := c.resolveSources(spec.Sources)
	if err != nil {
		return "", err
	}

	fromLines, err := c.linearizeJoins(spec.BaseAlias(), spec.Joins, sources)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT\n")
	b.WriteString(compileProjection(spec.Columns))
	b.WriteString("\n")
	b.WriteString(strings.Join(fromLines, "\n"))
	b.WriteString("\n")
	if where := compileWhere(spec.Filters); where != "" {
		b.WriteString(where)
		b.WriteString("\n")
	}

	slog.Debug("mapping compiled",
		"columns", len(spec.Columns),
		"joins", len(fromLines)-1,
		"filters", len(spec.Filters))

	return strings.TrimSpace(b.String()) + ";", nil
}

// compileProjection renders one "<expr> AS <target>" per line, comma
// separated, in declared order. An empty column list renders nothing.
func compileProjection(columns []mapping.Column) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s%s AS %s", columnIndent, col.ExpressionSQL, col.TargetColumn))
	}
	return strings.Join(parts, ",\n")
}

// compileWhere conjoins the filters, or returns "" when there are none.
func compileWhere(filters []string) string {
	if len(filters) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(filters, " AND ")
}
