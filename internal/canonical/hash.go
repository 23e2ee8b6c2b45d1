package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan2951/mapping-specs/internal/mapping"
)

// Domain prefixes for fingerprints. The version suffix allows the encoding
// to change without colliding with old fingerprints.
const (
	DomainSpec = "mapsql/spec/v1"
	DomainSQL  = "mapsql/sql/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash fingerprints a mapping specification. Absent and empty optional
// sections hash the same.
func SpecHash(spec *mapping.Specification) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("SpecHash: nil specification")
	}
	data, err := Marshal(specValue(spec))
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSpec, data), nil
}

// SQLHash fingerprints generated SQL text.
func SQLHash(sql string) string {
	return hashWithDomain(DomainSQL, []byte(norm.NFC.String(sql)))
}

// ShortHash returns the first 12 characters of a fingerprint for display.
func ShortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}

func specValue(spec *mapping.Specification) map[string]any {
	columns := make([]any, len(spec.Columns))
	for i, c := range spec.Columns {
		columns[i] = map[string]any{
			"expression_sql": c.ExpressionSQL,
			"target_column":  c.TargetColumn,
		}
	}
	sources := make([]any, len(spec.Sources))
	for i, s := range spec.Sources {
		sources[i] = map[string]any{
			"alias":   s.Alias,
			"catalog": s.Catalog,
			"schema":  s.Schema,
			"table":   s.Table,
		}
	}
	joins := make([]any, len(spec.Joins))
	for i, j := range spec.Joins {
		on := j.On
		if on == nil {
			on = []string{}
		}
		joins[i] = map[string]any{
			"type": j.Type,
			"on":   on,
		}
	}
	filters := spec.Filters
	if filters == nil {
		filters = []string{}
	}
	return map[string]any{
		"columns": columns,
		"sources": sources,
		"joins":   joins,
		"filters": filters,
	}
}
