package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualifiedAliases(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{"equi-join", "o.cust_id = c2.id", []string{"o", "c2"}},
		{"self reference", "o.id = o.parent_id", []string{"o"}},
		{"no qualifier", "status = 'OPEN'", nil},
		{"dot inside string literal", "o.note = 'x.y'", []string{"o"}},
		{"escaped quote in literal", "o.note = 'it''s a.b'", []string{"o"}},
		{"numeric literal", "o.rate > 1.5", []string{"o"}},
		{"fully qualified table", "c.s.orders.id = x.id", []string{"c", "x"}},
		{"inside function call", "DATE(o.created_at) = DATE(p.created_at)", []string{"o", "p"}},
		{"wildcard", "COUNT(o.*) > 0", []string{"o"}},
		{"quoted identifier", `"Order".id = c.id`, []string{`"Order"`, "c"}},
		{"trailing dot", "o.", nil},
		{"order of first appearance", "b.x = a.y AND a.z = b.w AND c.v = 1", []string{"b", "a", "c"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualifiedAliases(tt.fragment))
		})
	}
}
