package querysql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/jonathan2951/mapping-specs/internal/mapping"
	"github.com/jonathan2951/mapping-specs/internal/testutil"
)

// Regenerate with: go test ./internal/querysql -run TestGolden -update
func TestGolden(t *testing.T) {
	tests := []struct {
		name string
		spec *mapping.Specification
	}{
		{"orders", testutil.OrdersSpec()},
		{"star", testutil.StarSpec()},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := Compile(tt.spec)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(sql))
		})
	}
}
