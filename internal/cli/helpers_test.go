package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var mappingsDir = filepath.Join("..", "..", "testdata", "mappings")

const ordersSQL = `SELECT
    o.id AS order_id
FROM c.s.orders AS o
INNER JOIN c.s.customers AS c2 ON o.cust_id = c2.id
WHERE o.status = 'OPEN';`

// duplicateAliasYAML declares alias o twice.
const duplicateAliasYAML = `
columns: [{expression_sql: o.id, target_column: id}]
sources:
  - {alias: o, catalog: c, schema: s, table: orders}
  - {alias: o, catalog: c, schema: s, table: orders_v2}
`

// writeMapping writes a mapping file into a temp directory.
func writeMapping(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout and the command error.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
