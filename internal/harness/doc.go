// Package harness runs conformance scenarios against the SQL compiler.
//
// A scenario names a mapping (a file or an inline mapping), the compiler
// mode, and the expected outcome. The harness compiles the mapping and
// compares the result.
//
// # Scenario Format
//
//	name: orders_inner_join
//	description: "Inner join introduced by the right-hand alias"
//	spec: ../mappings/orders.yaml   # relative to the scenario file
//	strict: false
//	expect:
//	  sql: |
//	    SELECT
//	        o.id AS order_id
//	    FROM c.s.orders AS o
//	    ...
//
// Instead of spec a scenario may carry the mapping inline:
//
//	mapping:
//	  columns: [{expression_sql: o.id, target_column: id}]
//	  sources: [{alias: o, catalog: c, schema: s, table: orders}]
//
// # Expectations
//
//   - sql: the compiled SQL must match exactly (surrounding whitespace ignored)
//   - contains: each fragment must appear in the compiled SQL
//   - error: compilation must fail with a message containing this text
//
// sql and contains may be combined; error excludes both.
//
// # Golden Files
//
// RunWithGolden compares compiled SQL with testdata/golden/{name}.golden.
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
