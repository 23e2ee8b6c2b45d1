// Package mapping defines the declarative mapping specification that the
// query compiler turns into a single SQL SELECT statement.
//
// A Specification names its source tables by alias, the output columns as
// opaque SQL expressions, the joins that connect the sources, and the row
// filters to apply:
//
//	sources:
//	  - {alias: o,  catalog: c, schema: s, table: orders}
//	  - {alias: c2, catalog: c, schema: s, table: customers}
//	columns:
//	  - {expression_sql: o.id, target_column: order_id}
//	joins:
//	  - {type: inner, on: ["o.cust_id = c2.id"]}
//	filters:
//	  - "o.status = 'OPEN'"
//
// Order is significant throughout. Columns keep their declared order in the
// SELECT list, the first source is always the base table of the FROM clause,
// and joins are attached in declaration order.
//
// Expressions, join conditions and filters are never parsed. The only
// structure read out of them is the set of qualified references
// (alias.column) used to discover which source a join introduces; see
// QualifiedAliases.
//
// Validate performs structural checks without compiling and reports every
// problem it finds as a Diagnostic. Compilation itself does not require a
// clean validation.
package mapping
