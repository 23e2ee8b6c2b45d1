// Package testutil provides shared fixtures for tests.
package testutil

import "github.com/jonathan2951/mapping-specs/internal/mapping"

// OrdersSpec returns the two-source orders/customers specification with one
// inner join and one filter.
//
// It compiles to:
//
//	SELECT
//	    o.id AS order_id
//	FROM c.s.orders AS o
//	INNER JOIN c.s.customers AS c2 ON o.cust_id = c2.id
//	WHERE o.status = 'OPEN';
func OrdersSpec() *mapping.Specification {
	return &mapping.Specification{
		Columns: []mapping.Column{
			{ExpressionSQL: "o.id", TargetColumn: "order_id"},
		},
		Sources: []mapping.Source{
			Source("o", "orders"),
			Source("c2", "customers"),
		},
		Joins: []mapping.Join{
			{Type: "inner", On: []string{"o.cust_id = c2.id"}},
		},
		Filters: []string{"o.status = 'OPEN'"},
	}
}

// StarSpec returns a four-source star schema: a sales fact joined to three
// dimensions with mixed join types and multi-condition joins.
func StarSpec() *mapping.Specification {
	return &mapping.Specification{
		Columns: []mapping.Column{
			{ExpressionSQL: "f.sale_id", TargetColumn: "sale_id"},
			{ExpressionSQL: "d.calendar_date", TargetColumn: "sale_date"},
			{ExpressionSQL: "COALESCE(p.name, 'unknown')", TargetColumn: "product_name"},
			{ExpressionSQL: "f.amount * f.quantity", TargetColumn: "revenue"},
		},
		Sources: []mapping.Source{
			Source("f", "fact_sales"),
			Source("d", "dim_date"),
			Source("p", "dim_product"),
			Source("st", "dim_store"),
		},
		Joins: []mapping.Join{
			{Type: "inner", On: []string{"f.date_key = d.date_key"}},
			{Type: "left", On: []string{"f.product_key = p.product_key", "p.is_current = TRUE"}},
			{Type: "Full", On: []string{"f.store_key = st.store_key"}},
		},
		Filters: []string{"d.year = 2024", "f.amount > 0"},
	}
}

// Source returns a source in catalog "c", schema "s".
func Source(alias, table string) mapping.Source {
	return mapping.Source{Alias: alias, Catalog: "c", Schema: "s", Table: table}
}
