// Package schema is the static registry mapping logical column aliases to
// physical, store-qualified column expressions per entity. Projection and
// filter building never touch raw user text against column names without
// going through this table.
package schema

import "strings"

type Entity string

const (
	EntityCustomer Entity = "customer"
	EntityProduct  Entity = "product"
	EntitySale     Entity = "sale"
	EntityCarePlan Entity = "care_plan"
)

// Column pairs the logical alias callers use with the physical expression
// placed into SQL text.
type Column struct {
	Alias string
	Expr  string
}

// From clauses per entity. Sale reads join the operational customers table
// and the local product mirror; the authoritative product store is never
// joined cross-engine.
var fromClauses = map[Entity]string{
	EntityCustomer: "customers c",
	EntityProduct:  "products p",
	EntitySale:     "sales s JOIN customers c ON c.id = s.customer_id JOIN products_cache p ON p.id = s.product_id",
	EntityCarePlan: "care_plans cp",
}

// Canonical default projection sets, in documented order.
var defaults = map[Entity][]Column{
	EntityCustomer: {
		{Alias: "customer_id", Expr: "c.id"},
		{Alias: "first_name", Expr: "c.first_name"},
		{Alias: "last_name", Expr: "c.last_name"},
		{Alias: "full_name", Expr: "c.full_name"},
		{Alias: "email", Expr: "c.email"},
		{Alias: "created_at", Expr: "c.created_at"},
	},
	EntityProduct: {
		{Alias: "product_id", Expr: "p.id"},
		{Alias: "name", Expr: "p.name"},
		{Alias: "price", Expr: "p.price"},
		{Alias: "description", Expr: "p.description"},
		{Alias: "quantity_on_hand", Expr: "p.quantity_on_hand"},
		{Alias: "sales_amount", Expr: "p.sales_amount"},
	},
	EntitySale: {
		{Alias: "sale_id", Expr: "s.id"},
		{Alias: "first_name", Expr: "c.first_name"},
		{Alias: "last_name", Expr: "c.last_name"},
		{Alias: "customer_full_name", Expr: "c.full_name"},
		{Alias: "product_name", Expr: "p.name"},
		{Alias: "product_description", Expr: "p.description"},
		{Alias: "quantity", Expr: "s.quantity"},
		{Alias: "unit_price", Expr: "s.unit_price"},
		{Alias: "total_price", Expr: "s.total_price"},
		{Alias: "sale_date", Expr: "s.sale_date"},
		{Alias: "customer_email", Expr: "c.email"},
	},
	EntityCarePlan: {
		{Alias: "care_plan_id", Expr: "cp.id"},
		{Alias: "actual_release_date", Expr: "cp.actual_release_date"},
		{Alias: "name_of_youth", Expr: "cp.name_of_youth"},
		{Alias: "race_ethnicity", Expr: "cp.race_ethnicity"},
		{Alias: "medi_cal_id", Expr: "cp.medi_cal_id"},
		{Alias: "residential_address", Expr: "cp.residential_address"},
		{Alias: "telephone", Expr: "cp.telephone"},
		{Alias: "medi_cal_health_plan", Expr: "cp.medi_cal_health_plan"},
		{Alias: "chronic_conditions", Expr: "cp.chronic_conditions"},
		{Alias: "prescribed_medications", Expr: "cp.prescribed_medications"},
		{Alias: "care_plan_notes", Expr: "cp.care_plan_notes"},
		{Alias: "created_at", Expr: "cp.created_at"},
	},
}

// Filter expressions reachable from natural-language conditions. These are
// a superset of the projection aliases: "price" on a sale resolves to the
// sale line totals, not the mirror price.
var filterExprs = map[Entity]map[string]string{
	EntityCustomer: {
		"customer_name": "c.full_name",
		"total_price":   "", // no sales columns on a plain customer read
	},
	EntityProduct: {
		"total_price":  "p.price",
		"price":        "p.price",
		"quantity":     "p.quantity_on_hand",
		"product_name": "p.name",
	},
	EntitySale: {
		"total_price":   "s.total_price",
		"price":         "s.total_price",
		"quantity":      "s.quantity",
		"customer_name": "c.full_name",
		"product_name":  "p.name",
	},
}

func From(e Entity) string { return fromClauses[e] }

// Defaults returns a copy of the canonical column set for the entity.
func Defaults(e Entity) []Column {
	src := defaults[e]
	out := make([]Column, len(src))
	copy(out, src)
	return out
}

// FilterExpr resolves a logical filter field for the entity. Empty string
// means the field exists in the vocabulary but has no column on this entity.
func FilterExpr(e Entity, field string) (string, bool) {
	m, ok := filterExprs[e]
	if !ok {
		return "", false
	}
	expr, ok := m[field]
	if !ok || expr == "" {
		return "", false
	}
	return expr, true
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// Lookup matches a user-supplied token against the entity's column set:
// exact alias first, then normalized containment in either direction, so
// differently-worded requests can resolve to the same column.
func Lookup(e Entity, token string) (Column, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Column{}, false
	}
	for _, col := range defaults[e] {
		if strings.EqualFold(col.Alias, token) {
			return col, true
		}
	}
	nt := normalize(token)
	if nt == "" {
		return Column{}, false
	}
	for _, col := range defaults[e] {
		na := normalize(col.Alias)
		if strings.Contains(na, nt) || strings.Contains(nt, na) {
			return col, true
		}
	}
	return Column{}, false
}
