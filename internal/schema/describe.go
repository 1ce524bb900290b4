package schema

import "strings"

// FieldDesc is one row of a describe result.
type FieldDesc struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Note string `json:"note,omitempty"`
}

var tableDescriptions = map[string][]FieldDesc{
	"customers": {
		{Name: "id", Type: "INT", Note: "primary key, auto increment"},
		{Name: "first_name", Type: "VARCHAR(100)", Note: "not null"},
		{Name: "last_name", Type: "VARCHAR(100)", Note: "not null"},
		{Name: "full_name", Type: "VARCHAR(201)", Note: "derived: first_name + ' ' + last_name"},
		{Name: "email", Type: "VARCHAR(255)", Note: "nullable"},
		{Name: "created_at", Type: "TIMESTAMP"},
	},
	"products": {
		{Name: "id", Type: "INT", Note: "primary key, auto increment"},
		{Name: "name", Type: "VARCHAR(255)", Note: "not null"},
		{Name: "price", Type: "DECIMAL(10,2)", Note: ">= 0"},
		{Name: "description", Type: "TEXT", Note: "nullable"},
		{Name: "quantity_on_hand", Type: "INT"},
		{Name: "sales_amount", Type: "DECIMAL(12,2)", Note: "running revenue total, maintained by propagation"},
	},
	"products_cache": {
		{Name: "id", Type: "INT", Note: "primary key, copied 1:1 from products.id"},
		{Name: "name", Type: "VARCHAR(255)"},
		{Name: "price", Type: "DECIMAL(10,2)"},
		{Name: "description", Type: "TEXT", Note: "nullable"},
		{Name: "synced_at", Type: "TIMESTAMP", Note: "staleness marker"},
	},
	"sales": {
		{Name: "id", Type: "INT", Note: "primary key, auto increment"},
		{Name: "customer_id", Type: "INT", Note: "references customers.id (no cross-store FK)"},
		{Name: "product_id", Type: "INT", Note: "references products_cache.id (no cross-store FK)"},
		{Name: "quantity", Type: "INT", Note: "> 0"},
		{Name: "unit_price", Type: "DECIMAL(10,2)", Note: "snapshotted from product price at creation"},
		{Name: "total_price", Type: "DECIMAL(12,2)", Note: "quantity * unit_price"},
		{Name: "sale_date", Type: "TIMESTAMP"},
	},
	"call_logs": {
		{Name: "id", Type: "INT", Note: "primary key, auto increment"},
		{Name: "customer_id", Type: "INT"},
		{Name: "subject", Type: "VARCHAR(255)"},
		{Name: "notes", Type: "TEXT"},
		{Name: "called_at", Type: "TIMESTAMP"},
	},
	"care_plans": {
		{Name: "id", Type: "INT", Note: "primary key, auto increment"},
		{Name: "actual_release_date", Type: "DATE", Note: "nullable"},
		{Name: "name_of_youth", Type: "VARCHAR(255)"},
		{Name: "race_ethnicity", Type: "VARCHAR(100)"},
		{Name: "medi_cal_id", Type: "VARCHAR(50)"},
		{Name: "residential_address", Type: "TEXT"},
		{Name: "telephone", Type: "VARCHAR(20)"},
		{Name: "medi_cal_health_plan", Type: "VARCHAR(100)"},
		{Name: "health_screenings", Type: "TEXT"},
		{Name: "health_assessments", Type: "TEXT"},
		{Name: "chronic_conditions", Type: "TEXT"},
		{Name: "prescribed_medications", Type: "TEXT"},
		{Name: "notes", Type: "TEXT"},
		{Name: "care_plan_notes", Type: "TEXT"},
		{Name: "created_at", Type: "TIMESTAMP"},
		{Name: "updated_at", Type: "TIMESTAMP"},
	},
}

// Entity → its primary table, for describe calls without a table_name arg.
var primaryTables = map[Entity]string{
	EntityCustomer: "customers",
	EntityProduct:  "products",
	EntitySale:     "sales",
	EntityCarePlan: "care_plans",
}

func PrimaryTable(e Entity) string { return primaryTables[e] }

// Describe returns the documented schema for a table name,
// case-insensitively. Unknown tables return ok=false.
func Describe(table string) ([]FieldDesc, bool) {
	key := strings.ToLower(strings.TrimSpace(table))
	d, ok := tableDescriptions[key]
	if !ok {
		return nil, false
	}
	out := make([]FieldDesc, len(d))
	copy(out, d)
	return out, true
}
