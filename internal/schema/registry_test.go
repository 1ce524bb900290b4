package schema_test

import (
	"testing"

	"sales-engine/internal/schema"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		entity schema.Entity
		token  string
		alias  string
		ok     bool
	}{
		{schema.EntitySale, "total_price", "total_price", true},
		{schema.EntitySale, "Total Price", "total_price", true},
		{schema.EntitySale, "customer full name", "customer_full_name", true},
		{schema.EntityCustomer, "email", "email", true},
		{schema.EntityProduct, "qty on hand", "", false},
		{schema.EntitySale, "nonsense", "", false},
		{schema.EntitySale, "", "", false},
	}
	for _, c := range cases {
		col, ok := schema.Lookup(c.entity, c.token)
		if ok != c.ok {
			t.Errorf("Lookup(%s, %q) ok = %v, want %v", c.entity, c.token, ok, c.ok)
			continue
		}
		if ok && col.Alias != c.alias {
			t.Errorf("Lookup(%s, %q) = %q, want %q", c.entity, c.token, col.Alias, c.alias)
		}
	}
}

func TestDefaultsAreCopies(t *testing.T) {
	a := schema.Defaults(schema.EntitySale)
	a[0].Alias = "mutated"
	b := schema.Defaults(schema.EntitySale)
	if b[0].Alias == "mutated" {
		t.Fatal("Defaults returned shared backing storage")
	}
}

func TestDescribe(t *testing.T) {
	fields, ok := schema.Describe("SALES")
	if !ok {
		t.Fatal("describe is not case-insensitive")
	}
	if len(fields) != 7 {
		t.Fatalf("sales field count = %d, want 7", len(fields))
	}

	if _, ok := schema.Describe("no_such_table"); ok {
		t.Fatal("unknown table did not fail")
	}

	for _, e := range []schema.Entity{schema.EntityCustomer, schema.EntityProduct, schema.EntitySale, schema.EntityCarePlan} {
		if _, ok := schema.Describe(schema.PrimaryTable(e)); !ok {
			t.Errorf("primary table of %s is not describable", e)
		}
	}
}
