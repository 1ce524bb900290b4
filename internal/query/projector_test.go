package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-engine/internal/query"
	"sales-engine/internal/schema"
)

func aliases(cols []schema.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Alias
	}
	return out
}

func TestProjectDefaults(t *testing.T) {
	cols := query.Project(schema.EntitySale, "")
	assert.Equal(t, aliases(schema.Defaults(schema.EntitySale)), aliases(cols))

	// garbage spec falls back to the default set
	cols = query.Project(schema.EntitySale, "zzz qqq")
	assert.Equal(t, aliases(schema.Defaults(schema.EntitySale)), aliases(cols))
}

func TestProjectExplicit(t *testing.T) {
	cols := query.Project(schema.EntitySale, "first_name, total_price, sale_date")
	assert.Equal(t, []string{"first_name", "total_price", "sale_date"}, aliases(cols))

	// whitespace-separated form
	cols = query.Project(schema.EntitySale, "quantity unit_price")
	assert.Equal(t, []string{"quantity", "unit_price"}, aliases(cols))
}

func TestProjectFuzzyLookup(t *testing.T) {
	// normalized containment maps loose wording onto registry aliases
	cols := query.Project(schema.EntitySale, "customer full name, product name")
	assert.Equal(t, []string{"customer_full_name", "product_name"}, aliases(cols))

	cols = query.Project(schema.EntityCustomer, "email")
	require.Len(t, cols, 1)
	assert.Equal(t, "email", cols[0].Alias)
}

func TestProjectExclusions(t *testing.T) {
	cols := query.Project(schema.EntitySale, "*, -product_description, -customer_email")
	got := aliases(cols)
	assert.NotContains(t, got, "product_description")
	assert.NotContains(t, got, "customer_email")

	want := []string{}
	for _, c := range schema.Defaults(schema.EntitySale) {
		if c.Alias != "product_description" && c.Alias != "customer_email" {
			want = append(want, c.Alias)
		}
	}
	assert.Equal(t, want, got)
}

func TestProjectExclusionOnProduct(t *testing.T) {
	cols := query.Project(schema.EntityProduct, "*,-description")
	assert.Equal(t, []string{"product_id", "name", "price", "quantity_on_hand", "sales_amount"}, aliases(cols))
}

func TestProjectDeduplicates(t *testing.T) {
	cols := query.Project(schema.EntitySale, "quantity, quantity, total_price")
	assert.Equal(t, []string{"quantity", "total_price"}, aliases(cols))
}
