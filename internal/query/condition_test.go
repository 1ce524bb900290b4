package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-engine/internal/query"
	"sales-engine/internal/schema"
)

func TestTranslateTextSale(t *testing.T) {
	cases := []struct {
		name string
		text string
		sql  string
		args []any
		ok   bool
	}{
		{
			name: "price exceeds",
			text: "total price exceeds 50",
			sql:  "s.total_price > ?",
			args: []any{int64(50)},
			ok:   true,
		},
		{
			name: "price with dollar sign",
			text: "price is above $100",
			sql:  "s.total_price > ?",
			args: []any{int64(100)},
			ok:   true,
		},
		{
			name: "price decimal",
			text: "total price less than 19.98",
			sql:  "s.total_price < ?",
			args: []any{19.98},
			ok:   true,
		},
		{
			name: "quantity equals symbol",
			text: "quantity = 3",
			sql:  "s.quantity = ?",
			args: []any{int64(3)},
			ok:   true,
		},
		{
			name: "quantity greater than",
			text: "quantity greater than 2",
			sql:  "s.quantity > ?",
			args: []any{int64(2)},
			ok:   true,
		},
		{
			name: "customer like quoted",
			text: "customer like 'Bob'",
			sql:  "c.full_name LIKE ?",
			args: []any{"%Bob%"},
			ok:   true,
		},
		{
			name: "customer name like bare",
			text: "customer name like Bob",
			sql:  "c.full_name LIKE ?",
			args: []any{"%Bob%"},
			ok:   true,
		},
		{
			name: "customer equality",
			text: "customer is 'Bob Lee'",
			sql:  "c.full_name = ?",
			args: []any{"Bob Lee"},
			ok:   true,
		},
		{
			name: "product like quoted",
			text: "product like 'Widget'",
			sql:  "p.name LIKE ?",
			args: []any{"%Widget%"},
			ok:   true,
		},
		{
			name: "combined categories joined with AND",
			text: "total price exceeds 50 and customer like 'Bob'",
			sql:  "s.total_price > ? AND c.full_name LIKE ?",
			args: []any{int64(50), "%Bob%"},
			ok:   true,
		},
		{
			name: "bare number falls back to total price",
			text: "over 100",
			sql:  "s.total_price > ?",
			args: []any{int64(100)},
			ok:   true,
		},
		{
			name: "bare number with less word",
			text: "under 20",
			sql:  "s.total_price < ?",
			args: []any{int64(20)},
			ok:   true,
		},
		{
			name: "unrecognized text drops the filter",
			text: "asdf random text",
			ok:   false,
		},
		{
			name: "empty",
			text: "   ",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond, ok := query.TranslateText(schema.EntitySale, tc.text)
			require.Equal(t, tc.ok, ok)
			if !tc.ok {
				return
			}
			assert.Equal(t, tc.sql, cond.SQL)
			assert.Equal(t, tc.args, cond.Args)
		})
	}
}

func TestTranslateTextEntityScoping(t *testing.T) {
	// a price filter on a plain customer read has no column to bind to and
	// must not fall through to the numeric heuristic
	_, ok := query.TranslateText(schema.EntityCustomer, "total price exceeds 50")
	assert.False(t, ok)

	// on the product entity price means catalog price
	cond, ok := query.TranslateText(schema.EntityProduct, "price is below 10")
	require.True(t, ok)
	assert.Equal(t, "p.price < ?", cond.SQL)
}

func TestTranslateMap(t *testing.T) {
	cond, ok := query.TranslateMap(schema.EntitySale, map[string]any{
		"product_name": "Widget",
		"quantity":     2,
	})
	require.True(t, ok)
	// keys are sorted, so product_name comes first
	assert.Equal(t, "p.name LIKE ? AND s.quantity = ?", cond.SQL)
	assert.Equal(t, []any{"%Widget%", 2}, cond.Args)

	_, ok = query.TranslateMap(schema.EntitySale, map[string]any{"no_such_field": 1})
	assert.False(t, ok)

	_, ok = query.TranslateMap(schema.EntitySale, nil)
	assert.False(t, ok)
}
