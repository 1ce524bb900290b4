package etl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-engine/internal/etl"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		mode etl.Mode
		ok   bool
	}{
		{"", etl.ModeNone, true},
		{"none", etl.ModeNone, true},
		{"default", etl.ModeNone, true},
		{"decimal_formatting", etl.ModeDecimal, true},
		{"Decimal Value Formatting", etl.ModeDecimal, true},
		{"string_concatenation", etl.ModeConcat, true},
		{"String Concatenation", etl.ModeConcat, true},
		{"null_handling", etl.ModeNull, true},
		{"Null Value Removal/Handling", etl.ModeNull, true},
		{"data_format_conversion", etl.ModeDate, true},
		{"Date Format Conversion", etl.ModeDate, true},
		{"sideways", etl.ModeNone, false},
	}
	for _, c := range cases {
		mode, ok := etl.ParseMode(c.in)
		if mode != c.mode || ok != c.ok {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, %v", c.in, mode, ok, c.mode, c.ok)
		}
	}
}

func TestDateStrings(t *testing.T) {
	when := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	rows := etl.Apply([]etl.Row{
		{"sale_date": when, "created_at": "2024-03-15T09:30:00Z", "quantity": 2},
	}, etl.ForMode(etl.ModeDate)...)

	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-15 09:30:00", rows[0]["sale_date"])
	assert.Equal(t, "2024-03-15 09:30:00", rows[0]["created_at"])
	assert.Equal(t, 2, rows[0]["quantity"])
}

func TestMoneyStrings(t *testing.T) {
	rows := etl.Apply([]etl.Row{
		{"total_price": 19.9, "unit_price": 9.95, "sales_amount": 100.0, "quantity": 3},
	}, etl.ForMode(etl.ModeDecimal)...)

	require.Len(t, rows, 1)
	assert.Equal(t, "19.90", rows[0]["total_price"])
	assert.Equal(t, "9.95", rows[0]["unit_price"])
	assert.Equal(t, "100.00", rows[0]["sales_amount"])
	// quantity is not a currency field
	assert.Equal(t, 3, rows[0]["quantity"])
}

func TestConcatFields(t *testing.T) {
	desc := "Standard widget"
	rows := etl.Apply([]etl.Row{
		{
			"first_name":          "Bob",
			"last_name":           "Lee",
			"product_name":        "Widget",
			"product_description": desc,
			"quantity":            2,
			"total_price":         19.98,
		},
	}, etl.ForMode(etl.ModeConcat)...)

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Bob Lee", row["customer_full_name"])
	assert.Equal(t, "Widget (Standard widget): qty 2, total $19.98", row["product_full_description"])
	assert.NotContains(t, row, "first_name")
	assert.NotContains(t, row, "last_name")
	assert.NotContains(t, row, "product_name")
	assert.NotContains(t, row, "product_description")
	// source numeric fields stay
	assert.Equal(t, 2, row["quantity"])
}

func TestConcatFieldsMissingDescription(t *testing.T) {
	rows := etl.Apply([]etl.Row{
		{"product_name": "Gadget"},
	}, etl.ForMode(etl.ModeConcat)...)

	require.Len(t, rows, 1)
	assert.Equal(t, "Gadget (No description)", rows[0]["product_full_description"])
}

func TestNullHandlingDropsAndSubstitutes(t *testing.T) {
	var nilStr *string
	rows := etl.Apply([]etl.Row{
		{"customer_email": "a@example.com", "product_description": "fine"},
		{"customer_email": nil, "product_description": "dropped anyway"},
		{"customer_email": "b@example.com", "product_description": nil},
		{"customer_email": nilStr, "product_description": "dropped anyway"},
		{"customer_email": "c@example.com", "product_description": nilStr},
	}, etl.ForMode(etl.ModeNull)...)

	// null emails drop whole rows, null descriptions get substituted
	require.Len(t, rows, 3)
	assert.Equal(t, "fine", rows[0]["product_description"])
	assert.Equal(t, "N/A", rows[1]["product_description"])
	assert.Equal(t, "N/A", rows[2]["product_description"])
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	src := []etl.Row{{"total_price": 10.0}}
	_ = etl.Apply(src, etl.ForMode(etl.ModeDecimal)...)
	assert.Equal(t, 10.0, src[0]["total_price"])
}
