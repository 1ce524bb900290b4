// Package etl reshapes result rows into the display encodings the chat
// client offers. Each mode is an independent Row transform; the executor
// applies exactly one per call, but transforms compose.
package etl

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Row = map[string]any

// Transform rewrites a row; returning keep=false drops the row from the
// result set entirely.
type Transform func(Row) (row Row, keep bool)

type Mode string

const (
	ModeNone    Mode = "none"
	ModeDate    Mode = "data_format_conversion"
	ModeDecimal Mode = "decimal_formatting"
	ModeConcat  Mode = "string_concatenation"
	ModeNull    Mode = "null_handling"
)

// ParseMode accepts both the wire names above and the display labels the
// original client shows ("Decimal Value Formatting", "Null Value
// Removal/Handling", ...).
func ParseMode(s string) (Mode, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(key)
	switch {
	case key == "" || key == "none" || strings.HasPrefix(key, "default"):
		return ModeNone, true
	case strings.Contains(key, "decimal"):
		return ModeDecimal, true
	case strings.Contains(key, "concat"):
		return ModeConcat, true
	case strings.Contains(key, "null"):
		return ModeNull, true
	case strings.Contains(key, "format_conversion") || strings.Contains(key, "date"):
		return ModeDate, true
	default:
		return ModeNone, false
	}
}

// ForMode maps a mode onto its transform chain.
func ForMode(m Mode) []Transform {
	switch m {
	case ModeDate:
		return []Transform{DateStrings}
	case ModeDecimal:
		return []Transform{MoneyStrings}
	case ModeConcat:
		return []Transform{ConcatFields}
	case ModeNull:
		return []Transform{DropNullEmail, SubstituteNulls}
	default:
		return nil
	}
}

// Apply runs the transform pipeline over a copy of the rows. Row count may
// shrink: callers must not assume fixed cardinality across modes.
func Apply(rows []Row, transforms ...Transform) []Row {
	out := make([]Row, 0, len(rows))
	for _, src := range rows {
		row := make(Row, len(src))
		for k, v := range src {
			row[k] = v
		}
		keep := true
		for _, t := range transforms {
			if row, keep = t(row); !keep {
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// DateStrings renders date/timestamp values as "YYYY-MM-DD HH:MM:SS".
func DateStrings(row Row) (Row, bool) {
	for k, v := range row {
		switch t := v.(type) {
		case time.Time:
			row[k] = t.Format("2006-01-02 15:04:05")
		case *time.Time:
			if t != nil {
				row[k] = t.Format("2006-01-02 15:04:05")
			}
		case string:
			if parsed, err := time.Parse(time.RFC3339, t); err == nil {
				row[k] = parsed.Format("2006-01-02 15:04:05")
			}
		}
	}
	return row, true
}

func isCurrencyField(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "price") || k == "sales_amount"
}

// MoneyStrings renders every currency-typed field with exactly two decimal
// digits.
func MoneyStrings(row Row) (Row, bool) {
	for k, v := range row {
		if !isCurrencyField(k) {
			continue
		}
		switch n := v.(type) {
		case float64:
			row[k] = decimal.NewFromFloat(n).StringFixed(2)
		case float32:
			row[k] = decimal.NewFromFloat32(n).StringFixed(2)
		case int:
			row[k] = decimal.NewFromInt(int64(n)).StringFixed(2)
		case int64:
			row[k] = decimal.NewFromInt(n).StringFixed(2)
		case string:
			if d, err := decimal.NewFromString(n); err == nil {
				row[k] = d.StringFixed(2)
			}
		}
	}
	return row, true
}

// ConcatFields derives customer_full_name from the name parts and a product
// summary sentence from the product fields; the source name/description
// fields are removed from the output.
func ConcatFields(row Row) (Row, bool) {
	first, hasFirst := stringValue(row["first_name"])
	last, hasLast := stringValue(row["last_name"])
	if hasFirst || hasLast {
		if _, exists := row["customer_full_name"]; !exists {
			row["customer_full_name"] = strings.TrimSpace(first + " " + last)
		}
		delete(row, "first_name")
		delete(row, "last_name")
	}

	name, hasName := stringValue(row["product_name"])
	if hasName {
		desc, hasDesc := stringValue(row["product_description"])
		if !hasDesc || desc == "" {
			desc = "No description"
		}
		summary := fmt.Sprintf("%s (%s)", name, desc)
		if qty, ok := numberValue(row["quantity"]); ok {
			if total, ok := numberValue(row["total_price"]); ok {
				summary = fmt.Sprintf("%s (%s): qty %.0f, total $%s",
					name, desc, qty, decimal.NewFromFloat(total).StringFixed(2))
			}
		}
		row["product_full_description"] = summary
		delete(row, "product_name")
		delete(row, "product_description")
	}
	return row, true
}

// DropNullEmail removes the whole row when its email field is null.
func DropNullEmail(row Row) (Row, bool) {
	for _, key := range []string{"email", "customer_email"} {
		if v, exists := row[key]; exists && isNull(v) {
			return nil, false
		}
	}
	return row, true
}

// SubstituteNulls replaces null descriptions with a literal "N/A".
func SubstituteNulls(row Row) (Row, bool) {
	for _, key := range []string{"description", "product_description"} {
		if v, exists := row[key]; exists && isNull(v) {
			row[key] = "N/A"
		}
	}
	return row, true
}

func isNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *string:
		return t == nil
	case *time.Time:
		return t == nil
	default:
		return false
	}
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case *string:
		if t != nil {
			return *t, true
		}
		return "", true // present but null
	default:
		return "", false
	}
}

func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}
