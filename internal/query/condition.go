package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sales-engine/internal/schema"
)

// Condition is a parameterized SQL predicate fragment.
type Condition struct {
	SQL  string
	Args []any
}

const (
	cmpWords = `(exceeds?|above|greater\s+than|more\s+than|below|less\s+than|under|equals?|>=|<=|=|>|<|is)`
	numWord  = `\$?\s*(\d+(?:\.\d+)?)`
)

// The recognized filter shapes, as an explicit ordered cascade. Within a
// category the first matching pattern wins; matched categories are joined
// with AND. Anything unrecognized fails open to no condition: callers drop
// the filter rather than erroring.
type textMatcher struct {
	category string
	field    string
	re       *regexp.Regexp
	build    func(expr string, m []string) (string, []any)
}

func numericBuilder(expr string, m []string) (string, []any) {
	op := cmpToOp(m[1])
	return expr + " " + op + " ?", []any{parseNumber(m[2])}
}

func likeBuilder(expr string, m []string) (string, []any) {
	return expr + " LIKE ?", []any{"%" + strings.TrimSpace(m[1]) + "%"}
}

func eqBuilder(expr string, m []string) (string, []any) {
	return expr + " = ?", []any{strings.TrimSpace(m[1])}
}

var textMatchers = []textMatcher{
	{
		category: "price",
		field:    "total_price",
		re:       regexp.MustCompile(`(?i)\b(?:total\s+)?price\b\s*(?:is|was)?\s*` + cmpWords + `\s*` + numWord),
		build:    numericBuilder,
	},
	{
		category: "quantity",
		field:    "quantity",
		re:       regexp.MustCompile(`(?i)\bquantity\b\s*(?:is|was)?\s*` + cmpWords + `\s*` + numWord),
		build:    numericBuilder,
	},
	{
		category: "customer",
		field:    "customer_name",
		re:       regexp.MustCompile(`(?i)\bcustomer(?:\s+name)?\s+(?:is\s+)?like\s+'([^']+)'`),
		build:    likeBuilder,
	},
	{
		category: "customer",
		field:    "customer_name",
		re:       regexp.MustCompile(`(?i)\bcustomer(?:\s+name)?\s+(?:is\s+)?like\s+([\w.@-]+)`),
		build:    likeBuilder,
	},
	{
		category: "customer",
		field:    "customer_name",
		re:       regexp.MustCompile(`(?i)\bcustomer(?:\s+name)?\s*(?:=|\bis\b)\s*'([^']+)'`),
		build:    eqBuilder,
	},
	{
		category: "product",
		field:    "product_name",
		re:       regexp.MustCompile(`(?i)\bproduct(?:\s+name)?\s+(?:is\s+)?like\s+'([^']+)'`),
		build:    likeBuilder,
	},
	{
		category: "product",
		field:    "product_name",
		re:       regexp.MustCompile(`(?i)\bproduct(?:\s+name)?\s+(?:is\s+)?like\s+([\w.@-]+)`),
		build:    likeBuilder,
	},
	{
		category: "product",
		field:    "product_name",
		re:       regexp.MustCompile(`(?i)\bproduct(?:\s+name)?\s*(?:=|\bis\b)\s*'([^']+)'`),
		build:    eqBuilder,
	},
}

var (
	bareNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
	lessWordsRe  = regexp.MustCompile(`(?i)\b(below|less|under)\b`)
	moreWordsRe  = regexp.MustCompile(`(?i)\b(exceed|exceeds|above|greater|more)\b`)
	equalWordsRe = regexp.MustCompile(`(?i)\b(equal|equals)\b`)
)

// TranslateText converts a raw natural-language filter into a parameterized
// predicate. ok=false means the filter is dropped (fail open), not an error.
func TranslateText(e schema.Entity, text string) (Condition, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Condition{}, false
	}

	var (
		parts   []string
		args    []any
		matched = map[string]bool{}
	)
	for _, m := range textMatchers {
		if matched[m.category] {
			continue
		}
		groups := m.re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		expr, ok := schema.FilterExpr(e, m.field)
		if !ok {
			// field has no column on this entity; the category still counts
			// as consumed so the fallback does not reinterpret it
			matched[m.category] = true
			continue
		}
		sql, a := m.build(expr, groups)
		parts = append(parts, sql)
		args = append(args, a...)
		matched[m.category] = true
	}

	if len(parts) == 0 {
		return fallbackNumeric(e, text, matched)
	}
	return Condition{SQL: strings.Join(parts, " AND "), Args: args}, true
}

// Best-effort heuristic for text that matched no category but carries a bare
// number: assume a total-price comparison with the closest comparator word,
// defaulting to >.
func fallbackNumeric(e schema.Entity, text string, matched map[string]bool) (Condition, bool) {
	if len(matched) > 0 {
		return Condition{}, false
	}
	num := bareNumberRe.FindString(text)
	if num == "" {
		return Condition{}, false
	}
	expr, ok := schema.FilterExpr(e, "total_price")
	if !ok {
		return Condition{}, false
	}

	op := ">"
	switch {
	case lessWordsRe.MatchString(text):
		op = "<"
	case moreWordsRe.MatchString(text):
		op = ">"
	case equalWordsRe.MatchString(text):
		op = "="
	}
	return Condition{SQL: expr + " " + op + " ?", Args: []any{parseNumber(num)}}, true
}

// TranslateMap converts a structured field→value filter with no
// natural-language inference: string values become LIKE, everything else =.
// Fields that do not resolve through the registry are dropped. Keys are
// processed in sorted order so the generated SQL is deterministic.
func TranslateMap(e schema.Entity, filters map[string]any) (Condition, bool) {
	if len(filters) == 0 {
		return Condition{}, false
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		parts []string
		args  []any
	)
	for _, k := range keys {
		col, ok := schema.Lookup(e, k)
		if !ok {
			continue
		}
		switch v := filters[k].(type) {
		case string:
			parts = append(parts, col.Expr+" LIKE ?")
			args = append(args, "%"+v+"%")
		default:
			parts = append(parts, col.Expr+" = ?")
			args = append(args, v)
		}
	}
	if len(parts) == 0 {
		return Condition{}, false
	}
	return Condition{SQL: strings.Join(parts, " AND "), Args: args}, true
}

func cmpToOp(word string) string {
	w := strings.Join(strings.Fields(strings.ToLower(word)), " ")
	switch w {
	case "exceed", "exceeds", "above", "greater than", "more than", ">":
		return ">"
	case "below", "less than", "under", "<":
		return "<"
	case ">=", "<=":
		return w
	default: // equal, equals, is, =
		return "="
	}
}

func parseNumber(s string) any {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return f
}
