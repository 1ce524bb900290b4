// Package query builds the projection and predicate parts of a statement
// from natural-language-shaped input. Nothing here executes SQL.
package query

import (
	"strings"

	"sales-engine/internal/schema"
)

// Project turns a user-supplied column spec into the ordered (expr, alias)
// list to select.
//
//   - empty spec: the entity's canonical default set
//   - "*" optionally followed by ",-alias" tokens: default set minus the
//     excluded aliases, order preserved
//   - comma/space separated aliases: each token matched through the registry
//     (exact alias, then normalized containment); unmatched tokens are
//     dropped silently, and if nothing matches the default set is returned
func Project(e schema.Entity, spec string) []schema.Column {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return schema.Defaults(e)
	}

	if strings.HasPrefix(spec, "*") {
		return projectWithExclusions(e, spec)
	}

	var cols []schema.Column
	seen := map[string]bool{}
	for _, token := range splitSpec(spec) {
		col, ok := schema.Lookup(e, token)
		if !ok || seen[col.Alias] {
			continue
		}
		seen[col.Alias] = true
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return schema.Defaults(e)
	}
	return cols
}

func projectWithExclusions(e schema.Entity, spec string) []schema.Column {
	excluded := map[string]bool{}
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if !strings.HasPrefix(token, "-") {
			continue
		}
		if col, ok := schema.Lookup(e, strings.TrimPrefix(token, "-")); ok {
			excluded[col.Alias] = true
		}
	}

	var cols []schema.Column
	for _, col := range schema.Defaults(e) {
		if !excluded[col.Alias] {
			cols = append(cols, col)
		}
	}
	return cols
}

// Comma-separated when commas are present, otherwise whitespace-separated.
// Comma form keeps multi-word tokens ("total price") intact.
func splitSpec(spec string) []string {
	var parts []string
	if strings.Contains(spec, ",") {
		parts = strings.Split(spec, ",")
	} else {
		parts = strings.Fields(spec)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
