package engine

import (
	"context"
	"fmt"
	"strings"

	"sales-engine/internal/resolve"
	"sales-engine/internal/schema"
)

func (e *Engine) productCall(ctx context.Context, c *call, action string, args map[string]any) Response {
	if action == "describe" {
		return describeResponse(e, c, args, schema.EntityProduct)
	}

	db, release, err := e.stores.Product(ctx)
	if err != nil {
		return e.fail(c, err)
	}
	defer release()

	switch action {
	case "create":
		name, okName := argString(args, "name", "product_name")
		price, okPrice := argFloat(args, "price")
		if !okName || !okPrice {
			return e.fail(c, validationf("create product requires name and price"))
		}
		if price < 0 {
			return e.fail(c, validationf("price must be >= 0"))
		}

		var desc any
		if v, ok := argString(args, "description"); ok {
			desc = v
		}
		qty, _ := argInt(args, "quantity", "quantity_on_hand")

		sql := "INSERT INTO products (name, price, description, quantity_on_hand, sales_amount) VALUES (?, ?, ?, ?, 0)"
		if _, err := e.exec(c, db, sql, name, price, desc, qty); err != nil {
			return e.fail(c, err)
		}
		return e.done(c, fmt.Sprintf("✅ Product '%s' created at $%s", name, formatMoney(price)))

	case "read":
		var (
			idFilter string
			idArgs   []any
		)
		if ref, ok := argString(args, "product_id", "name", "product_name"); ok {
			c.enter(StateResolving)
			m, err := resolve.Resolve(ctx, db, resolve.KindProduct, ref, resolve.Options{})
			if err != nil {
				return e.fail(c, err)
			}
			idFilter, idArgs = "p.id = ?", []any{m.ID}
		}
		rows, err := e.runSelect(ctx, db, c, schema.EntityProduct, args, idFilter, idArgs)
		if err != nil {
			return e.fail(c, err)
		}
		return e.done(c, e.formatRows(c, args, rows))

	case "update":
		ref, ok := argString(args, "product_id", "name", "product_name")
		if !ok {
			return e.fail(c, validationf("update product requires product_id or name"))
		}
		c.enter(StateResolving)
		m, err := resolve.Resolve(ctx, db, resolve.KindProduct, ref, resolve.Options{})
		if err != nil {
			return e.fail(c, err)
		}

		var (
			sets  []string
			binds []any
		)
		if v, ok := argFloat(args, "new_price"); ok {
			if v < 0 {
				return e.fail(c, validationf("price must be >= 0"))
			}
			sets, binds = append(sets, "price = ?"), append(binds, v)
		}
		if v, ok := argString(args, "new_description"); ok {
			sets, binds = append(sets, "description = ?"), append(binds, v)
		}
		if v, ok := argInt(args, "new_quantity"); ok {
			sets, binds = append(sets, "quantity_on_hand = ?"), append(binds, v)
		}
		if len(sets) == 0 {
			return e.fail(c, validationf("update product requires new_price, new_description or new_quantity"))
		}
		binds = append(binds, m.ID)

		// the mirror in the operational store stays stale until the next
		// sale touches this product; see the propagation contract
		sql := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := e.exec(c, db, sql, binds...); err != nil {
			return e.fail(c, err)
		}
		return e.done(c, fmt.Sprintf("✅ Product '%s' (id %d) updated", m.Name, m.ID))

	case "delete":
		ref, ok := argString(args, "product_id", "name", "product_name")
		if !ok {
			return e.fail(c, validationf("delete product requires product_id or name"))
		}
		c.enter(StateResolving)
		m, err := resolve.Resolve(ctx, db, resolve.KindProduct, ref, resolve.Options{})
		if err != nil {
			return e.fail(c, err)
		}
		sql := "DELETE FROM products WHERE id = ?"
		if _, err := e.exec(c, db, sql, m.ID); err != nil {
			return e.fail(c, err)
		}
		return e.done(c, fmt.Sprintf("✅ Product '%s' (id %d) deleted", m.Name, m.ID))

	default:
		return e.fail(c, validationf("unknown action %q for %s", action, ToolProduct))
	}
}
