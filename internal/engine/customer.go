package engine

import (
	"context"
	"fmt"
	"strings"

	"sales-engine/internal/models"
	"sales-engine/internal/resolve"
	"sales-engine/internal/schema"
)

func (e *Engine) customerCall(ctx context.Context, c *call, action string, args map[string]any) Response {
	if action == "describe" {
		return describeResponse(e, c, args, schema.EntityCustomer)
	}

	db, release, err := e.stores.Operational(ctx)
	if err != nil {
		return e.fail(c, err)
	}
	defer release()

	switch action {
	case "create":
		first, okFirst := argString(args, "first_name")
		last, okLast := argString(args, "last_name")
		if !okFirst && !okLast {
			if name, ok := argString(args, "name", "customer_name"); ok {
				first, last = resolve.SplitName(name)
				okFirst = first != ""
			}
		}
		if !okFirst {
			return e.fail(c, validationf("create customer requires first_name and last_name (or name)"))
		}
		full := strings.TrimSpace(first + " " + last)

		var email any
		if v, ok := argString(args, "email"); ok {
			email = v
		}

		sql := "INSERT INTO customers (first_name, last_name, full_name, email, created_at) VALUES (?, ?, ?, ?, ?)"
		if _, err := e.exec(c, db, sql, first, last, full, email, e.now()); err != nil {
			return e.fail(c, err)
		}
		return e.done(c, fmt.Sprintf("✅ Customer '%s' created", full))

	case "read":
		var (
			idFilter string
			idArgs   []any
		)
		if ref, ok := argString(args, "customer_id", "name", "customer_name"); ok {
			c.enter(StateResolving)
			m, err := resolve.Resolve(ctx, db, resolve.KindCustomer, ref, resolve.Options{})
			if err != nil {
				return e.fail(c, err)
			}
			idFilter, idArgs = "c.id = ?", []any{m.ID}
		}
		rows, err := e.runSelect(ctx, db, c, schema.EntityCustomer, args, idFilter, idArgs)
		if err != nil {
			return e.fail(c, err)
		}
		return e.done(c, e.formatRows(c, args, rows))

	case "update":
		ref, ok := argString(args, "customer_id", "name", "customer_name")
		if !ok {
			return e.fail(c, validationf("update customer requires customer_id or name"))
		}
		c.enter(StateResolving)
		m, err := resolve.Resolve(ctx, db, resolve.KindCustomer, ref, resolve.Options{})
		if err != nil {
			return e.fail(c, err)
		}

		newFirst, hasFirst := argString(args, "new_first_name")
		newLast, hasLast := argString(args, "new_last_name")
		newEmail, hasEmail := argString(args, "new_email")
		if !hasFirst && !hasLast && !hasEmail {
			return e.fail(c, validationf("update customer requires new_email, new_first_name or new_last_name"))
		}

		var (
			sets  []string
			binds []any
		)
		if hasFirst || hasLast {
			var row models.Customer
			if err := db.First(&row, "id = ?", m.ID).Error; err != nil {
				return e.fail(c, &StatementError{Err: err})
			}
			first, last := row.FirstName, row.LastName
			if hasFirst {
				first = newFirst
				sets, binds = append(sets, "first_name = ?"), append(binds, newFirst)
			}
			if hasLast {
				last = newLast
				sets, binds = append(sets, "last_name = ?"), append(binds, newLast)
			}
			// full_name stays re-derivable from the two parts
			sets = append(sets, "full_name = ?")
			binds = append(binds, strings.TrimSpace(first+" "+last))
		}
		if hasEmail {
			sets, binds = append(sets, "email = ?"), append(binds, newEmail)
		}
		binds = append(binds, m.ID)

		sql := "UPDATE customers SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := e.exec(c, db, sql, binds...); err != nil {
			return e.fail(c, err)
		}
		return e.done(c, fmt.Sprintf("✅ Customer '%s' (id %d) updated", m.Name, m.ID))

	case "delete":
		ref, ok := argString(args, "customer_id", "name", "customer_name")
		if !ok {
			return e.fail(c, validationf("delete customer requires customer_id or name"))
		}
		c.enter(StateResolving)
		m, err := resolve.Resolve(ctx, db, resolve.KindCustomer, ref, resolve.Options{})
		if err != nil {
			return e.fail(c, err)
		}
		// sales referencing the customer are left as-is: no cascade, no
		// cross-store FK to stop the operator
		sql := "DELETE FROM customers WHERE id = ?"
		if _, err := e.exec(c, db, sql, m.ID); err != nil {
			return e.fail(c, err)
		}
		return e.done(c, fmt.Sprintf("✅ Customer '%s' (id %d) deleted", m.Name, m.ID))

	default:
		return e.fail(c, validationf("unknown action %q for %s", action, ToolCustomer))
	}
}
