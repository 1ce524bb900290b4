package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sales-engine/internal/models"
	"sales-engine/internal/resolve"
	"sales-engine/internal/schema"
)

func (e *Engine) salesCall(ctx context.Context, c *call, action string, args map[string]any) Response {
	if action == "describe" {
		return describeResponse(e, c, args, schema.EntitySale)
	}

	operational, releaseOp, err := e.stores.Operational(ctx)
	if err != nil {
		return e.fail(c, err)
	}
	defer releaseOp()

	switch action {
	case "create":
		return e.createSale(ctx, c, operational, args)

	case "read":
		rows, err := e.runSelect(ctx, operational, c, schema.EntitySale, args, "", nil)
		if err != nil {
			return e.fail(c, err)
		}
		return e.done(c, e.formatRows(c, args, rows))

	case "update":
		return e.updateSale(ctx, c, operational, args)

	case "delete":
		ref, ok := argString(args, "sale_id")
		if !ok {
			return e.fail(c, validationf("delete sale requires sale_id"))
		}
		// deletion does not reverse propagation: product totals keep the
		// revenue of the removed sale
		sql := "DELETE FROM sales WHERE id = ?"
		affected, err := e.exec(c, operational, sql, ref)
		if err != nil {
			return e.fail(c, err)
		}
		if affected == 0 {
			return e.fail(c, resolve.ErrNotFound)
		}
		return e.done(c, fmt.Sprintf("✅ Sale %s deleted", ref))

	default:
		return e.fail(c, validationf("unknown action %q for %s", action, ToolSales))
	}
}

func (e *Engine) createSale(ctx context.Context, c *call, operational *gorm.DB, args map[string]any) Response {
	qty, ok := argInt(args, "quantity")
	if !ok {
		return e.fail(c, validationf("create sale requires customer, product and quantity"))
	}
	if qty <= 0 {
		return e.fail(c, validationf("quantity must be > 0"))
	}
	custRef, okCust := argString(args, "customer_id", "customer_name", "customer")
	prodRef, okProd := argString(args, "product_id", "product_name", "product")
	if !okCust || !okProd {
		return e.fail(c, validationf("create sale requires customer, product and quantity"))
	}

	product, releaseProd, err := e.stores.Product(ctx)
	if err != nil {
		return e.fail(c, err)
	}
	defer releaseProd()

	unitPrice, hasUnitPrice := argFloat(args, "unit_price", "price")

	// name arguments auto-create missing entities; each create commits
	// immediately and is not rolled back if the sale insert later fails
	c.enter(StateResolving)
	cust, err := resolve.Resolve(ctx, operational, resolve.KindCustomer, custRef, resolve.Options{AllowCreate: true})
	if err != nil {
		return e.fail(c, err)
	}
	prod, err := resolve.Resolve(ctx, product, resolve.KindProduct, prodRef, resolve.Options{
		AllowCreate: true,
		Defaults:    resolve.CreateDefaults{Price: unitPrice},
	})
	if err != nil {
		return e.fail(c, err)
	}

	if !hasUnitPrice {
		var row models.Product
		if err := product.First(&row, "id = ?", prod.ID).Error; err != nil {
			return e.fail(c, &StatementError{Err: err})
		}
		unitPrice = row.Price
	}
	if unitPrice < 0 {
		return e.fail(c, validationf("unit_price must be >= 0"))
	}

	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(qty))).Round(2)

	sql := "INSERT INTO sales (customer_id, product_id, quantity, unit_price, total_price, sale_date) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := e.exec(c, operational, sql, cust.ID, prod.ID, qty, unitPrice, total.InexactFloat64(), e.now()); err != nil {
		return e.fail(c, err)
	}

	c.enter(StatePropagating)
	if err := e.prop.Propagate(ctx, operational, product, prod.ID, -qty, total); err != nil {
		return e.partial(c, fmt.Sprintf(
			"⚠️ Sale recorded: %s bought %d x %s for $%s, but cross-store sync failed: %v",
			cust.Name, qty, prod.Name, total.StringFixed(2), err))
	}

	return e.done(c, fmt.Sprintf("✅ Sale recorded: %s bought %d x %s for $%s",
		cust.Name, qty, prod.Name, total.StringFixed(2)))
}

func (e *Engine) updateSale(ctx context.Context, c *call, operational *gorm.DB, args map[string]any) Response {
	saleRef, ok := argString(args, "sale_id")
	if !ok {
		return e.fail(c, validationf("update sale requires sale_id"))
	}
	newQty, hasQty := argInt(args, "new_quantity")
	newUnitPrice, hasPrice := argFloat(args, "new_unit_price")
	if !hasQty && !hasPrice {
		return e.fail(c, validationf("update sale requires new_quantity or new_unit_price"))
	}
	if hasQty && newQty <= 0 {
		return e.fail(c, validationf("quantity must be > 0"))
	}
	if hasPrice && newUnitPrice < 0 {
		return e.fail(c, validationf("unit_price must be >= 0"))
	}

	var old models.Sale
	if err := operational.First(&old, "id = ?", saleRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return e.fail(c, resolve.ErrNotFound)
		}
		return e.fail(c, &StatementError{Err: err})
	}

	qty, unitPrice := old.Quantity, old.UnitPrice
	if hasQty {
		qty = newQty
	}
	if hasPrice {
		unitPrice = newUnitPrice
	}

	// total_price is recomputed on every quantity/price edit
	oldTotal := decimal.NewFromFloat(old.TotalPrice)
	newTotal := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(qty))).Round(2)

	sql := "UPDATE sales SET quantity = ?, unit_price = ?, total_price = ? WHERE id = ?"
	if _, err := e.exec(c, operational, sql, qty, unitPrice, newTotal.InexactFloat64(), old.ID); err != nil {
		return e.fail(c, err)
	}

	product, releaseProd, err := e.stores.Product(ctx)
	if err != nil {
		return e.fail(c, err)
	}
	defer releaseProd()

	c.enter(StatePropagating)
	qtyDelta := -(qty - old.Quantity)
	revDelta := newTotal.Sub(oldTotal)
	if err := e.prop.Propagate(ctx, operational, product, old.ProductID, qtyDelta, revDelta); err != nil {
		return e.partial(c, fmt.Sprintf(
			"⚠️ Sale %d updated to %d x $%s, but cross-store sync failed: %v",
			old.ID, qty, formatMoney(unitPrice), err))
	}

	return e.done(c, fmt.Sprintf("✅ Sale %d updated: %d x $%s = $%s",
		old.ID, qty, formatMoney(unitPrice), newTotal.StringFixed(2)))
}

// partial marks a call whose primary write committed but whose propagation
// failed. The write is not rolled back; the inconsistency is already in the
// pending-sync ledger.
func (e *Engine) partial(c *call, status string) Response {
	c.enter(StateDone)
	return Response{SQL: c.sql, Result: status}
}
