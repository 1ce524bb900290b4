// Package engine is the query executor: it validates a classified
// (tool, action, args) call, resolves name arguments to ids, assembles the
// parameterized statement, executes it against the right store(s), triggers
// cross-store propagation for sale writes and formats read results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sales-engine/internal/etl"
	"sales-engine/internal/models"
	"sales-engine/internal/propagate"
	"sales-engine/internal/query"
	"sales-engine/internal/resolve"
	"sales-engine/internal/schema"
	"sales-engine/internal/stores"
)

const (
	ToolCustomer = "customer_crud"
	ToolProduct  = "product_crud"
	ToolSales    = "sales_crud"
	ToolCarePlan = "careplan_crud"
)

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tools lists the dispatchable tools, for the discovery endpoint.
func Tools() []ToolInfo {
	return []ToolInfo{
		{ToolCustomer, "CRUD operations on customer records in the operational database"},
		{ToolProduct, "CRUD operations on the authoritative product catalog"},
		{ToolSales, "Record and query sales transactions across customers and products"},
		{ToolCarePlan, "CRUD operations on care plan records"},
	}
}

// Response is the engine's single output shape. SQL is the literal,
// parameterized statement text that was executed, nil when validation
// failed before any statement was built. It is an observability contract,
// not a security boundary.
type Response struct {
	SQL    *string `json:"sql"`
	Result any     `json:"result"`
}

type State string

const (
	StateValidating  State = "validating"
	StateResolving   State = "resolving"
	StateBuilding    State = "building"
	StateExecuting   State = "executing"
	StatePropagating State = "propagating"
	StateFormatting  State = "formatting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

type Engine struct {
	stores stores.Set
	prop   *propagate.Propagator
	log    *zap.Logger
	now    func() time.Time
}

func New(s stores.Set, log *zap.Logger) *Engine {
	return &Engine{
		stores: s,
		prop:   propagate.New(log),
		log:    log,
		now:    time.Now,
	}
}

// call carries per-invocation state. The SQL text survives into the
// response even when a later state fails.
type call struct {
	id     uuid.UUID
	tool   string
	action string
	state  State
	sql    *string
}

func (c *call) enter(s State) { c.state = s }

func (c *call) setSQL(sql string) { c.sql = &sql }

// Call runs one tool invocation through the state machine. Every error
// becomes a failure-shaped response; nothing is retried and nothing panics
// out of the engine.
func (e *Engine) Call(ctx context.Context, tool, action string, args map[string]any) Response {
	if args == nil {
		args = map[string]any{}
	}
	c := &call{id: uuid.New(), tool: tool, action: action, state: StateValidating}

	var resp Response
	switch tool {
	case ToolCustomer:
		resp = e.customerCall(ctx, c, action, args)
	case ToolProduct:
		resp = e.productCall(ctx, c, action, args)
	case ToolSales:
		resp = e.salesCall(ctx, c, action, args)
	case ToolCarePlan:
		resp = e.carePlanCall(ctx, c, action, args)
	default:
		resp = e.fail(c, validationf("unknown tool %q", tool))
	}

	e.log.Info("tool call finished",
		zap.String("call_id", c.id.String()),
		zap.String("tool", tool),
		zap.String("action", action),
		zap.String("state", string(c.state)),
	)
	return resp
}

// PendingSyncs lists the recorded propagation backlog from the operational
// store, oldest first.
func (e *Engine) PendingSyncs(ctx context.Context) ([]models.PendingSync, error) {
	db, release, err := e.stores.Operational(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return propagate.Pending(ctx, db)
}

func (e *Engine) done(c *call, result any) Response {
	c.enter(StateDone)
	return Response{SQL: c.sql, Result: result}
}

func (e *Engine) fail(c *call, err error) Response {
	c.enter(StateFailed)

	var amb *resolve.AmbiguousError
	var val *ValidationError
	var stmt *StatementError
	switch {
	case errors.As(err, &amb):
		return Response{SQL: c.sql, Result: map[string]any{
			"status": fmt.Sprintf("❌ %s %q is ambiguous: %d records match, please disambiguate",
				amb.Kind, amb.Ref, len(amb.Candidates)),
			"candidates": amb.Candidates,
		}}
	case errors.As(err, &val):
		return Response{SQL: c.sql, Result: "❌ " + val.Msg}
	case errors.Is(err, resolve.ErrNotFound):
		return Response{SQL: c.sql, Result: "❌ No matching record found"}
	case errors.Is(err, stores.ErrCarePlanDisabled):
		return Response{SQL: c.sql, Result: "❌ The care plan database is not configured"}
	case errors.As(err, &stmt):
		return Response{SQL: c.sql, Result: "❌ Database error: " + stmt.Err.Error()}
	default:
		return Response{SQL: c.sql, Result: "❌ " + err.Error()}
	}
}

// runSelect assembles and executes a SELECT for the entity: projection from
// the columns arg, predicates from the id filter plus the raw/structured
// where arguments. Rows come back generically for the formatter.
func (e *Engine) runSelect(ctx context.Context, db *gorm.DB, c *call, ent schema.Entity, args map[string]any, idFilter string, idArgs []any) ([]etl.Row, error) {
	c.enter(StateBuilding)

	spec, _ := argString(args, "columns")
	cols := query.Project(ent, spec)

	exprs := make([]string, len(cols))
	for i, col := range cols {
		exprs[i] = col.Expr + " AS " + col.Alias
	}

	var (
		preds []string
		binds []any
	)
	if idFilter != "" {
		preds = append(preds, idFilter)
		binds = append(binds, idArgs...)
	}
	if raw, ok := argString(args, "where_condition", "where_clause", "condition"); ok {
		if cond, ok := query.TranslateText(ent, raw); ok {
			preds = append(preds, cond.SQL)
			binds = append(binds, cond.Args...)
		}
	}
	if filters, ok := argMap(args, "filters"); ok {
		if cond, ok := query.TranslateMap(ent, filters); ok {
			preds = append(preds, cond.SQL)
			binds = append(binds, cond.Args...)
		}
	}

	sql := "SELECT " + strings.Join(exprs, ", ") + " FROM " + schema.From(ent)
	if len(preds) > 0 {
		sql += " WHERE " + strings.Join(preds, " AND ")
	}
	sql += " ORDER BY " + schema.Defaults(ent)[0].Expr
	c.setSQL(sql)

	c.enter(StateExecuting)
	var rows []etl.Row
	if err := db.Raw(sql, binds...).Scan(&rows).Error; err != nil {
		return nil, &StatementError{Err: err}
	}
	return rows, nil
}

// formatRows applies the single requested display mode, if any.
func (e *Engine) formatRows(c *call, args map[string]any, rows []etl.Row) []etl.Row {
	c.enter(StateFormatting)
	raw, _ := argString(args, "display_mode", "format", "etl_mode")
	mode, ok := etl.ParseMode(raw)
	if !ok {
		e.log.Warn("unknown display mode, returning rows unformatted",
			zap.String("call_id", c.id.String()), zap.String("display_mode", raw))
		return rows
	}
	return etl.Apply(rows, etl.ForMode(mode)...)
}

// exec runs a write statement, keeping the SQL text on the call.
func (e *Engine) exec(c *call, db *gorm.DB, sql string, binds ...any) (int64, error) {
	c.setSQL(sql)
	c.enter(StateExecuting)
	tx := db.Exec(sql, binds...)
	if tx.Error != nil {
		return 0, &StatementError{Err: tx.Error}
	}
	return tx.RowsAffected, nil
}

func describeResponse(e *Engine, c *call, args map[string]any, ent schema.Entity) Response {
	table, ok := argString(args, "table_name", "table")
	if !ok {
		table = schema.PrimaryTable(ent)
	}
	fields, ok := schema.Describe(table)
	if !ok {
		return e.fail(c, validationf("unknown table %q", table))
	}
	return e.done(c, fields)
}
