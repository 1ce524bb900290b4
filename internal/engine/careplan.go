package engine

import (
	"context"
	"fmt"
	"strings"

	"sales-engine/internal/resolve"
	"sales-engine/internal/schema"
)

// care-plan columns reachable through new_* update arguments
var carePlanUpdates = []struct {
	arg, column string
}{
	{"new_name_of_youth", "name_of_youth"},
	{"new_race_ethnicity", "race_ethnicity"},
	{"new_medi_cal_id", "medi_cal_id"},
	{"new_residential_address", "residential_address"},
	{"new_telephone", "telephone"},
	{"new_medi_cal_health_plan", "medi_cal_health_plan"},
	{"new_health_screenings", "health_screenings"},
	{"new_health_assessments", "health_assessments"},
	{"new_chronic_conditions", "chronic_conditions"},
	{"new_prescribed_medications", "prescribed_medications"},
	{"new_notes", "notes"},
	{"new_care_plan_notes", "care_plan_notes"},
}

func (e *Engine) carePlanCall(ctx context.Context, c *call, action string, args map[string]any) Response {
	if action == "describe" {
		return describeResponse(e, c, args, schema.EntityCarePlan)
	}

	db, release, err := e.stores.CarePlan(ctx)
	if err != nil {
		return e.fail(c, err)
	}
	defer release()

	switch action {
	case "create":
		name, ok := argString(args, "name_of_youth", "name")
		if !ok {
			return e.fail(c, validationf("create care plan requires name_of_youth"))
		}
		cols := []string{"name_of_youth", "created_at", "updated_at"}
		binds := []any{name, e.now(), e.now()}
		for _, u := range carePlanUpdates[1:] {
			if v, ok := argString(args, strings.TrimPrefix(u.arg, "new_"), u.arg); ok {
				cols = append(cols, u.column)
				binds = append(binds, v)
			}
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		sql := "INSERT INTO care_plans (" + strings.Join(cols, ", ") + ") VALUES (" + marks + ")"
		if _, err := e.exec(c, db, sql, binds...); err != nil {
			return e.fail(c, err)
		}
		return e.done(c, fmt.Sprintf("✅ Care plan for '%s' created", name))

	case "read":
		var (
			idFilter string
			idArgs   []any
		)
		if ref, ok := argString(args, "care_plan_id"); ok {
			idFilter, idArgs = "cp.id = ?", []any{ref}
		} else if name, ok := argString(args, "name_of_youth", "name"); ok {
			idFilter, idArgs = "cp.name_of_youth LIKE ?", []any{"%" + name + "%"}
		}
		rows, err := e.runSelect(ctx, db, c, schema.EntityCarePlan, args, idFilter, idArgs)
		if err != nil {
			return e.fail(c, err)
		}
		return e.done(c, e.formatRows(c, args, rows))

	case "update":
		ref, ok := argString(args, "care_plan_id")
		if !ok {
			return e.fail(c, validationf("update care plan requires care_plan_id"))
		}
		var (
			sets  []string
			binds []any
		)
		for _, u := range carePlanUpdates {
			if v, ok := argString(args, u.arg); ok {
				sets = append(sets, u.column+" = ?")
				binds = append(binds, v)
			}
		}
		if len(sets) == 0 {
			return e.fail(c, validationf("update care plan requires at least one new_* field"))
		}
		sets = append(sets, "updated_at = ?")
		binds = append(binds, e.now(), ref)

		sql := "UPDATE care_plans SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		affected, err := e.exec(c, db, sql, binds...)
		if err != nil {
			return e.fail(c, err)
		}
		if affected == 0 {
			return e.fail(c, resolve.ErrNotFound)
		}
		return e.done(c, fmt.Sprintf("✅ Care plan %s updated", ref))

	case "delete":
		ref, ok := argString(args, "care_plan_id")
		if !ok {
			return e.fail(c, validationf("delete care plan requires care_plan_id"))
		}
		sql := "DELETE FROM care_plans WHERE id = ?"
		affected, err := e.exec(c, db, sql, ref)
		if err != nil {
			return e.fail(c, err)
		}
		if affected == 0 {
			return e.fail(c, resolve.ErrNotFound)
		}
		return e.done(c, fmt.Sprintf("✅ Care plan %s deleted", ref))

	default:
		return e.fail(c, validationf("unknown action %q for %s", action, ToolCarePlan))
	}
}
