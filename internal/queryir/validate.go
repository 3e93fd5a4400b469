package queryir

import (
	"fmt"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

// ValidationResult contains the risk analysis of a query.
type ValidationResult struct {
	// IsSafe is true when no warnings were raised.
	IsSafe bool

	// Warnings lists the risky constructs found, in traversal order.
	Warnings []string
}

// Validate reports constructs that are legal but usually mistakes:
//  1. Update or Delete without a predicate (touches every row)
//  2. Select with an offset but no limit
//  3. Insert with no values
//  4. Empty table names
//  5. Comparisons against the NULL literal with = or <>
//
// Validate is a pure function with no side effects; the query still runs.
func Validate(query Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		IsSafe:   len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addWarning("nil query")
		return
	}

	switch query := q.(type) {
	case Insert:
		v.validateTable("insert", query.Table)
		if len(query.Values) == 0 {
			v.addWarning("insert into %q has no values", query.Table)
		}
	case Select:
		v.validateTable("select", query.Table)
		if query.Offset > 0 && query.Limit <= 0 {
			v.addWarning("select from %q has offset %d but no limit", query.Table, query.Offset)
		}
		v.validateExpression(query.Predicate)
		for _, j := range query.Joins {
			v.validateExpression(j.Condition)
		}
	case Update:
		v.validateTable("update", query.Table)
		if query.Predicate == nil {
			v.addWarning("update of %q has no predicate and affects every row", query.Table)
		}
		v.validateExpression(query.Predicate)
	case Delete:
		v.validateTable("delete", query.Table)
		if query.Predicate == nil {
			v.addWarning("delete from %q has no predicate and affects every row", query.Table)
		}
		v.validateExpression(query.Predicate)
	default:
		v.addWarning("unknown query type: %T", q)
	}
}

func (v *validator) validateTable(kind, table string) {
	if table == "" {
		v.addWarning("%s has empty table name", kind)
	}
}

// validateExpression flags "= NULL" and "<> NULL", which are never true.
func (v *validator) validateExpression(e frontbase.Expression) {
	switch expr := e.(type) {
	case frontbase.Binary:
		if expr.Op == frontbase.OpEqual || expr.Op == frontbase.OpNotEqual {
			if frontbase.IsNullLiteral(expr.Left) || frontbase.IsNullLiteral(expr.Right) {
				v.addWarning("comparison with NULL using %s is never true; use IS or IS NOT", expr.Op)
			}
		}
		v.validateExpression(expr.Left)
		v.validateExpression(expr.Right)
	case frontbase.Not:
		v.validateExpression(expr.Expr)
	case frontbase.Group:
		for _, sub := range expr.Exprs {
			v.validateExpression(sub)
		}
	}
}
