package frontbase

import "github.com/roach88/fluentfrontbase/internal/ir"

// Expression is a scalar SQL expression.
type Expression interface {
	expression()
}

// Column references a column, optionally qualified by its table.
type Column struct {
	Table string
	Name  string
}

// Literal is a value rendered inline. Literal{ir.IRNull{}} is NULL.
type Literal struct {
	Value ir.IRValue
}

// Bind is a value sent as a statement parameter.
type Bind struct {
	Value any
}

// Binary applies an infix operator.
type Binary struct {
	Left  Expression
	Op    BinaryOperator
	Right Expression
}

// Group is a parenthesized, comma-separated expression list.
type Group struct {
	Exprs []Expression
}

// Not negates an expression.
type Not struct {
	Expr Expression
}

// Function calls a SQL function by name.
type Function struct {
	Name string
	Args []Expression
}

func (Column) expression()   {}
func (Literal) expression()  {}
func (Bind) expression()     {}
func (Binary) expression()   {}
func (Group) expression()    {}
func (Not) expression()      {}
func (Function) expression() {}

// NullLiteral is the literal NULL.
var NullLiteral = Literal{Value: ir.IRNull{}}

// IsNullLiteral reports whether e is the literal NULL marker.
func IsNullLiteral(e Expression) bool {
	switch lit := e.(type) {
	case Literal:
		return ir.IsNull(lit.Value)
	case *Literal:
		return lit != nil && ir.IsNull(lit.Value)
	}
	return false
}

// BinaryOperator is an infix SQL operator.
type BinaryOperator string

const (
	OpEqual          BinaryOperator = "="
	OpNotEqual       BinaryOperator = "<>"
	OpLess           BinaryOperator = "<"
	OpLessOrEqual    BinaryOperator = "<="
	OpGreater        BinaryOperator = ">"
	OpGreaterOrEqual BinaryOperator = ">="
	OpAnd            BinaryOperator = "AND"
	OpOr             BinaryOperator = "OR"
	OpIn             BinaryOperator = "IN"
	OpNotIn          BinaryOperator = "NOT IN"
	OpLike           BinaryOperator = "LIKE"
	OpNotLike        BinaryOperator = "NOT LIKE"
	OpIs             BinaryOperator = "IS"
	OpIsNot          BinaryOperator = "IS NOT"
	OpConcat         BinaryOperator = "||"
	OpAdd            BinaryOperator = "+"
	OpSubtract       BinaryOperator = "-"
	OpMultiply       BinaryOperator = "*"
	OpDivide         BinaryOperator = "/"
)

// Eq builds column = ?.
func Eq(col Column, v any) Binary {
	return Binary{Left: col, Op: OpEqual, Right: Bind{Value: v}}
}

// And joins predicates with AND. Nil predicates are skipped.
func And(preds ...Expression) Expression {
	var out Expression
	for _, p := range preds {
		if p == nil {
			continue
		}
		if out == nil {
			out = p
			continue
		}
		out = Binary{Left: out, Op: OpAnd, Right: p}
	}
	return out
}

// SelectExpression is one entry of a SELECT result list.
type SelectExpression interface {
	selectExpression()
}

// All selects every column, optionally of a single table.
type All struct {
	Table string
}

// Expr selects an expression under an optional alias.
type Expr struct {
	Expression Expression
	Alias      string
}

func (All) selectExpression()  {}
func (Expr) selectExpression() {}

// JoinMethod is the kind of join.
type JoinMethod string

const (
	InnerJoin JoinMethod = "INNER"
	LeftJoin  JoinMethod = "LEFT OUTER"
	RightJoin JoinMethod = "RIGHT OUTER"
	FullJoin  JoinMethod = "FULL OUTER"
)

// Join joins Table on Condition.
type Join struct {
	Method    JoinMethod
	Table     string
	Condition Expression
}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// OrderBy is one ORDER BY term.
type OrderBy struct {
	Expression Expression
	Direction  Direction
}
