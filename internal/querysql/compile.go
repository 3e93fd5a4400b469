// Package querysql serializes frontbase statements to parameterized
// Frontbase SQL.
//
// DML is assembled with squirrel; DDL is rendered directly since squirrel
// has no schema builders. All bound values are sent as ? parameters; only
// Literal expressions are rendered inline.
package querysql

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/ir"
)

// maxRows bounds a TOP clause that has an offset but no limit.
const maxRows = 2147483647

// SQLCompiler compiles frontbase statements to SQL.
type SQLCompiler struct {
	builder sq.StatementBuilderType
}

// NewSQLCompiler creates a new SQLCompiler using ? placeholders.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Serialize compiles stmt with a default compiler.
func Serialize(stmt frontbase.Statement) (string, []any, error) {
	return NewSQLCompiler().Compile(stmt)
}

// Compile converts a statement to SQL and its bind parameters.
func (c *SQLCompiler) Compile(stmt frontbase.Statement) (string, []any, error) {
	if stmt == nil {
		return "", nil, fmt.Errorf("cannot compile nil statement")
	}

	switch s := stmt.(type) {
	case frontbase.Insert:
		return c.compileInsert(s)
	case *frontbase.Insert:
		return c.compileInsert(*s)
	case frontbase.Select:
		return c.compileSelect(s)
	case *frontbase.Select:
		return c.compileSelect(*s)
	case frontbase.Update:
		return c.compileUpdate(s)
	case *frontbase.Update:
		return c.compileUpdate(*s)
	case frontbase.Delete:
		return c.compileDelete(s)
	case *frontbase.Delete:
		return c.compileDelete(*s)
	case frontbase.CreateTable:
		return compileCreateTable(s)
	case *frontbase.CreateTable:
		return compileCreateTable(*s)
	case frontbase.AlterTable:
		return compileAlterTable(s)
	case *frontbase.AlterTable:
		return compileAlterTable(*s)
	case frontbase.DropTable:
		return compileDropTable(s)
	case *frontbase.DropTable:
		return compileDropTable(*s)
	case frontbase.Raw:
		return s.SQL, s.Binds, nil
	case *frontbase.Raw:
		return s.SQL, s.Binds, nil
	default:
		return "", nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

func (c *SQLCompiler) compileInsert(ins frontbase.Insert) (string, []any, error) {
	if ins.Table == "" {
		return "", nil, fmt.Errorf("insert: empty table name")
	}
	if len(ins.Columns) != len(ins.Values) {
		return "", nil, fmt.Errorf("insert into %s: %d columns but %d values",
			ins.Table, len(ins.Columns), len(ins.Values))
	}
	if len(ins.Columns) == 0 {
		return "INSERT INTO " + QuoteIdentifier(ins.Table) + " DEFAULT VALUES", nil, nil
	}

	columns := make([]string, len(ins.Columns))
	values := make([]any, len(ins.Values))
	for i, col := range ins.Columns {
		columns[i] = QuoteIdentifier(col)
		expr, err := sqlizer(ins.Values[i])
		if err != nil {
			return "", nil, fmt.Errorf("insert value %s: %w", col, err)
		}
		values[i] = expr
	}

	return c.builder.Insert(QuoteIdentifier(ins.Table)).
		Columns(columns...).
		Values(values...).
		ToSql()
}

func (c *SQLCompiler) compileSelect(sel frontbase.Select) (string, []any, error) {
	if sel.Table == "" {
		return "", nil, fmt.Errorf("select: empty table name")
	}

	keys := sel.Columns
	if len(keys) == 0 {
		keys = []frontbase.SelectExpression{frontbase.All{}}
	}

	q := c.builder.Select().From(QuoteIdentifier(sel.Table))
	if top := topClause(sel.Limit, sel.Offset); top != "" {
		q = q.Options(top)
	}
	for _, key := range keys {
		sql, args, err := compileSelectExpression(key)
		if err != nil {
			return "", nil, fmt.Errorf("select column: %w", err)
		}
		q = q.Column(sq.Expr(sql, args...))
	}
	for _, j := range sel.Joins {
		sql, args, err := compileJoin(j)
		if err != nil {
			return "", nil, err
		}
		q = q.JoinClause(sq.Expr(sql, args...))
	}
	if sel.Predicate != nil {
		where, err := sqlizer(sel.Predicate)
		if err != nil {
			return "", nil, fmt.Errorf("compile predicate: %w", err)
		}
		q = q.Where(where)
	}
	for _, g := range sel.GroupBy {
		sql, args, err := compileExpression(g)
		if err != nil {
			return "", nil, fmt.Errorf("group by: %w", err)
		}
		if len(args) > 0 {
			return "", nil, fmt.Errorf("group by: bind parameters are not allowed")
		}
		q = q.GroupBy(sql)
	}
	for _, o := range sel.OrderBy {
		sql, args, err := compileExpression(o.Expression)
		if err != nil {
			return "", nil, fmt.Errorf("order by: %w", err)
		}
		dir := o.Direction
		if dir == "" {
			dir = frontbase.Ascending
		}
		q = q.OrderByClause(sql+" "+string(dir), args...)
	}

	return q.ToSql()
}

// topClause renders Frontbase's TOP(offset, count) select option.
func topClause(limit, offset int) string {
	switch {
	case limit <= 0 && offset <= 0:
		return ""
	case offset <= 0:
		return fmt.Sprintf("TOP(%d)", limit)
	case limit <= 0:
		return fmt.Sprintf("TOP(%d, %d)", offset, maxRows)
	default:
		return fmt.Sprintf("TOP(%d, %d)", offset, limit)
	}
}

func (c *SQLCompiler) compileUpdate(upd frontbase.Update) (string, []any, error) {
	if upd.Table == "" {
		return "", nil, fmt.Errorf("update: empty table name")
	}
	if len(upd.Values) == 0 {
		return "", nil, fmt.Errorf("update %s: no values", upd.Table)
	}

	q := c.builder.Update(QuoteIdentifier(upd.Table))
	for _, a := range upd.Values {
		expr, err := sqlizer(a.Value)
		if err != nil {
			return "", nil, fmt.Errorf("update value %s: %w", a.Column, err)
		}
		q = q.Set(QuoteIdentifier(a.Column), expr)
	}
	if upd.Predicate != nil {
		where, err := sqlizer(upd.Predicate)
		if err != nil {
			return "", nil, fmt.Errorf("compile predicate: %w", err)
		}
		q = q.Where(where)
	}
	return q.ToSql()
}

func (c *SQLCompiler) compileDelete(del frontbase.Delete) (string, []any, error) {
	if del.Table == "" {
		return "", nil, fmt.Errorf("delete: empty table name")
	}

	q := c.builder.Delete(QuoteIdentifier(del.Table))
	if del.Predicate != nil {
		where, err := sqlizer(del.Predicate)
		if err != nil {
			return "", nil, fmt.Errorf("compile predicate: %w", err)
		}
		q = q.Where(where)
	}
	return q.ToSql()
}

func compileSelectExpression(e frontbase.SelectExpression) (string, []any, error) {
	switch s := e.(type) {
	case frontbase.All:
		if s.Table == "" {
			return "*", nil, nil
		}
		return QuoteIdentifier(s.Table) + ".*", nil, nil
	case frontbase.Expr:
		sql, args, err := compileExpression(s.Expression)
		if err != nil {
			return "", nil, err
		}
		if s.Alias != "" {
			sql += " AS " + QuoteIdentifier(s.Alias)
		}
		return sql, args, nil
	default:
		return "", nil, fmt.Errorf("unsupported select expression: %T", e)
	}
}

func compileJoin(j frontbase.Join) (string, []any, error) {
	method := j.Method
	if method == "" {
		method = frontbase.InnerJoin
	}
	if j.Condition == nil {
		return "", nil, fmt.Errorf("join %s: missing condition", j.Table)
	}
	on, args, err := compileExpression(j.Condition)
	if err != nil {
		return "", nil, fmt.Errorf("join %s: %w", j.Table, err)
	}
	return fmt.Sprintf("%s JOIN %s ON %s", method, QuoteIdentifier(j.Table), on), args, nil
}

// sqlizer wraps a compiled expression for squirrel.
func sqlizer(e frontbase.Expression) (sq.Sqlizer, error) {
	sql, args, err := compileExpression(e)
	if err != nil {
		return nil, err
	}
	return sq.Expr(sql, args...), nil
}

// compileExpression renders an expression. Values in Bind become ?
// parameters; Literal values are rendered inline.
func compileExpression(e frontbase.Expression) (string, []any, error) {
	switch expr := e.(type) {
	case nil:
		return "", nil, fmt.Errorf("nil expression")
	case frontbase.Column:
		return compileColumn(expr), nil, nil
	case frontbase.Literal:
		sql, err := compileLiteral(expr.Value)
		return sql, nil, err
	case frontbase.Bind:
		return "?", []any{expr.Value}, nil
	case frontbase.Binary:
		left, largs, err := compileExpression(expr.Left)
		if err != nil {
			return "", nil, err
		}
		right, rargs, err := compileExpression(expr.Right)
		if err != nil {
			return "", nil, err
		}
		return left + " " + string(expr.Op) + " " + right, append(largs, rargs...), nil
	case frontbase.Group:
		parts, args, err := compileList(expr.Exprs)
		if err != nil {
			return "", nil, err
		}
		return "(" + parts + ")", args, nil
	case frontbase.Not:
		inner, args, err := compileExpression(expr.Expr)
		if err != nil {
			return "", nil, err
		}
		return "NOT " + inner, args, nil
	case frontbase.Function:
		parts, args, err := compileList(expr.Args)
		if err != nil {
			return "", nil, err
		}
		return expr.Name + "(" + parts + ")", args, nil
	default:
		return "", nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

func compileList(exprs []frontbase.Expression) (string, []any, error) {
	parts := make([]string, len(exprs))
	var args []any
	for i, e := range exprs {
		sql, a, err := compileExpression(e)
		if err != nil {
			return "", nil, err
		}
		parts[i] = sql
		args = append(args, a...)
	}
	return strings.Join(parts, ", "), args, nil
}

func compileColumn(col frontbase.Column) string {
	name := QuoteIdentifier(col.Name)
	if col.Name == "*" {
		name = "*"
	}
	if col.Table == "" {
		return name
	}
	return QuoteIdentifier(col.Table) + "." + name
}

// compileLiteral renders a literal value inline.
func compileLiteral(v ir.IRValue) (string, error) {
	switch val := v.(type) {
	case ir.IRNull:
		return "NULL", nil
	case ir.IRString:
		return QuoteString(string(val)), nil
	case ir.IRInt:
		return strconv.FormatInt(int64(val), 10), nil
	case ir.IRBool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case ir.IRArray:
		parts := make([]string, len(val))
		for i, elem := range val {
			sql, err := compileLiteral(elem)
			if err != nil {
				return "", fmt.Errorf("[%d]: %w", i, err)
			}
			parts[i] = sql
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	case ir.IRObject:
		return "", fmt.Errorf("IRObject cannot be used as SQL literal")
	default:
		return "", fmt.Errorf("unsupported literal type: %T", v)
	}
}

// QuoteIdentifier double-quotes a Frontbase identifier.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString renders a SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
