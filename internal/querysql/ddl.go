package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

func compileCreateTable(ct frontbase.CreateTable) (string, []any, error) {
	if ct.Table == "" {
		return "", nil, fmt.Errorf("create table: empty table name")
	}
	if len(ct.Columns) == 0 {
		return "", nil, fmt.Errorf("create table %s: no columns", ct.Table)
	}

	var parts []string
	var args []any
	for _, col := range ct.Columns {
		sql, a, err := CompileColumnDefinition(col)
		if err != nil {
			return "", nil, fmt.Errorf("create table %s: %w", ct.Table, err)
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}
	for _, tc := range ct.Constraints {
		sql, err := compileTableConstraint(tc)
		if err != nil {
			return "", nil, fmt.Errorf("create table %s: %w", ct.Table, err)
		}
		parts = append(parts, sql)
	}

	sql := fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdentifier(ct.Table), strings.Join(parts, ", "))
	return sql, args, nil
}

func compileAlterTable(at frontbase.AlterTable) (string, []any, error) {
	if at.Table == "" {
		return "", nil, fmt.Errorf("alter table: empty table name")
	}
	col, args, err := CompileColumnDefinition(at.AddColumn)
	if err != nil {
		return "", nil, fmt.Errorf("alter table %s: %w", at.Table, err)
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", QuoteIdentifier(at.Table), col), args, nil
}

// Frontbase requires an explicit drop behavior.
func compileDropTable(dt frontbase.DropTable) (string, []any, error) {
	if dt.Table == "" {
		return "", nil, fmt.Errorf("drop table: empty table name")
	}
	sql := "DROP TABLE " + QuoteIdentifier(dt.Table)
	if clause := dt.Behavior.SQL(); clause != "" {
		sql += " " + clause
	}
	return sql, nil, nil
}

// CompileColumnDefinition renders one column of a table definition.
func CompileColumnDefinition(col frontbase.ColumnDefinition) (string, []any, error) {
	if col.Column == "" {
		return "", nil, fmt.Errorf("column definition: empty name")
	}
	if col.Type == nil {
		return "", nil, fmt.Errorf("column %s: missing type", col.Column)
	}

	parts := []string{QuoteIdentifier(col.Column), col.Type.SQL()}
	var args []any
	for _, c := range col.Constraints {
		sql, a, err := compileColumnConstraint(c)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", col.Column, err)
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}
	return strings.Join(parts, " "), args, nil
}

func compileColumnConstraint(c frontbase.ColumnConstraint) (string, []any, error) {
	switch con := c.(type) {
	case frontbase.NotNull:
		return "NOT NULL", nil, nil
	case frontbase.PrimaryKey:
		sql := "PRIMARY KEY"
		if def := con.Default.SQL(); def != "" {
			sql = def + " " + sql
		}
		return named(con.Name, sql), nil, nil
	case frontbase.Unique:
		return named(con.Name, "UNIQUE"), nil, nil
	case frontbase.References:
		sql := fmt.Sprintf("REFERENCES %s (%s)", QuoteIdentifier(con.Table), QuoteIdentifier(con.Column))
		return named(con.Name, sql+referentialActions(con.OnDelete, con.OnUpdate)), nil, nil
	case frontbase.DefaultValue:
		sql, args, err := compileExpression(con.Expr)
		if err != nil {
			return "", nil, fmt.Errorf("default: %w", err)
		}
		return "DEFAULT " + sql, args, nil
	default:
		return "", nil, fmt.Errorf("unsupported column constraint: %T", c)
	}
}

func compileTableConstraint(c frontbase.TableConstraint) (string, error) {
	switch con := c.(type) {
	case frontbase.PrimaryKeyTable:
		return named(con.Name, "PRIMARY KEY "+columnList(con.Columns)), nil
	case frontbase.UniqueTable:
		return named(con.Name, "UNIQUE "+columnList(con.Columns)), nil
	case frontbase.ForeignKey:
		sql := fmt.Sprintf("FOREIGN KEY %s REFERENCES %s %s",
			columnList(con.Columns), QuoteIdentifier(con.RefTable), columnList(con.RefColumns))
		return named(con.Name, sql+referentialActions(con.OnDelete, con.OnUpdate)), nil
	default:
		return "", fmt.Errorf("unsupported table constraint: %T", c)
	}
}

func named(name, sql string) string {
	if name == "" {
		return sql
	}
	return "CONSTRAINT " + QuoteIdentifier(name) + " " + sql
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = QuoteIdentifier(c)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// referentialActions renders ON DELETE/ON UPDATE, omitting NO ACTION.
func referentialActions(onDelete, onUpdate frontbase.ForeignKeyAction) string {
	var sb strings.Builder
	if onDelete != frontbase.NoAction {
		sb.WriteString(" ON DELETE " + onDelete.SQL())
	}
	if onUpdate != frontbase.NoAction {
		sb.WriteString(" ON UPDATE " + onUpdate.SQL())
	}
	return sb.String()
}
