package querysql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/ir"
)

// assertGoldenSQL compiles stmt and compares the SQL text with
// testdata/golden/<name>.golden.
func assertGoldenSQL(t *testing.T, name string, stmt frontbase.Statement) []any {
	t.Helper()

	sql, args, err := NewSQLCompiler().Compile(stmt)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(sql))
	return args
}

func col(name string) frontbase.Column {
	return frontbase.Column{Name: name}
}

func TestCompile_Insert(t *testing.T) {
	args := assertGoldenSQL(t, "insert", frontbase.Insert{
		Table:   "users",
		Columns: []string{"id", "name"},
		Values: []frontbase.Expression{
			frontbase.Bind{Value: int64(1)},
			frontbase.Bind{Value: "ann"},
		},
	})
	assert.Equal(t, []any{int64(1), "ann"}, args)
}

func TestCompile_InsertLiteral(t *testing.T) {
	args := assertGoldenSQL(t, "insert_literal", frontbase.Insert{
		Table:   "users",
		Columns: []string{"name", "active"},
		Values: []frontbase.Expression{
			frontbase.Literal{Value: ir.IRString("o'brien")},
			frontbase.Literal{Value: ir.IRBool(true)},
		},
	})
	assert.Empty(t, args)
}

func TestCompile_InsertDefaults(t *testing.T) {
	sql, args, err := Serialize(frontbase.Insert{Table: "users"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" DEFAULT VALUES`, sql)
	assert.Empty(t, args)
}

func TestCompile_InsertMismatchedValues(t *testing.T) {
	_, _, err := Serialize(frontbase.Insert{
		Table:   "users",
		Columns: []string{"id", "name"},
		Values:  []frontbase.Expression{frontbase.Bind{Value: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 columns but 1 values")
}

func TestCompile_SelectAll(t *testing.T) {
	args := assertGoldenSQL(t, "select_all", frontbase.Select{Table: "users"})
	assert.Empty(t, args)
}

func TestCompile_SelectFull(t *testing.T) {
	args := assertGoldenSQL(t, "select_full", frontbase.Select{
		Table: "users",
		Columns: []frontbase.SelectExpression{
			frontbase.All{Table: "users"},
			frontbase.Expr{
				Expression: frontbase.Column{Table: "pets", Name: "name"},
				Alias:      "pet",
			},
		},
		Joins: []frontbase.Join{{
			Method: frontbase.LeftJoin,
			Table:  "pets",
			Condition: frontbase.Binary{
				Left:  frontbase.Column{Table: "pets", Name: "owner_id"},
				Op:    frontbase.OpEqual,
				Right: frontbase.Column{Table: "users", Name: "id"},
			},
		}},
		Predicate: frontbase.And(
			frontbase.Binary{
				Left:  frontbase.Column{Table: "users", Name: "name"},
				Op:    frontbase.OpLike,
				Right: frontbase.Bind{Value: "a%"},
			},
			frontbase.Binary{
				Left:  frontbase.Column{Table: "users", Name: "age"},
				Op:    frontbase.OpGreaterOrEqual,
				Right: frontbase.Bind{Value: 18},
			},
		),
		OrderBy: []frontbase.OrderBy{
			{Expression: frontbase.Column{Table: "users", Name: "name"}, Direction: frontbase.Descending},
			{Expression: frontbase.Column{Table: "users", Name: "id"}},
		},
		Limit:  10,
		Offset: 20,
	})
	assert.Equal(t, []any{"a%", 18}, args)
}

func TestCompile_SelectGroupBy(t *testing.T) {
	args := assertGoldenSQL(t, "select_group_by", frontbase.Select{
		Table: "pets",
		Columns: []frontbase.SelectExpression{
			frontbase.Expr{Expression: col("kind")},
			frontbase.Expr{
				Expression: frontbase.Function{Name: "COUNT", Args: []frontbase.Expression{frontbase.Column{Name: "*"}}},
				Alias:      "n",
			},
		},
		GroupBy: []frontbase.Expression{col("kind")},
		Limit:   5,
	})
	assert.Empty(t, args)
}

func TestCompile_SelectInList(t *testing.T) {
	sql, args, err := Serialize(frontbase.Select{
		Table: "users",
		Predicate: frontbase.Binary{
			Left:  col("id"),
			Op:    frontbase.OpIn,
			Right: frontbase.Group{Exprs: []frontbase.Expression{frontbase.Bind{Value: 1}, frontbase.Bind{Value: 2}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" IN (?, ?)`, sql)
	assert.Equal(t, []any{1, 2}, args)
}

func TestCompile_SelectNotNullLiteral(t *testing.T) {
	sql, _, err := Serialize(frontbase.Select{
		Table: "users",
		Predicate: frontbase.Not{Expr: frontbase.Binary{
			Left:  col("email"),
			Op:    frontbase.OpIs,
			Right: frontbase.NullLiteral,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE NOT "email" IS NULL`, sql)
}

func TestCompile_SelectGroupByRejectsBinds(t *testing.T) {
	_, _, err := Serialize(frontbase.Select{
		Table:   "users",
		GroupBy: []frontbase.Expression{frontbase.Bind{Value: 1}},
	})
	require.Error(t, err)
}

func TestTopClause(t *testing.T) {
	assert.Equal(t, "", topClause(0, 0))
	assert.Equal(t, "TOP(5)", topClause(5, 0))
	assert.Equal(t, "TOP(3, 5)", topClause(5, 3))
	assert.Equal(t, "TOP(3, 2147483647)", topClause(0, 3))
}

func TestCompile_Update(t *testing.T) {
	args := assertGoldenSQL(t, "update", frontbase.Update{
		Table: "users",
		Values: []frontbase.Assignment{
			{Column: "name", Value: frontbase.Bind{Value: "bob"}},
			{Column: "age", Value: frontbase.Binary{Left: col("age"), Op: frontbase.OpAdd, Right: frontbase.Literal{Value: ir.IRInt(1)}}},
		},
		Predicate: frontbase.Eq(col("id"), int64(7)),
	})
	assert.Equal(t, []any{"bob", int64(7)}, args)
}

func TestCompile_UpdateWithoutValues(t *testing.T) {
	_, _, err := Serialize(frontbase.Update{Table: "users"})
	require.Error(t, err)
}

func TestCompile_Delete(t *testing.T) {
	args := assertGoldenSQL(t, "delete", frontbase.Delete{
		Table:     "users",
		Predicate: frontbase.Eq(col("id"), int64(7)),
	})
	assert.Equal(t, []any{int64(7)}, args)

	sql, args, err := Serialize(&frontbase.Delete{Table: "users"})
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users"`, sql)
	assert.Empty(t, args)
}

func TestCompile_Raw(t *testing.T) {
	sql, args, err := Serialize(frontbase.Raw{SQL: "VALUES NEW_UID"})
	require.NoError(t, err)
	assert.Equal(t, "VALUES NEW_UID", sql)
	assert.Nil(t, args)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		stmt frontbase.Statement
	}{
		{"nil", nil},
		{"empty insert table", frontbase.Insert{}},
		{"empty select table", frontbase.Select{}},
		{"empty delete table", frontbase.Delete{}},
		{"object literal", frontbase.Select{
			Table:     "t",
			Predicate: frontbase.Literal{Value: ir.IRObject{}},
		}},
		{"join without condition", frontbase.Select{
			Table: "t",
			Joins: []frontbase.Join{{Table: "u"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Serialize(tt.stmt)
			assert.Error(t, err)
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"we""ird"`, QuoteIdentifier(`we"ird`))
	assert.Equal(t, `'it''s'`, QuoteString("it's"))
}
