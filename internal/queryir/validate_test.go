package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

func TestValidate_Safe(t *testing.T) {
	queries := []Query{
		Insert{Table: "users", Values: []Pair{{Column: "name", Value: frontbase.Bind{Value: "ann"}}}},
		Select{Table: "users"},
		Select{Table: "users", Limit: 10, Offset: 5},
		Update{
			Table:     "users",
			Values:    []Pair{{Column: "name", Value: frontbase.Bind{Value: "bob"}}},
			Predicate: frontbase.Eq(frontbase.Column{Name: "id"}, 1),
		},
		Delete{Table: "users", Predicate: frontbase.Eq(frontbase.Column{Name: "id"}, 1)},
	}
	for _, q := range queries {
		result := Validate(q)
		assert.True(t, result.IsSafe, "%#v", q)
		assert.Empty(t, result.Warnings)
	}
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		warning string
	}{
		{"nil", nil, "nil query"},
		{"unfiltered update", Update{Table: "users"}, "no predicate"},
		{"unfiltered delete", Delete{Table: "users"}, "affects every row"},
		{"offset without limit", Select{Table: "users", Offset: 3}, "offset 3 but no limit"},
		{"empty insert", Insert{Table: "users"}, "has no values"},
		{"empty table", Select{}, "empty table name"},
		{"null equality", Select{
			Table: "users",
			Predicate: frontbase.Binary{
				Left:  frontbase.Column{Name: "email"},
				Op:    frontbase.OpEqual,
				Right: frontbase.NullLiteral,
			},
		}, "use IS or IS NOT"},
		{"null inequality in join", Select{
			Table: "users",
			Joins: []frontbase.Join{{
				Table: "pets",
				Condition: frontbase.Not{Expr: frontbase.Binary{
					Left:  frontbase.NullLiteral,
					Op:    frontbase.OpNotEqual,
					Right: frontbase.Column{Name: "x"},
				}},
			}},
		}, "using <>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			assert.False(t, result.IsSafe)
			if assert.NotEmpty(t, result.Warnings) {
				assert.Contains(t, result.Warnings[0], tt.warning)
			}
		})
	}
}

func TestValidate_IsNullIsFine(t *testing.T) {
	result := Validate(Delete{
		Table: "users",
		Predicate: frontbase.Binary{
			Left:  frontbase.Column{Name: "email"},
			Op:    frontbase.OpIs,
			Right: frontbase.NullLiteral,
		},
	})
	assert.True(t, result.IsSafe)
}
