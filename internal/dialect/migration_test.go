package dialect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/queryir"
	"github.com/roach88/fluentfrontbase/internal/testutil"
)

type pet struct {
	dialect.Bit96ID
	Name    string
	OwnerID *int `fb:"owner_id"`
	Prefs   frontbase.JSON[map[string]string]
}

func (*pet) Entity() string { return "pets" }

func TestCreateTableFromSpec(t *testing.T) {
	spec, err := queryir.SpecOf(&pet{})
	require.NoError(t, err)

	ct := dialect.New().CreateTable(spec)
	assert.Equal(t, queryir.CreateTable{
		Table: "pets",
		Columns: []frontbase.ColumnDefinition{
			{
				Column:      "id",
				Type:        frontbase.Bits{Size: 96},
				Constraints: []frontbase.ColumnConstraint{frontbase.PrimaryKey{Default: frontbase.PrimaryKeyDefaultUID}},
			},
			{
				Column:      "name",
				Type:        frontbase.Text{Size: frontbase.MaxTextSize},
				Constraints: []frontbase.ColumnConstraint{frontbase.NotNull{}},
			},
			{Column: "owner_id", Type: frontbase.Integer{}},
			{
				Column:      "prefs",
				Type:        frontbase.Blob{},
				Constraints: []frontbase.ColumnConstraint{frontbase.NotNull{}},
			},
		},
	}, ct)
}

func TestPrepareAndRevert(t *testing.T) {
	db := dialect.New()
	conn := testutil.NewConn()
	ctx := context.Background()

	users := queryir.ModelSpec{
		Entity:     "users",
		Identifier: "id",
		Fields:     []queryir.FieldSpec{{Name: "id", Type: queryir.Optional{Wrapped: queryir.Static{Type: frontbase.Integer{}}}}},
	}
	pets := queryir.ModelSpec{Entity: "pets", Fields: []queryir.FieldSpec{{Name: "name", Type: queryir.Dynamic{Name: "x"}}}}

	require.NoError(t, db.Prepare(ctx, conn, users, pets))
	require.NoError(t, db.Revert(ctx, conn, users, pets))

	stmts := conn.Statements()
	require.Len(t, stmts, 4)
	assert.Equal(t, "users", stmts[0].(frontbase.CreateTable).Table)
	assert.Equal(t, "pets", stmts[1].(frontbase.CreateTable).Table)
	assert.Equal(t, frontbase.DropTable{Table: "pets"}, stmts[2])
	assert.Equal(t, frontbase.DropTable{Table: "users"}, stmts[3])
}

func TestPrepareWrapsError(t *testing.T) {
	boom := errors.New("boom")
	conn := testutil.NewConn().FailWith(boom)

	err := dialect.New().Prepare(context.Background(), conn, queryir.ModelSpec{Entity: "users"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "prepare users")
}
