package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

func TestConn_QueryReplaysRows(t *testing.T) {
	conn := NewConn().WithRows(
		frontbase.Row{"id": frontbase.DataInteger(1)},
		frontbase.Row{"id": frontbase.DataInteger(2)},
	)

	var ids []int
	err := conn.Query(context.Background(), frontbase.Select{Table: "users"}, func(row frontbase.Row) error {
		var id int
		require.NoError(t, row.Decode("id", &id))
		ids = append(ids, id)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
	assert.Equal(t, []frontbase.Statement{frontbase.Select{Table: "users"}}, conn.Statements())
}

func TestConn_FirstResponses(t *testing.T) {
	conn := NewConn().
		RespondTo("VALUES NEW_UID", frontbase.Row{"_VALUES001": frontbase.DataBits(make([]byte, 12))}).
		WithUniqueSequence(NewSequence())
	ctx := context.Background()

	row, err := conn.First(ctx, "VALUES NEW_UID")
	require.NoError(t, err)
	assert.Contains(t, row, "_VALUES001")

	row, err = conn.First(ctx, `SELECT UNIQUE FROM "users"`)
	require.NoError(t, err)
	assert.Equal(t, frontbase.DataInteger(1), row["UNIQUE"])

	row, err = conn.First(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Nil(t, row)

	assert.Len(t, conn.RawCalls(), 3)
	assert.Equal(t, 3, conn.Calls())
}

func TestConn_FailWith(t *testing.T) {
	boom := errors.New("boom")
	conn := NewConn().FailWith(boom)

	_, err := conn.First(context.Background(), "VALUES NEW_UID")
	assert.Same(t, boom, err)

	err = conn.Query(context.Background(), frontbase.DropTable{Table: "t"}, func(frontbase.Row) error { return nil })
	assert.Same(t, boom, err)
}

func TestConn_WithTransaction(t *testing.T) {
	conn := NewConn()
	ctx := context.Background()

	require.NoError(t, conn.WithTransaction(ctx, func(dialect.Conn) error { return nil }))
	boom := errors.New("boom")
	assert.Same(t, boom, conn.WithTransaction(ctx, func(dialect.Conn) error { return boom }))

	assert.Equal(t, 1, conn.Commits())
	assert.Equal(t, 1, conn.Rollbacks())
}

func TestFixedUUIDGenerator(t *testing.T) {
	gen := NewFixedUUIDGenerator(uuid.Nil)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", gen.Generate().String())
	assert.Equal(t, gen.Generate(), gen.Generate())

	id := uuid.MustParse("6f1c2e2a-3b8f-4a61-9d1e-0c7d1b2a9f10")
	assert.Equal(t, id, NewFixedUUIDGenerator(id).Generate())
}
