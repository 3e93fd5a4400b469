package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := New(db)
	t.Cleanup(func() {
		s.Close()
	})
	return s, mock
}

func TestQuery_SelectStreamsRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT TOP(2) * FROM "users" WHERE "age" > ?`)).
		WithArgs(18).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "ann").
			AddRow(int64(2), "bob"))

	var names []string
	err := s.Query(context.Background(), frontbase.Select{
		Table:     "users",
		Predicate: frontbase.Binary{Left: frontbase.Column{Name: "age"}, Op: frontbase.OpGreater, Right: frontbase.Bind{Value: 18}},
		Limit:     2,
	}, func(row frontbase.Row) error {
		var name string
		require.NoError(t, row.Decode("name", &name))
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ann", "bob"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ExecForDML(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users" ("name") VALUES (?)`)).
		WithArgs("ann").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE "users" CASCADE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, s.Query(ctx, frontbase.Insert{
		Table:   "users",
		Columns: []string{"name"},
		Values:  []frontbase.Expression{frontbase.Bind{Value: "ann"}},
	}, nil))
	require.NoError(t, s.Query(ctx, frontbase.DropTable{Table: "users"}, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_DropBehaviorOverride(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := New(db, WithDropBehavior(frontbase.DropRestrict))
	t.Cleanup(func() { s.Close() })

	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE "users" RESTRICT`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE "pets" RESTRICT`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ctx := context.Background()
	require.NoError(t, s.Query(ctx, &frontbase.DropTable{Table: "users"}, nil))
	require.NoError(t, s.WithTransaction(ctx, func(tx dialect.Conn) error {
		return tx.Query(ctx, frontbase.DropTable{Table: "pets"}, nil)
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ErrorsPassThrough(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("constraint violation")

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).WillReturnError(boom)

	err := s.Query(context.Background(), frontbase.Delete{Table: "users"}, nil)
	assert.Same(t, boom, err)
}

func TestQuery_HandlerErrorStops(t *testing.T) {
	s, mock := newMockStore(t)
	stop := errors.New("stop")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))

	calls := 0
	err := s.Query(context.Background(), frontbase.Select{Table: "users"}, func(frontbase.Row) error {
		calls++
		return stop
	})
	assert.Same(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestFirst(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT UNIQUE FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"UNIQUE"}).AddRow(int64(1000001)))
	mock.ExpectQuery(regexp.QuoteMeta(`VALUES NEW_UID`)).
		WillReturnRows(sqlmock.NewRows([]string{"_VALUES001"}))

	row, err := s.First(ctx, `SELECT UNIQUE FROM "users"`)
	require.NoError(t, err)
	var id int64
	require.NoError(t, row.Decode("UNIQUE", &id))
	assert.Equal(t, int64(1000001), id)

	row, err = s.First(ctx, "VALUES NEW_UID")
	require.NoError(t, err)
	assert.Nil(t, row)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_Commit(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "sessions"`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := s.WithTransaction(context.Background(), func(tx dialect.Conn) error {
		return tx.Query(context.Background(), frontbase.Delete{Table: "sessions"}, nil)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackReturnsErrorUnchanged(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.WithTransaction(context.Background(), func(dialect.Conn) error { return boom })
	assert.Same(t, boom, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_NestedReusesTx(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`VALUES NEW_UID`)).
		WillReturnRows(sqlmock.NewRows([]string{"_VALUES001"}).AddRow(make([]byte, 12)))
	mock.ExpectCommit()

	err := s.WithTransaction(context.Background(), func(tx dialect.Conn) error {
		return tx.WithTransaction(context.Background(), func(inner dialect.Conn) error {
			row, err := inner.First(context.Background(), "VALUES NEW_UID")
			if err != nil {
				return err
			}
			var id frontbase.Bit96
			return row.Decode("_VALUES001", &id)
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_SerializationError(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.Query(context.Background(), frontbase.Select{}, nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
