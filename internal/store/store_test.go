package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/ir"
	"github.com/roach88/fluentfrontbase/internal/queryir"
)

// createTestStore opens a fresh SQLite database for round-trip tests.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	var fk int
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
	require.NoError(t, s.Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("no-such-driver", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

// SQLite accepts the subset of Frontbase SQL used below: quoted
// identifiers, CHARACTER VARYING, BLOB and plain primary keys.
func TestRoundTrip_ThroughDialect(t *testing.T) {
	s := createTestStore(t)
	db := dialect.New()
	ctx := context.Background()

	create := queryir.CreateTable{
		Table: "pets",
		Columns: []frontbase.ColumnDefinition{
			db.SchemaField(queryir.Static{Type: frontbase.Integer{}}, true, "id"),
			db.SchemaField(queryir.Static{Type: frontbase.Text{Size: 64}}, false, "name"),
			db.SchemaField(queryir.Optional{Wrapped: queryir.Static{Type: frontbase.Blob{}}}, false, "photo"),
			db.SchemaField(queryir.Optional{Wrapped: queryir.Static{Type: frontbase.Timestamp{}}}, false, "born"),
		},
	}
	require.NoError(t, db.SchemaExecute(ctx, s, create))

	born := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"rex", "tom"} {
		err := db.QueryExecute(ctx, s, queryir.Insert{
			Table: "pets",
			Values: []queryir.Pair{
				{Column: "id", Value: frontbase.Bind{Value: int64(i + 1)}},
				{Column: "name", Value: frontbase.Bind{Value: name}},
				{Column: "photo", Value: frontbase.NullLiteral},
				{Column: "born", Value: frontbase.Bind{Value: born}},
			},
		}, nil)
		require.NoError(t, err)
	}

	require.NoError(t, db.QueryExecute(ctx, s, queryir.Update{
		Table:     "pets",
		Values:    []queryir.Pair{{Column: "name", Value: frontbase.Literal{Value: ir.IRString("max")}}},
		Predicate: frontbase.Eq(frontbase.Column{Name: "id"}, int64(2)),
	}, nil))

	type pet struct {
		id    int
		name  string
		photo bool
	}
	var got []pet
	err := db.QueryExecute(ctx, s, queryir.Select{
		Table:   "pets",
		OrderBy: []frontbase.OrderBy{{Expression: frontbase.Column{Name: "id"}}},
	}, func(row frontbase.Row, _ dialect.Conn) error {
		var p pet
		if err := row.Decode("id", &p.id); err != nil {
			return err
		}
		if err := row.Decode("name", &p.name); err != nil {
			return err
		}
		_, p.photo = row["photo"].(frontbase.DataBlob)
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []pet{{1, "rex", false}, {2, "max", false}}, got)

	require.NoError(t, db.QueryExecute(ctx, s, queryir.Delete{
		Table:     "pets",
		Predicate: frontbase.Eq(frontbase.Column{Name: "name"}, "rex"),
	}, nil))

	row, err := s.First(ctx, `SELECT COUNT(*) AS "n" FROM "pets"`)
	require.NoError(t, err)
	var n int
	require.NoError(t, row.Decode("n", &n))
	assert.Equal(t, 1, n)
}

func TestRoundTrip_TransactionRollback(t *testing.T) {
	s := createTestStore(t)
	db := dialect.New()
	ctx := context.Background()

	_, err := s.DB().Exec(`CREATE TABLE "t" ("id" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	insert := queryir.Insert{Table: "t", Values: []queryir.Pair{{Column: "id", Value: frontbase.Bind{Value: 1}}}}
	err = db.TransactionExecute(ctx, s, func(tx dialect.Conn) error {
		if err := db.QueryExecute(ctx, tx, insert, nil); err != nil {
			return err
		}
		// Duplicate key fails and rolls back the first insert.
		return db.QueryExecute(ctx, tx, insert, nil)
	})
	require.Error(t, err)

	row, err := s.First(ctx, `SELECT COUNT(*) AS "n" FROM "t"`)
	require.NoError(t, err)
	var n int
	require.NoError(t, row.Decode("n", &n))
	assert.Equal(t, 0, n)
}

func TestRoundTrip_AlterTable(t *testing.T) {
	s := createTestStore(t)
	db := dialect.New()
	ctx := context.Background()

	_, err := s.DB().Exec(`CREATE TABLE "users" ("id" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	col := db.SchemaField(queryir.Optional{Wrapped: queryir.Static{Type: frontbase.Text{Size: 32}}}, false, "nick")
	require.NoError(t, db.SchemaExecute(ctx, s, queryir.AlterTable{
		Table:   "users",
		Columns: []frontbase.ColumnDefinition{col},
	}))

	_, err = s.DB().Exec(`INSERT INTO "users" ("id", "nick") VALUES (1, 'z')`)
	require.NoError(t, err)
}

func TestQuery_HandlerReusesConnection(t *testing.T) {
	s := createTestStore(t)
	db := dialect.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.DB().Exec(`CREATE TABLE "t" ("id" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = s.DB().Exec(`INSERT INTO "t" ("id") VALUES (1), (2)`)
	require.NoError(t, err)

	var counts []int
	err = db.QueryExecute(ctx, s, queryir.Select{Table: "t"}, func(_ frontbase.Row, conn dialect.Conn) error {
		row, err := conn.First(ctx, `SELECT COUNT(*) AS "n" FROM "t"`)
		if err != nil {
			return err
		}
		var n int
		if err := row.Decode("n", &n); err != nil {
			return err
		}
		counts = append(counts, n)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, counts)
}

func TestQuery_HandlerReusesTransaction(t *testing.T) {
	s := createTestStore(t)
	db := dialect.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.DB().Exec(`CREATE TABLE "t" ("id" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = s.DB().Exec(`INSERT INTO "t" ("id") VALUES (1)`)
	require.NoError(t, err)

	err = db.TransactionExecute(ctx, s, func(tx dialect.Conn) error {
		return db.QueryExecute(ctx, tx, queryir.Select{Table: "t"}, func(_ frontbase.Row, conn dialect.Conn) error {
			return db.QueryExecute(ctx, conn, queryir.Insert{
				Table:  "t",
				Values: []queryir.Pair{{Column: "id", Value: frontbase.Bind{Value: int64(2)}}},
			}, nil)
		})
	})
	require.NoError(t, err)

	row, err := s.First(ctx, `SELECT COUNT(*) AS "n" FROM "t"`)
	require.NoError(t, err)
	var n int
	require.NoError(t, row.Decode("n", &n))
	assert.Equal(t, 2, n)
}

func TestRoundTrip_DropTable(t *testing.T) {
	s := createTestStore(t)
	db := dialect.New()
	ctx := context.Background()

	_, err := s.DB().Exec(`CREATE TABLE "users" ("id" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = s.DB().Exec(`CREATE TABLE "pets" ("id" INTEGER PRIMARY KEY, "owner" INTEGER REFERENCES "users" ("id"))`)
	require.NoError(t, err)

	err = db.TransactionExecute(ctx, s, func(tx dialect.Conn) error {
		return db.SchemaExecute(ctx, tx, queryir.DropTable{Table: "pets"})
	})
	require.NoError(t, err)
	require.NoError(t, db.SchemaExecute(ctx, s, queryir.DropTable{Table: "users"}))

	row, err := s.First(ctx, `SELECT COUNT(*) AS "n" FROM sqlite_master WHERE type = 'table'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, row.Decode("n", &n))
	assert.Equal(t, 0, n)
}
