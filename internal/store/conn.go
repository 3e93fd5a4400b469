package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/querysql"
)

// querier is the subset of *sql.DB and *sql.Tx a Conn needs.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var (
	_ dialect.Conn = (*Store)(nil)
	_ dialect.Conn = (*txConn)(nil)
)

// Query implements dialect.Conn.
func (s *Store) Query(ctx context.Context, stmt frontbase.Statement, fn func(frontbase.Row) error) error {
	return run(ctx, s.db, s.logger, withDrop(stmt, s.drop), fn)
}

// First implements dialect.Conn.
func (s *Store) First(ctx context.Context, sql string, binds ...any) (frontbase.Row, error) {
	return first(ctx, s.db, sql, binds)
}

// WithTransaction implements dialect.Conn. fn's error triggers a rollback
// and is returned unchanged.
func (s *Store) WithTransaction(ctx context.Context, fn func(dialect.Conn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if already committed

	if err := fn(&txConn{tx: tx, logger: s.logger, drop: s.drop}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txConn is a Conn bound to an open transaction.
type txConn struct {
	tx     *sql.Tx
	logger *slog.Logger
	drop   frontbase.DropBehavior
}

func (c *txConn) Query(ctx context.Context, stmt frontbase.Statement, fn func(frontbase.Row) error) error {
	return run(ctx, c.tx, c.logger, withDrop(stmt, c.drop), fn)
}

func (c *txConn) First(ctx context.Context, sql string, binds ...any) (frontbase.Row, error) {
	return first(ctx, c.tx, sql, binds)
}

func (c *txConn) WithTransaction(ctx context.Context, fn func(dialect.Conn) error) error {
	return fn(c)
}

// withDrop applies the store's drop behavior to DROP TABLE statements.
func withDrop(stmt frontbase.Statement, b frontbase.DropBehavior) frontbase.Statement {
	switch s := stmt.(type) {
	case frontbase.DropTable:
		s.Behavior = b
		return s
	case *frontbase.DropTable:
		dt := *s
		dt.Behavior = b
		return dt
	default:
		return stmt
	}
}

// run serializes stmt and executes it. Selects and raw statements read
// every row and close the result set before handing rows to fn, so fn may
// query through the same connection.
func run(ctx context.Context, q querier, logger *slog.Logger, stmt frontbase.Statement, fn func(frontbase.Row) error) error {
	query, args, err := querysql.Serialize(stmt)
	if err != nil {
		return err
	}

	switch stmt.(type) {
	case frontbase.Select, *frontbase.Select, frontbase.Raw, *frontbase.Raw:
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		result, err := readRows(rows)
		if err != nil {
			return err
		}
		if fn == nil {
			return nil
		}
		for _, row := range result {
			if err := fn(row); err != nil {
				return err
			}
		}
		return nil
	default:
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			logger.DebugContext(ctx, "statement executed", "sql", query, "rows_affected", n)
		}
		return nil
	}
}

// first returns the first row of query, or nil when there is none.
func first(ctx context.Context, q querier, query string, binds []any) (frontbase.Row, error) {
	rows, err := q.QueryContext(ctx, query, binds...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRow(rows)
}
