package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

// RawCall records one First call.
type RawCall struct {
	SQL   string
	Binds []any
}

// Conn is a recording dialect.Conn.
//
// Query records the statement and replays the configured rows; First
// records the SQL and answers from the configured responses. With a
// Sequence attached, SELECT UNIQUE queries answer with its next value.
type Conn struct {
	mu sync.Mutex

	statements []frontbase.Statement
	raw        []RawCall
	rows       []frontbase.Row
	responses  map[string]frontbase.Row
	unique     *Sequence
	err        error

	commits   int
	rollbacks int
}

var _ dialect.Conn = (*Conn)(nil)

// NewConn creates an empty recording connection.
func NewConn() *Conn {
	return &Conn{responses: make(map[string]frontbase.Row)}
}

// WithRows sets the rows every Query replays.
func (c *Conn) WithRows(rows ...frontbase.Row) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = rows
	return c
}

// RespondTo sets the row First returns for sql.
func (c *Conn) RespondTo(sql string, row frontbase.Row) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[sql] = row
	return c
}

// WithUniqueSequence answers SELECT UNIQUE queries from seq.
func (c *Conn) WithUniqueSequence(seq *Sequence) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unique = seq
	return c
}

// FailWith makes every call return err.
func (c *Conn) FailWith(err error) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	return c
}

// Query implements dialect.Conn.
func (c *Conn) Query(ctx context.Context, stmt frontbase.Statement, fn func(frontbase.Row) error) error {
	c.mu.Lock()
	c.statements = append(c.statements, stmt)
	err := c.err
	rows := c.rows
	c.mu.Unlock()

	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// First implements dialect.Conn.
func (c *Conn) First(ctx context.Context, sql string, binds ...any) (frontbase.Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = append(c.raw, RawCall{SQL: sql, Binds: binds})

	if c.err != nil {
		return nil, c.err
	}
	if row, ok := c.responses[sql]; ok {
		return row, nil
	}
	if c.unique != nil && strings.HasPrefix(sql, "SELECT UNIQUE FROM ") {
		return frontbase.Row{"UNIQUE": frontbase.DataInteger(c.unique.Next())}, nil
	}
	return nil, nil
}

// WithTransaction implements dialect.Conn. It runs fn on c and counts
// the outcome.
func (c *Conn) WithTransaction(ctx context.Context, fn func(dialect.Conn) error) error {
	err := fn(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.rollbacks++
	} else {
		c.commits++
	}
	return err
}

// Statements returns the statements passed to Query, in order.
func (c *Conn) Statements() []frontbase.Statement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]frontbase.Statement(nil), c.statements...)
}

// RawCalls returns the First calls, in order.
func (c *Conn) RawCalls() []RawCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]RawCall(nil), c.raw...)
}

// Calls returns the total number of Query and First calls.
func (c *Conn) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.statements) + len(c.raw)
}

// Commits returns the number of committed transactions.
func (c *Conn) Commits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commits
}

// Rollbacks returns the number of rolled back transactions.
func (c *Conn) Rollbacks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollbacks
}
