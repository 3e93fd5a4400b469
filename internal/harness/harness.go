package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/fluentfrontbase/internal/compiler"
	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/queryir"
	"github.com/roach88/fluentfrontbase/internal/querysql"
	"github.com/roach88/fluentfrontbase/internal/store"
	"github.com/roach88/fluentfrontbase/internal/testutil"
)

// Harness is the scenario execution engine.
// It owns a fresh in-memory database and records flow statements.
type Harness struct {
	db        *dialect.Database
	store     *store.Store
	conn      dialect.Conn
	seq       *testutil.Sequence
	result    *Result
	recording bool
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Compile the models and create their tables
// 3. Execute setup steps
// 4. Execute flow steps with expect validation
// 5. Evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all.
// Failed expectations are reported through the result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	h := &Harness{
		db:     dialect.New(dialect.WithLogger(logger)),
		store:  st,
		seq:    testutil.NewSequence(),
		result: NewResult(),
	}
	h.conn = &tracingConn{h: h, inner: st}

	ctx := context.Background()

	models, err := compileModels(scenario.Models)
	if err != nil {
		return nil, err
	}
	if err := h.migrate(ctx, models); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	for i, step := range scenario.Setup {
		if _, err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("failed to execute setup[%d]: %w", i, err)
		}
	}

	h.recording = true
	for i, step := range scenario.Flow {
		h.runStep(ctx, i, step)
	}
	h.recording = false

	for _, msg := range EvaluateAssertions(ctx, h, scenario.Assertions) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

// compileModels compiles CUE model source into models in creation order.
func compileModels(src string) ([]compiler.Model, error) {
	value := cuecontext.New().CompileString(src, cue.Filename("models.cue"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile models: %w", err)
	}

	modelsVal := value.LookupPath(cue.ParsePath("model"))
	if !modelsVal.Exists() {
		return nil, fmt.Errorf("no models found")
	}
	iter, err := modelsVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate models: %w", err)
	}

	var models []compiler.Model
	for iter.Next() {
		m, err := compiler.CompileModel(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("model.%s: %w", iter.Selector(), err)
		}
		models = append(models, *m)
	}

	if errs := compiler.Validate(models); len(errs) > 0 {
		return nil, fmt.Errorf("invalid models: %w", errs[0])
	}
	return compiler.Order(models)
}

// migrate creates every model table in one transaction.
func (h *Harness) migrate(ctx context.Context, models []compiler.Model) error {
	return h.db.TransactionExecute(ctx, h.conn, func(tx dialect.Conn) error {
		for i := range models {
			if err := h.db.SchemaExecute(ctx, tx, models[i].Schema(h.db)); err != nil {
				return fmt.Errorf("create %s: %w", models[i].Spec.Entity, err)
			}
		}
		return nil
	})
}

// runStep executes a flow step and checks its expect clause.
func (h *Harness) runStep(ctx context.Context, index int, step Step) {
	rows, err := h.execute(ctx, step)
	at := fmt.Sprintf("flow[%d] %s %s", index, step.Op, step.Table)

	expect := step.Expect
	if expect == nil {
		expect = &ExpectClause{}
	}

	switch {
	case expect.Error != "" && err == nil:
		h.result.AddError(fmt.Sprintf("%s: expected error containing %q, got success", at, expect.Error))
		return
	case expect.Error != "" && !strings.Contains(err.Error(), expect.Error):
		h.result.AddError(fmt.Sprintf("%s: expected error containing %q, got %q", at, expect.Error, err.Error()))
		return
	case expect.Error == "" && err != nil:
		h.result.AddError(fmt.Sprintf("%s: %v", at, err))
		return
	}

	if err == nil && expect.Rows != nil && rows != *expect.Rows {
		h.result.AddError(fmt.Sprintf("%s: expected %d row(s), got %d", at, *expect.Rows, rows))
	}
}

// execute runs step through the dialect and returns the row count.
func (h *Harness) execute(ctx context.Context, step Step) (int, error) {
	q, err := buildQuery(step)
	if err != nil {
		return 0, err
	}
	rows := 0
	err = h.db.QueryExecute(ctx, h.conn, q, func(frontbase.Row, dialect.Conn) error {
		rows++
		return nil
	})
	return rows, err
}

// query reads the rows of table matching where without tracing.
func (h *Harness) query(ctx context.Context, table string, where map[string]any) ([]frontbase.Row, error) {
	var rows []frontbase.Row
	q := queryir.Select{Table: table, Predicate: wherePredicate(where)}
	err := h.db.QueryExecute(ctx, h.store, q, func(row frontbase.Row, _ dialect.Conn) error {
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

func buildQuery(step Step) (queryir.Query, error) {
	switch step.Op {
	case OpInsert:
		return queryir.Insert{Table: step.Table, Values: valuePairs(step.Values)}, nil
	case OpSelect:
		sel := queryir.Select{Table: step.Table, Predicate: wherePredicate(step.Where)}
		for _, col := range step.OrderBy {
			sel.OrderBy = append(sel.OrderBy, frontbase.OrderBy{
				Expression: frontbase.Column{Name: col},
				Direction:  frontbase.Ascending,
			})
		}
		return sel, nil
	case OpUpdate:
		return queryir.Update{
			Table:     step.Table,
			Values:    valuePairs(step.Values),
			Predicate: wherePredicate(step.Where),
		}, nil
	case OpDelete:
		return queryir.Delete{Table: step.Table, Predicate: wherePredicate(step.Where)}, nil
	}
	return nil, fmt.Errorf("unknown op %q", step.Op)
}

// valuePairs binds values in column name order. Null becomes the NULL
// literal.
func valuePairs(values map[string]any) []queryir.Pair {
	pairs := make([]queryir.Pair, 0, len(values))
	for _, col := range sortedKeys(values) {
		var expr frontbase.Expression = frontbase.Bind{Value: values[col]}
		if values[col] == nil {
			expr = frontbase.NullLiteral
		}
		pairs = append(pairs, queryir.Pair{Column: col, Value: expr})
	}
	return pairs
}

// wherePredicate joins equality filters in column name order. An empty
// map yields no predicate.
func wherePredicate(where map[string]any) frontbase.Expression {
	preds := make([]frontbase.Expression, 0, len(where))
	for _, col := range sortedKeys(where) {
		column := frontbase.Column{Name: col}
		if where[col] == nil {
			preds = append(preds, frontbase.Binary{Left: column, Op: frontbase.OpIs, Right: frontbase.NullLiteral})
			continue
		}
		preds = append(preds, frontbase.Eq(column, where[col]))
	}
	return frontbase.And(preds...)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tracingConn records flow statements on the harness result.
type tracingConn struct {
	h     *Harness
	inner dialect.Conn
}

var _ dialect.Conn = (*tracingConn)(nil)

func (c *tracingConn) Query(ctx context.Context, stmt frontbase.Statement, fn func(frontbase.Row) error) error {
	rows := 0
	err := c.inner.Query(ctx, stmt, func(row frontbase.Row) error {
		rows++
		return fn(row)
	})
	c.h.record(stmt, rows, err)
	return err
}

func (c *tracingConn) First(ctx context.Context, sql string, binds ...any) (frontbase.Row, error) {
	return c.inner.First(ctx, sql, binds...)
}

func (c *tracingConn) WithTransaction(ctx context.Context, fn func(dialect.Conn) error) error {
	return c.inner.WithTransaction(ctx, func(tx dialect.Conn) error {
		return fn(&tracingConn{h: c.h, inner: tx})
	})
}

func (h *Harness) record(stmt frontbase.Statement, rows int, err error) {
	if !h.recording {
		return
	}
	event := TraceEvent{Seq: h.seq.Next(), Rows: rows}
	sql, binds, serr := querysql.Serialize(stmt)
	if serr != nil {
		event.SQL = fmt.Sprintf("<unserializable: %v>", serr)
	} else {
		event.SQL = sql
		event.Binds = binds
	}
	if err != nil {
		event.Error = err.Error()
	}
	h.result.Trace = append(h.result.Trace, event)
}
