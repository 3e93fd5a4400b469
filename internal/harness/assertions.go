package harness

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.SQL, event.Binds)
		}
	}

	return buf.String()
}

// assertTraceContains checks that some traced statement contains the
// assertion SQL.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if strings.Contains(event.SQL, assertion.SQL) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("statement containing %q", assertion.SQL),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceCount checks that statements of the given kind appear exactly
// Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if statementKind(event.SQL) == strings.ToUpper(assertion.Kind) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d %s statement(s)", assertion.Count, strings.ToUpper(assertion.Kind)),
			Actual:   fmt.Sprintf("%d statement(s)", count),
			Trace:    trace,
		}
	}
	return nil
}

// statementKind returns the leading keyword of sql.
func statementKind(sql string) string {
	kind, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	return strings.ToUpper(kind)
}

// assertRowCount counts the rows of the table matching Where.
func assertRowCount(ctx context.Context, h *Harness, assertion Assertion) error {
	rows, err := h.query(ctx, assertion.Table, assertion.Where)
	if err != nil {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	if len(rows) != assertion.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d row(s) in %s where %s", assertion.Count, assertion.Table, formatWhereClause(assertion.Where)),
			Actual:   fmt.Sprintf("%d row(s)", len(rows)),
		}
	}
	return nil
}

// assertFinalState checks that exactly one row matches Where and that it
// holds the expected values. Columns not named in Expect are ignored.
func assertFinalState(ctx context.Context, h *Harness, assertion Assertion) error {
	rows, err := h.query(ctx, assertion.Table, assertion.Where)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	whereDesc := formatWhereClause(assertion.Where)
	switch len(rows) {
	case 0:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, whereDesc),
			Actual:   "row not found",
		}
	case 1:
	default:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, whereDesc),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	return matchRow(rows[0], assertion.Expect)
}

// matchRow checks every expected column against row.
func matchRow(row frontbase.Row, expect map[string]any) error {
	for _, key := range sortedKeys(expect) {
		cell, exists := row[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("column %q to exist", key),
				Actual:   fmt.Sprintf("columns: %v", rowColumns(row)),
			}
		}

		if !stateValuesEqual(expect[key], cell.Value()) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("column %q = %v (type %T)", key, expect[key], expect[key]),
				Actual:   fmt.Sprintf("column %q = %v (type %T)", key, cell.Value(), cell.Value()),
			}
		}
	}
	return nil
}

func rowColumns(row frontbase.Row) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	parts := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// stateValuesEqual compares an expected scenario value with a stored one.
// Booleans are stored as integers, so they compare by truthiness.
func stateValuesEqual(expected, actual any) bool {
	if b, ok := expected.(bool); ok {
		got, err := cast.ToBoolE(actual)
		return err == nil && got == b
	}
	return reflect.DeepEqual(ir.BindValue(expected), ir.BindValue(actual))
}

// EvaluateAssertions evaluates all assertions against the harness state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(ctx context.Context, h *Harness, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(h.result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(h.result.Trace, assertion)
		case AssertRowCount:
			err = assertRowCount(ctx, h, assertion)
		case AssertFinalState:
			err = assertFinalState(ctx, h, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
