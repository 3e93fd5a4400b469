package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

// scanRow reads the current row into cells keyed by column name.
func scanRow(rows *sql.Rows) (frontbase.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(frontbase.Row, len(columns))
	for i, col := range columns {
		if _, dup := row[col]; dup {
			return nil, fmt.Errorf("duplicate column %q in result", col)
		}
		row[col] = frontbase.DataOf(values[i])
	}
	return row, nil
}

// readRows scans every row and closes rows.
func readRows(rows *sql.Rows) ([]frontbase.Row, error) {
	defer rows.Close()

	var result []frontbase.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, rows.Close()
}
