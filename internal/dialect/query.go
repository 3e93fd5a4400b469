package dialect

import (
	"context"
	"fmt"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/queryir"
)

// QueryExecute translates q into a Frontbase statement, runs it on conn
// and passes every output row to handler. Connection errors are returned
// as is.
func (d *Database) QueryExecute(ctx context.Context, conn Conn, q queryir.Query, handler Handler) error {
	stmt, err := translateQuery(q)
	if err != nil {
		return err
	}

	if result := queryir.Validate(q); !result.IsSafe {
		for _, w := range result.Warnings {
			d.logger.WarnContext(ctx, "risky query", "table", tableOf(stmt), "warning", w)
		}
	}
	d.trace(ctx, stmt)

	return conn.Query(ctx, stmt, func(row frontbase.Row) error {
		if handler == nil {
			return nil
		}
		return handler(row, conn)
	})
}

// translateQuery maps each query kind to its statement. Insert pairs
// holding the NULL literal are dropped so column defaults apply.
func translateQuery(q queryir.Query) (frontbase.Statement, error) {
	switch query := q.(type) {
	case queryir.Insert:
		ins := frontbase.Insert{Table: query.Table}
		for _, p := range query.Values {
			if frontbase.IsNullLiteral(p.Value) {
				continue
			}
			ins.Columns = append(ins.Columns, p.Column)
			ins.Values = append(ins.Values, p.Value)
		}
		return ins, nil
	case queryir.Select:
		keys := query.Keys
		if len(keys) == 0 {
			keys = []frontbase.SelectExpression{frontbase.All{}}
		}
		return frontbase.Select{
			Table:     query.Table,
			Columns:   keys,
			Joins:     query.Joins,
			Predicate: query.Predicate,
			GroupBy:   query.GroupBy,
			OrderBy:   query.OrderBy,
			Limit:     query.Limit,
			Offset:    query.Offset,
		}, nil
	case queryir.Update:
		upd := frontbase.Update{Table: query.Table, Predicate: query.Predicate}
		for _, p := range query.Values {
			upd.Values = append(upd.Values, frontbase.Assignment{Column: p.Column, Value: p.Value})
		}
		return upd, nil
	case queryir.Delete:
		return frontbase.Delete{Table: query.Table, Predicate: query.Predicate}, nil
	default:
		return nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func tableOf(stmt frontbase.Statement) string {
	switch s := stmt.(type) {
	case frontbase.Insert:
		return s.Table
	case frontbase.Select:
		return s.Table
	case frontbase.Update:
		return s.Table
	case frontbase.Delete:
		return s.Table
	case frontbase.CreateTable:
		return s.Table
	case frontbase.AlterTable:
		return s.Table
	case frontbase.DropTable:
		return s.Table
	default:
		return ""
	}
}
