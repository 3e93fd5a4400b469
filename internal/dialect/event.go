package dialect

import (
	"context"

	"github.com/google/uuid"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/queryir"
	"github.com/roach88/fluentfrontbase/internal/querysql"
)

const (
	// uniqueKey is the column Frontbase names the result of SELECT UNIQUE.
	uniqueKey = "UNIQUE"
	// newUIDSQL reads a fresh 96-bit identifier.
	newUIDSQL = "VALUES NEW_UID"
	// newUIDKey is the column Frontbase names the result of VALUES NEW_UID.
	newUIDKey = "_VALUES001"
)

// UniqueSQL returns the statement reading table's next UNIQUE value.
func UniqueSQL(table string) string {
	return "SELECT UNIQUE FROM " + querysql.QuoteIdentifier(table)
}

// ModelEvent fills an unset identifier before a model is created.
//
// Only WillCreate acts, and only when the identifier is nil:
//   - integer identifiers take the table's next UNIQUE value; when the
//     query returns no row the identifier stays unset
//   - uuid.UUID identifiers are generated locally without a round-trip
//   - frontbase.Bit96 identifiers take a fresh NEW_UID value
//
// Every other case returns the model untouched. Decode failures are
// *frontbase.DecodingError; connection errors are returned as is.
func (d *Database) ModelEvent(ctx context.Context, conn Conn, event queryir.ModelEvent, model queryir.Model) (queryir.Model, error) {
	if event != queryir.WillCreate {
		return model, nil
	}

	var err error
	switch id := model.IDPointer().(type) {
	case **int:
		err = assignUnique(ctx, d, conn, model.Entity(), id)
	case **int32:
		err = assignUnique(ctx, d, conn, model.Entity(), id)
	case **int64:
		err = assignUnique(ctx, d, conn, model.Entity(), id)
	case **uint:
		err = assignUnique(ctx, d, conn, model.Entity(), id)
	case **uint32:
		err = assignUnique(ctx, d, conn, model.Entity(), id)
	case **uint64:
		err = assignUnique(ctx, d, conn, model.Entity(), id)
	case **uuid.UUID:
		if *id == nil {
			u := d.newUUID()
			*id = &u
		}
	case **frontbase.Bit96:
		if *id == nil {
			err = d.assignNewUID(ctx, conn, id)
		}
	}
	return model, err
}

// sequenceID lists the identifier types constructible from a 64-bit integer.
type sequenceID interface {
	int | int32 | int64 | uint | uint32 | uint64
}

func assignUnique[T sequenceID](ctx context.Context, d *Database, conn Conn, table string, id **T) error {
	if *id != nil {
		return nil
	}

	sql := UniqueSQL(table)
	d.trace(ctx, frontbase.Raw{SQL: sql})
	row, err := conn.First(ctx, sql)
	if err != nil {
		return err
	}
	if row == nil {
		d.logger.DebugContext(ctx, "no UNIQUE value returned", "table", table)
		return nil
	}

	var v T
	if err := row.Decode(uniqueKey, &v); err != nil {
		return err
	}
	*id = &v
	return nil
}

func (d *Database) assignNewUID(ctx context.Context, conn Conn, id **frontbase.Bit96) error {
	d.trace(ctx, frontbase.Raw{SQL: newUIDSQL})
	row, err := conn.First(ctx, newUIDSQL)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}

	var v frontbase.Bit96
	if err := row.Decode(newUIDKey, &v); err != nil {
		return err
	}
	*id = &v
	return nil
}
