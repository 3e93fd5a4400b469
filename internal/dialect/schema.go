package dialect

import (
	"context"
	"fmt"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/queryir"
)

// SchemaField maps a field type to a column definition.
//
// A non-optional type gets NOT NULL. Types without a concrete
// representation become the widest text column. For an identifier the
// primary key default follows the column type: bit strings default to
// NEW_UID, text to UNIQUE, everything else to none.
func (d *Database) SchemaField(ft queryir.FieldType, isIdentifier bool, field string) frontbase.ColumnDefinition {
	var constraints []frontbase.ColumnConstraint
	if opt, ok := ft.(queryir.Optional); ok {
		ft = opt.Wrapped
	} else {
		constraints = append(constraints, frontbase.NotNull{})
	}

	var typ frontbase.DataType
	pkDefault := frontbase.PrimaryKeyDefaultPlain
	switch static := ft.(type) {
	case queryir.Static:
		switch t := static.Type.(type) {
		case frontbase.Bits:
			typ = frontbase.Bits{Size: t.Size}
			pkDefault = frontbase.PrimaryKeyDefaultUID
		case frontbase.Blob:
			typ = frontbase.Blob{}
		case frontbase.Integer:
			typ = frontbase.Integer{}
		case frontbase.Null:
			typ = frontbase.Null{}
		case frontbase.Real:
			typ = frontbase.Real{}
		case frontbase.Text:
			typ = frontbase.Text{Size: t.Size}
			pkDefault = frontbase.PrimaryKeyDefaultRowID
		case frontbase.Timestamp:
			typ = frontbase.Timestamp{}
		case frontbase.VaryingBits:
			typ = frontbase.VaryingBits{Size: t.Size}
			pkDefault = frontbase.PrimaryKeyDefaultUID
		default:
			typ = frontbase.Text{Size: frontbase.MaxTextSize}
		}
	default:
		typ = frontbase.Text{Size: frontbase.MaxTextSize}
	}

	if isIdentifier {
		constraints = append(constraints, frontbase.PrimaryKey{Default: pkDefault})
	}

	return frontbase.ColumnDefinition{
		Column:      field,
		Type:        typ,
		Constraints: constraints,
	}
}

// SchemaExecute translates schema into CREATE, ALTER or DROP TABLE and
// runs it on conn.
//
// It panics with *PreconditionError, without touching conn, when an
// AlterTable does not carry exactly one column and no constraints.
func (d *Database) SchemaExecute(ctx context.Context, conn Conn, schema queryir.Schema) error {
	stmt, err := d.SchemaStatement(schema)
	if err != nil {
		return err
	}

	d.trace(ctx, stmt)
	return conn.Query(ctx, stmt, func(frontbase.Row) error { return nil })
}

// SchemaStatement returns the statement SchemaExecute would run for
// schema. It panics under the same conditions.
func (d *Database) SchemaStatement(schema queryir.Schema) (frontbase.Statement, error) {
	switch s := schema.(type) {
	case queryir.CreateTable:
		return frontbase.CreateTable{
			Table:       s.Table,
			Columns:     s.Columns,
			Constraints: s.Constraints,
		}, nil
	case queryir.AlterTable:
		if len(s.Columns) != 1 || len(s.Constraints) != 0 {
			panic(&PreconditionError{
				Op: "alter table",
				Message: fmt.Sprintf("only supports adding one (1) column; got %d columns and %d constraints for %q",
					len(s.Columns), len(s.Constraints), s.Table),
			})
		}
		return frontbase.AlterTable{Table: s.Table, AddColumn: s.Columns[0]}, nil
	case queryir.DropTable:
		return frontbase.DropTable{Table: s.Table}, nil
	default:
		return nil, fmt.Errorf("unsupported schema type: %T", schema)
	}
}

// NormalizeConstraintIdentifier returns identifier unchanged; Frontbase
// accepts constraint names as given.
func (d *Database) NormalizeConstraintIdentifier(identifier string) string {
	return identifier
}

// EnableReferences is a no-op; Frontbase has no session switch for
// referential checks.
func (d *Database) EnableReferences(ctx context.Context, conn Conn) error {
	return nil
}

// DisableReferences is a no-op.
func (d *Database) DisableReferences(ctx context.Context, conn Conn) error {
	return nil
}
