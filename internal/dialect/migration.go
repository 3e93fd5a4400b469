package dialect

import (
	"context"
	"fmt"

	"github.com/roach88/fluentfrontbase/internal/queryir"
)

// CreateTable builds the CREATE TABLE schema for spec, one column per
// field through SchemaField.
func (d *Database) CreateTable(spec queryir.ModelSpec) queryir.CreateTable {
	ct := queryir.CreateTable{Table: spec.Entity}
	for _, f := range spec.Fields {
		ct.Columns = append(ct.Columns, d.SchemaField(f.Type, f.Name == spec.Identifier, f.Name))
	}
	return ct
}

// Prepare creates the tables for specs in order.
func (d *Database) Prepare(ctx context.Context, conn Conn, specs ...queryir.ModelSpec) error {
	for _, spec := range specs {
		if err := d.SchemaExecute(ctx, conn, d.CreateTable(spec)); err != nil {
			return fmt.Errorf("prepare %s: %w", spec.Entity, err)
		}
		d.logger.InfoContext(ctx, "table created", "table", spec.Entity)
	}
	return nil
}

// Revert drops the tables for specs in reverse order.
func (d *Database) Revert(ctx context.Context, conn Conn, specs ...queryir.ModelSpec) error {
	for i := len(specs) - 1; i >= 0; i-- {
		spec := specs[i]
		if err := d.SchemaExecute(ctx, conn, queryir.DropTable{Table: spec.Entity}); err != nil {
			return fmt.Errorf("revert %s: %w", spec.Entity, err)
		}
		d.logger.InfoContext(ctx, "table dropped", "table", spec.Entity)
	}
	return nil
}
