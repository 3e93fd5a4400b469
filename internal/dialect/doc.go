// Package dialect adapts Frontbase to the ORM's query and schema
// abstraction.
//
// Database translates queryir values into frontbase statements and runs
// them on a Conn. It owns the three Frontbase-specific behaviors the ORM
// cannot express generically:
//
//   - column types: SchemaField maps a field type to a column definition
//     and picks the primary key default from the column type
//   - identifiers: ModelEvent fills an unset identifier before insert from
//     the table's UNIQUE sequence, from NEW_UID, or with a local UUID
//   - ALTER TABLE: Frontbase adds exactly one column per statement
//
// Errors from the connection are returned unchanged. A malformed
// AlterTable is a programming error and panics with *PreconditionError
// before the connection is used.
package dialect
