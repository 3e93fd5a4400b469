package queryir

import "github.com/roach88/fluentfrontbase/internal/frontbase"

// Query is an abstract data-manipulation request.
//
// This is a sealed interface - exactly one of Insert, Select, Update or
// Delete.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Pair is an ordered column/value pair of an Insert or Update.
type Pair struct {
	Column string
	Value  frontbase.Expression
}

// Insert adds one row built from Values, in order.
//
// A pair whose value is frontbase.NullLiteral means "not supplied"; the
// column's default applies.
type Insert struct {
	Table  string
	Values []Pair
}

// Select reads rows. Empty Keys means every column.
type Select struct {
	Table     string
	Keys      []frontbase.SelectExpression
	Joins     []frontbase.Join
	Predicate frontbase.Expression // nil = no filter
	OrderBy   []frontbase.OrderBy
	GroupBy   []frontbase.Expression
	Limit     int // <= 0 = unbounded
	Offset    int
}

// Update assigns Values to the rows matching Predicate.
type Update struct {
	Table     string
	Values    []Pair
	Predicate frontbase.Expression
}

// Delete removes the rows matching Predicate.
type Delete struct {
	Table     string
	Predicate frontbase.Expression
}

func (Insert) queryNode() {}
func (Select) queryNode() {}
func (Update) queryNode() {}
func (Delete) queryNode() {}

// Schema is an abstract schema operation.
//
// This is a sealed interface - exactly one of CreateTable, AlterTable or
// DropTable.
type Schema interface {
	schemaNode() // Marker method - seals interface to this package
}

// CreateTable creates Table with Columns and Constraints.
type CreateTable struct {
	Table       string
	Columns     []frontbase.ColumnDefinition
	Constraints []frontbase.TableConstraint
}

// AlterTable alters Table. Frontbase accepts exactly one added column and
// no constraints; the adapter enforces this.
type AlterTable struct {
	Table       string
	Columns     []frontbase.ColumnDefinition
	Constraints []frontbase.TableConstraint
}

// DropTable drops Table.
type DropTable struct {
	Table string
}

func (CreateTable) schemaNode() {}
func (AlterTable) schemaNode()  {}
func (DropTable) schemaNode()   {}
