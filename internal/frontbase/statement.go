package frontbase

// Statement is a complete Frontbase statement ready for serialization.
type Statement interface {
	statement()
}

// Insert adds one row. Columns and Values are parallel slices; an Insert
// with no columns inserts a row of defaults.
type Insert struct {
	Table   string
	Columns []string
	Values  []Expression
}

// Select reads rows. Limit <= 0 means unbounded.
type Select struct {
	Table     string
	Columns   []SelectExpression
	Joins     []Join
	Predicate Expression
	GroupBy   []Expression
	OrderBy   []OrderBy
	Limit     int
	Offset    int
}

// Assignment is one SET term of an Update.
type Assignment struct {
	Column string
	Value  Expression
}

// Update modifies the rows matching Predicate.
type Update struct {
	Table     string
	Values    []Assignment
	Predicate Expression
}

// Delete removes the rows matching Predicate.
type Delete struct {
	Table     string
	Predicate Expression
}

// CreateTable creates a table.
type CreateTable struct {
	Table       string
	Columns     []ColumnDefinition
	Constraints []TableConstraint
}

// AlterTable adds a single column; Frontbase admits no other alteration
// in one statement.
type AlterTable struct {
	Table     string
	AddColumn ColumnDefinition
}

// DropTable drops a table. The zero Behavior drops everything depending
// on it as well.
type DropTable struct {
	Table    string
	Behavior DropBehavior
}

// Raw is literal SQL with binds, used for the identifier queries.
type Raw struct {
	SQL   string
	Binds []any
}

func (Insert) statement()      {}
func (Select) statement()      {}
func (Update) statement()      {}
func (Delete) statement()      {}
func (CreateTable) statement() {}
func (AlterTable) statement()  {}
func (DropTable) statement()   {}
func (Raw) statement()         {}
