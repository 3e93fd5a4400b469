package frontbase

// ColumnDefinition describes one column of a CREATE TABLE or ALTER TABLE.
type ColumnDefinition struct {
	Column      string
	Type        DataType
	Constraints []ColumnConstraint
}

// ColumnConstraint is a constraint attached to a single column.
type ColumnConstraint interface {
	columnConstraint()
}

// NotNull forbids NULL values.
type NotNull struct{}

// PrimaryKey marks the column as the table's identifier.
type PrimaryKey struct {
	Default PrimaryKeyDefault
	Name    string
}

// Unique requires distinct values.
type Unique struct {
	Name string
}

// References declares a foreign key to another table's column.
type References struct {
	Table    string
	Column   string
	OnDelete ForeignKeyAction
	OnUpdate ForeignKeyAction
	Name     string
}

// DefaultValue sets the value used when an insert omits the column.
type DefaultValue struct {
	Expr Expression
}

func (NotNull) columnConstraint()      {}
func (PrimaryKey) columnConstraint()   {}
func (Unique) columnConstraint()       {}
func (References) columnConstraint()   {}
func (DefaultValue) columnConstraint() {}

// TableConstraint is a constraint spanning one or more columns.
type TableConstraint interface {
	tableConstraint()
}

// PrimaryKeyTable is a composite primary key.
type PrimaryKeyTable struct {
	Columns []string
	Name    string
}

// UniqueTable is a composite unique constraint.
type UniqueTable struct {
	Columns []string
	Name    string
}

// ForeignKey is a composite foreign key.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   ForeignKeyAction
	OnUpdate   ForeignKeyAction
	Name       string
}

func (PrimaryKeyTable) tableConstraint() {}
func (UniqueTable) tableConstraint()     {}
func (ForeignKey) tableConstraint()      {}

// ForeignKeyAction is the referential action taken on delete or update.
type ForeignKeyAction int

const (
	NoAction ForeignKeyAction = iota
	Cascade
	SetNull
	SetDefault
)

// SQL renders the action keyword.
func (a ForeignKeyAction) SQL() string {
	switch a {
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	case SetDefault:
		return "SET DEFAULT"
	default:
		return "NO ACTION"
	}
}

// DropBehavior is the clause closing a DROP TABLE statement.
type DropBehavior int

const (
	DropCascade DropBehavior = iota
	DropRestrict
	// DropUnqualified omits the clause. Frontbase rejects it; SQLite
	// accepts nothing else.
	DropUnqualified
)

// SQL renders the clause, empty for DropUnqualified.
func (b DropBehavior) SQL() string {
	switch b {
	case DropRestrict:
		return "RESTRICT"
	case DropUnqualified:
		return ""
	default:
		return "CASCADE"
	}
}
