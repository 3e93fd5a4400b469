package frontbase

import (
	"fmt"
	"math"
)

// MaxTextSize is the width used for text columns whose field type has no
// concrete representation.
const MaxTextSize = math.MaxInt32

// DataType is a concrete Frontbase column type.
type DataType interface {
	dataType()
	// SQL renders the type as it appears in a column definition.
	SQL() string
}

// Bits is a fixed-width bit string, BIT(n).
type Bits struct{ Size int }

// Blob is a binary large object.
type Blob struct{}

// Integer is a 32/64-bit integer column.
type Integer struct{}

// Null is the type of the NULL literal.
type Null struct{}

// Real is a floating point column.
type Real struct{}

// Text is a variable-length character column bounded by Size.
type Text struct{ Size int }

// Timestamp is a date and time column.
type Timestamp struct{}

// VaryingBits is a variable-width bit string, BIT VARYING(n).
type VaryingBits struct{ Size int }

func (Bits) dataType()        {}
func (Blob) dataType()        {}
func (Integer) dataType()     {}
func (Null) dataType()        {}
func (Real) dataType()        {}
func (Text) dataType()        {}
func (Timestamp) dataType()   {}
func (VaryingBits) dataType() {}

func (t Bits) SQL() string        { return fmt.Sprintf("BIT(%d)", t.Size) }
func (Blob) SQL() string          { return "BLOB" }
func (Integer) SQL() string       { return "INTEGER" }
func (Null) SQL() string          { return "NULL" }
func (Real) SQL() string          { return "REAL" }
func (t Text) SQL() string        { return fmt.Sprintf("CHARACTER VARYING(%d)", t.Size) }
func (Timestamp) SQL() string     { return "TIMESTAMP" }
func (t VaryingBits) SQL() string { return fmt.Sprintf("BIT VARYING(%d)", t.Size) }

// DataTyper is implemented by Go types that declare their own column type.
type DataTyper interface {
	FrontbaseDataType() DataType
}

// PrimaryKeyDefault selects how Frontbase fills an identifier column when
// the insert does not supply one.
type PrimaryKeyDefault int

const (
	// PrimaryKeyDefaultPlain leaves the identifier to the client.
	PrimaryKeyDefaultPlain PrimaryKeyDefault = iota
	// PrimaryKeyDefaultRowID defaults the column to the table's UNIQUE sequence.
	PrimaryKeyDefaultRowID
	// PrimaryKeyDefaultUID defaults the column to a fresh NEW_UID value.
	PrimaryKeyDefaultUID
)

// String returns the strategy name.
func (d PrimaryKeyDefault) String() string {
	switch d {
	case PrimaryKeyDefaultPlain:
		return "plain"
	case PrimaryKeyDefaultRowID:
		return "rowid"
	case PrimaryKeyDefaultUID:
		return "uid"
	default:
		return fmt.Sprintf("PrimaryKeyDefault(%d)", int(d))
	}
}

// SQL renders the DEFAULT clause that precedes PRIMARY KEY, or "".
func (d PrimaryKeyDefault) SQL() string {
	switch d {
	case PrimaryKeyDefaultRowID:
		return "DEFAULT UNIQUE"
	case PrimaryKeyDefaultUID:
		return "DEFAULT NEW_UID"
	default:
		return ""
	}
}
