package dialect

import (
	"github.com/google/uuid"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

// IntID is an embeddable integer identifier filled from the table's
// UNIQUE sequence.
//
//	type User struct {
//		dialect.IntID
//		Name string
//	}
//
//	func (*User) Entity() string { return "users" }
type IntID struct {
	ID *int `fb:"id,id"`
}

// IDPointer implements queryir.Model.
func (m *IntID) IDPointer() any { return &m.ID }

// UUIDID is an embeddable UUID identifier generated client-side.
type UUIDID struct {
	ID *uuid.UUID `fb:"id,id"`
}

// IDPointer implements queryir.Model.
func (m *UUIDID) IDPointer() any { return &m.ID }

// StringID is an embeddable text identifier the caller assigns.
type StringID struct {
	ID *string `fb:"id,id"`
}

// IDPointer implements queryir.Model.
func (m *StringID) IDPointer() any { return &m.ID }

// Bit96ID is an embeddable identifier filled from NEW_UID.
type Bit96ID struct {
	ID *frontbase.Bit96 `fb:"id,id"`
}

// IDPointer implements queryir.Model.
func (m *Bit96ID) IDPointer() any { return &m.ID }
