package queryir

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

// FieldType is the abstract type of a model field.
//
// This is a sealed interface - one of Optional, Static or Dynamic.
type FieldType interface {
	fieldType() // Marker method - seals interface to this package
}

// Optional is a nullable wrapper around another field type.
type Optional struct {
	Wrapped FieldType
}

// Static is a field type with a concrete Frontbase representation.
type Static struct {
	Type frontbase.DataType
}

// Dynamic is a field type with no concrete representation. Name is the Go
// type name, kept for diagnostics.
type Dynamic struct {
	Name string
}

func (Optional) fieldType() {}
func (Static) fieldType()   {}
func (Dynamic) fieldType()  {}

var (
	dataTyperType = reflect.TypeOf((*frontbase.DataTyper)(nil)).Elem()
	timeType      = reflect.TypeOf(time.Time{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	bytesType     = reflect.TypeOf([]byte(nil))
)

// FieldTypeOf resolves the field type of a Go type.
func FieldTypeOf(t reflect.Type) FieldType {
	if t == nil {
		return Dynamic{Name: "nil"}
	}
	if t.Kind() == reflect.Pointer {
		return Optional{Wrapped: FieldTypeOf(t.Elem())}
	}
	if t.Implements(dataTyperType) {
		return Static{Type: reflect.Zero(t).Interface().(frontbase.DataTyper).FrontbaseDataType()}
	}
	if reflect.PointerTo(t).Implements(dataTyperType) {
		return Static{Type: reflect.New(t).Interface().(frontbase.DataTyper).FrontbaseDataType()}
	}

	switch t {
	case timeType:
		return Static{Type: frontbase.Timestamp{}}
	case uuidType:
		return Static{Type: frontbase.Bits{Size: 128}}
	case bytesType:
		return Static{Type: frontbase.Blob{}}
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Static{Type: frontbase.Integer{}}
	case reflect.Float32, reflect.Float64:
		return Static{Type: frontbase.Real{}}
	case reflect.String:
		return Static{Type: frontbase.Text{Size: frontbase.MaxTextSize}}
	}
	return Dynamic{Name: t.String()}
}

// FieldTypeFor is FieldTypeOf for the static type T.
func FieldTypeFor[T any]() FieldType {
	return FieldTypeOf(reflect.TypeOf((*T)(nil)).Elem())
}
