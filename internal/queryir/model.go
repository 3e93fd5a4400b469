package queryir

import (
	"fmt"
	"reflect"
	"strings"
)

// Model is a persisted entity.
type Model interface {
	// Entity is the table name.
	Entity() string
	// IDPointer returns a pointer to the identifier field. The field is
	// itself a pointer; nil means the identifier is unset.
	IDPointer() any
}

// ModelEvent is a lifecycle hook point of a model.
type ModelEvent int

const (
	WillCreate ModelEvent = iota
	DidCreate
	WillUpdate
	DidUpdate
	WillRead
	WillDelete
	DidDelete
	WillSoftDelete
	DidSoftDelete
	WillRestore
	DidRestore
)

var modelEventNames = [...]string{
	WillCreate:     "willCreate",
	DidCreate:      "didCreate",
	WillUpdate:     "willUpdate",
	DidUpdate:      "didUpdate",
	WillRead:       "willRead",
	WillDelete:     "willDelete",
	DidDelete:      "didDelete",
	WillSoftDelete: "willSoftDelete",
	DidSoftDelete:  "didSoftDelete",
	WillRestore:    "willRestore",
	DidRestore:     "didRestore",
}

func (e ModelEvent) String() string {
	if e >= 0 && int(e) < len(modelEventNames) {
		return modelEventNames[e]
	}
	return fmt.Sprintf("ModelEvent(%d)", int(e))
}

// FieldSpec describes one stored field of a model.
type FieldSpec struct {
	Name string
	Type FieldType
}

// ModelSpec describes a model's table: entity name, fields in declaration
// order and the name of the identifier field.
type ModelSpec struct {
	Entity     string
	Fields     []FieldSpec
	Identifier string
}

// Field returns the named field.
func (s ModelSpec) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// SpecOf describes a model by reflecting over its struct fields.
//
// Field names come from the `fb` struct tag, falling back to the lower-cased
// Go name; `fb:"-"` skips a field and the `id` option marks the identifier.
// Without an explicit option, a field named "id" is the identifier.
// Anonymous struct fields are flattened.
func SpecOf(m Model) (ModelSpec, error) {
	t := reflect.TypeOf(m)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return ModelSpec{}, fmt.Errorf("model %T: not a struct", m)
	}

	spec := ModelSpec{Entity: m.Entity()}
	if spec.Entity == "" {
		return ModelSpec{}, fmt.Errorf("model %T: empty entity name", m)
	}
	if err := collectFields(t, &spec); err != nil {
		return ModelSpec{}, fmt.Errorf("model %s: %w", spec.Entity, err)
	}
	if spec.Identifier == "" {
		if _, ok := spec.Field("id"); ok {
			spec.Identifier = "id"
		}
	}
	return spec, nil
}

func collectFields(t reflect.Type, spec *ModelSpec) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("fb")
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := collectFields(ft, spec); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if _, dup := spec.Field(name); dup {
			return fmt.Errorf("duplicate field %q", name)
		}
		spec.Fields = append(spec.Fields, FieldSpec{Name: name, Type: FieldTypeOf(f.Type)})
		if opts == "id" {
			if spec.Identifier != "" {
				return fmt.Errorf("multiple identifier fields: %q and %q", spec.Identifier, name)
			}
			spec.Identifier = name
		}
	}
	return nil
}
