package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/spf13/cast"

	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/queryir"
)

// Model is a compiled CUE model definition.
type Model struct {
	Name       string
	Spec       queryir.ModelSpec
	References []Reference
}

// Reference is a foreign key from one field to a column of another table.
type Reference struct {
	Field    string
	Table    string
	Column   string
	OnDelete frontbase.ForeignKeyAction
}

// Schema builds the CREATE TABLE for m, adding a REFERENCES constraint to
// every referencing column.
func (m *Model) Schema(db *dialect.Database) queryir.CreateTable {
	ct := db.CreateTable(m.Spec)
	for _, ref := range m.References {
		for i := range ct.Columns {
			if ct.Columns[i].Column != ref.Field {
				continue
			}
			ct.Columns[i].Constraints = append(ct.Columns[i].Constraints, frontbase.References{
				Table:    ref.Table,
				Column:   ref.Column,
				OnDelete: ref.OnDelete,
			})
		}
	}
	return ct
}

// CompileModel parses a CUE value into a Model.
//
// The value should be the model struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: Pet: { fields: { id: int @fb(id) } }`)
//	m, err := CompileModel(v.LookupPath(cue.ParsePath("model.Pet")))
func CompileModel(v cue.Value) (*Model, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &Model{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		m.Name = labels[len(labels)-1].String()
	}

	// Entity defaults to the lower-cased model name
	m.Spec.Entity = strings.ToLower(m.Name)
	entityVal := v.LookupPath(cue.ParsePath("entity"))
	if entityVal.Exists() {
		entity, err := entityVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		m.Spec.Entity = entity
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{
			Field:   "fields",
			Message: "fields are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldsVal.Fields(cue.Optional(true))
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		fv := iter.Value()
		if err := fv.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		attr := fv.Attribute("fb")
		hasAttr := attr.Err() == nil

		ft, err := fieldType(fv, &attr, hasAttr)
		if err != nil {
			return nil, err
		}
		if iter.IsOptional() {
			ft = queryir.Optional{Wrapped: ft}
		}
		m.Spec.Fields = append(m.Spec.Fields, queryir.FieldSpec{Name: name, Type: ft})

		if !hasAttr {
			continue
		}
		isID, err := attr.Flag(0, "id")
		if err != nil {
			return nil, attrError(fv, err)
		}
		if isID {
			if m.Spec.Identifier != "" {
				return nil, &CompileError{
					Field:   "fields." + name,
					Message: fmt.Sprintf("multiple identifier fields: %q and %q", m.Spec.Identifier, name),
					Pos:     fv.Pos(),
				}
			}
			m.Spec.Identifier = name
		}

		ref, ok, err := parseReference(name, fv, &attr)
		if err != nil {
			return nil, err
		}
		if ok {
			m.References = append(m.References, ref)
		}
	}

	if m.Spec.Identifier == "" {
		if _, ok := m.Spec.Field("id"); ok {
			m.Spec.Identifier = "id"
		}
	}
	return m, nil
}

// fieldType resolves a field's type from the type attribute key, a
// concrete type-name string or the CUE kind, in that order.
func fieldType(v cue.Value, attr *cue.Attribute, hasAttr bool) (queryir.FieldType, error) {
	if hasAttr {
		name, found, err := attr.Lookup(0, "type")
		if err != nil {
			return nil, attrError(v, err)
		}
		if found {
			return parseTypeName(name, v.Pos())
		}
	}

	if v.IncompleteKind() == cue.StringKind && v.IsConcrete() {
		name, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return parseTypeName(name, v.Pos())
	}

	switch v.IncompleteKind() {
	case cue.IntKind, cue.BoolKind:
		return queryir.Static{Type: frontbase.Integer{}}, nil
	case cue.FloatKind, cue.NumberKind:
		return queryir.Static{Type: frontbase.Real{}}, nil
	case cue.BytesKind:
		return queryir.Static{Type: frontbase.Blob{}}, nil
	case cue.StringKind:
		size := frontbase.MaxTextSize
		if hasAttr {
			s, found, err := attr.Lookup(0, "size")
			if err != nil {
				return nil, attrError(v, err)
			}
			if found {
				if size, err = cast.ToIntE(s); err != nil || size <= 0 {
					return nil, &CompileError{
						Field:   "size",
						Message: fmt.Sprintf("invalid size %q", s),
						Pos:     v.Pos(),
					}
				}
			}
		}
		return queryir.Static{Type: frontbase.Text{Size: size}}, nil
	default:
		// Structs and lists have no column type of their own
		return queryir.Dynamic{Name: v.IncompleteKind().String()}, nil
	}
}

var typeNamePattern = regexp.MustCompile(`^([a-z]+)(?:\((\d+)\))?$`)

// parseTypeName parses names like "int", "text(64)" or "bits(96)".
func parseTypeName(s string, pos token.Pos) (queryir.FieldType, error) {
	match := typeNamePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if match == nil {
		return nil, &CompileError{Field: "type", Message: fmt.Sprintf("malformed type %q", s), Pos: pos}
	}
	name, hasSize := match[1], match[2] != ""
	size := cast.ToInt(match[2])

	sized := func(fn func(int) frontbase.DataType) (queryir.FieldType, error) {
		if !hasSize || size <= 0 {
			return nil, &CompileError{Field: "type", Message: fmt.Sprintf("type %q requires a positive size", name), Pos: pos}
		}
		return queryir.Static{Type: fn(size)}, nil
	}

	switch name {
	case "int", "integer", "bool":
		return queryir.Static{Type: frontbase.Integer{}}, nil
	case "real", "float", "double":
		return queryir.Static{Type: frontbase.Real{}}, nil
	case "blob", "bytes":
		return queryir.Static{Type: frontbase.Blob{}}, nil
	case "timestamp":
		return queryir.Static{Type: frontbase.Timestamp{}}, nil
	case "uuid":
		return queryir.Static{Type: frontbase.Bits{Size: 128}}, nil
	case "text", "string":
		if !hasSize {
			return queryir.Static{Type: frontbase.Text{Size: frontbase.MaxTextSize}}, nil
		}
		return sized(func(n int) frontbase.DataType { return frontbase.Text{Size: n} })
	case "bits":
		return sized(func(n int) frontbase.DataType { return frontbase.Bits{Size: n} })
	case "varbits":
		return sized(func(n int) frontbase.DataType { return frontbase.VaryingBits{Size: n} })
	default:
		return nil, &CompileError{Field: "type", Message: fmt.Sprintf("unknown type %q", s), Pos: pos}
	}
}

// parseReference reads ref="table.column" and the optional onDelete key.
func parseReference(field string, v cue.Value, attr *cue.Attribute) (Reference, bool, error) {
	target, found, err := attr.Lookup(0, "ref")
	if err != nil {
		return Reference{}, false, attrError(v, err)
	}
	if !found {
		return Reference{}, false, nil
	}

	table, column, ok := strings.Cut(target, ".")
	if !ok || table == "" || column == "" {
		return Reference{}, false, &CompileError{
			Field:   "ref",
			Message: fmt.Sprintf("reference %q must have the form table.column", target),
			Pos:     v.Pos(),
		}
	}
	ref := Reference{Field: field, Table: table, Column: column}

	action, found, err := attr.Lookup(0, "onDelete")
	if err != nil {
		return Reference{}, false, attrError(v, err)
	}
	if found {
		switch strings.ToLower(action) {
		case "cascade":
			ref.OnDelete = frontbase.Cascade
		case "setnull", "set null":
			ref.OnDelete = frontbase.SetNull
		case "setdefault", "set default":
			ref.OnDelete = frontbase.SetDefault
		case "noaction", "no action":
			ref.OnDelete = frontbase.NoAction
		default:
			return Reference{}, false, &CompileError{
				Field:   "onDelete",
				Message: fmt.Sprintf("unknown action %q", action),
				Pos:     v.Pos(),
			}
		}
	}
	return ref, true, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func attrError(v cue.Value, err error) error {
	return &CompileError{Field: "@fb", Message: err.Error(), Pos: v.Pos()}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
