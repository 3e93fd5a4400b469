package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/fluentfrontbase/internal/queryir"
)

// Validation error codes (E100-E199)
const (
	ErrEntityEmpty       = "E101" // entity name is required
	ErrNoFields          = "E102" // at least one field required
	ErrMissingIdentifier = "E103" // no identifier field
	ErrUnknownIdentifier = "E104" // identifier names no field
	ErrDuplicateName     = "E105" // duplicate entity or field name
	ErrInvalidName       = "E106" // name is not a plain identifier
	ErrInvalidReference  = "E107" // reference field or target missing
	ErrReferenceCycle    = "E108" // tables reference each other in a loop
)

// ValidationError represents a model validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks models against each other and returns all errors found
// (does not fail-fast).
func Validate(models []Model) []ValidationError {
	var errs []ValidationError

	entities := make(map[string]*Model, len(models))
	for i := range models {
		m := &models[i]
		if _, dup := entities[m.Spec.Entity]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("model.%s.entity", m.Name),
				Message: fmt.Sprintf("duplicate entity %q", m.Spec.Entity),
				Code:    ErrDuplicateName,
			})
		}
		entities[m.Spec.Entity] = m
	}

	for i := range models {
		errs = append(errs, validateModel(&models[i], entities)...)
	}

	if _, err := Order(models); err != nil {
		errs = append(errs, ValidationError{
			Field:   "model",
			Message: err.Error(),
			Code:    ErrReferenceCycle,
		})
	}
	return errs
}

func validateModel(m *Model, entities map[string]*Model) []ValidationError {
	var errs []ValidationError
	prefix := "model." + m.Name

	switch {
	case strings.TrimSpace(m.Spec.Entity) == "":
		errs = append(errs, ValidationError{
			Field:   prefix + ".entity",
			Message: "entity is required and must be non-empty",
			Code:    ErrEntityEmpty,
		})
	case !namePattern.MatchString(m.Spec.Entity):
		errs = append(errs, ValidationError{
			Field:   prefix + ".entity",
			Message: fmt.Sprintf("invalid entity name %q", m.Spec.Entity),
			Code:    ErrInvalidName,
		})
	}

	if len(m.Spec.Fields) == 0 {
		errs = append(errs, ValidationError{
			Field:   prefix + ".fields",
			Message: "at least one field is required",
			Code:    ErrNoFields,
		})
	}

	seen := make(map[string]bool, len(m.Spec.Fields))
	for _, f := range m.Spec.Fields {
		if seen[f.Name] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".fields." + f.Name,
				Message: fmt.Sprintf("duplicate field %q", f.Name),
				Code:    ErrDuplicateName,
			})
		}
		seen[f.Name] = true
		if !namePattern.MatchString(f.Name) {
			errs = append(errs, ValidationError{
				Field:   prefix + ".fields." + f.Name,
				Message: fmt.Sprintf("invalid field name %q", f.Name),
				Code:    ErrInvalidName,
			})
		}
	}

	switch {
	case m.Spec.Identifier == "":
		errs = append(errs, ValidationError{
			Field:   prefix + ".fields",
			Message: `no identifier field; name one "id" or mark it with @fb(id)`,
			Code:    ErrMissingIdentifier,
		})
	case !seen[m.Spec.Identifier]:
		errs = append(errs, ValidationError{
			Field:   prefix + ".fields",
			Message: fmt.Sprintf("identifier %q is not a field", m.Spec.Identifier),
			Code:    ErrUnknownIdentifier,
		})
	}

	for _, ref := range m.References {
		errs = append(errs, validateReference(prefix, m, ref, entities)...)
	}
	return errs
}

// validateReference checks the referencing field exists and, when the
// target table is one of the models, that it has the referenced column.
func validateReference(prefix string, m *Model, ref Reference, entities map[string]*Model) []ValidationError {
	var errs []ValidationError
	field := prefix + ".fields." + ref.Field

	if _, ok := m.Spec.Field(ref.Field); !ok {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("reference from unknown field %q", ref.Field),
			Code:    ErrInvalidReference,
		})
	}

	target, ok := entities[ref.Table]
	if !ok {
		return errs
	}
	if _, ok := target.Spec.Field(ref.Column); !ok {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s has no column %q", ref.Table, ref.Column),
			Code:    ErrInvalidReference,
		})
	}
	return errs
}

// dynamicFields lists fields whose type has no column representation;
// those are stored as text.
func dynamicFields(spec queryir.ModelSpec) []string {
	var names []string
	for _, f := range spec.Fields {
		ft := f.Type
		if opt, ok := ft.(queryir.Optional); ok {
			ft = opt.Wrapped
		}
		if _, ok := ft.(queryir.Dynamic); ok {
			names = append(names, f.Name)
		}
	}
	return names
}

// Warnings reports non-fatal findings, such as fields stored as text for
// lack of a column type.
func Warnings(models []Model) []string {
	var warnings []string
	for _, m := range models {
		for _, name := range dynamicFields(m.Spec) {
			warnings = append(warnings, fmt.Sprintf("model.%s.fields.%s has no column type and is stored as text", m.Name, name))
		}
	}
	return warnings
}
