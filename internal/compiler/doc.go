// Package compiler turns CUE model definitions into model specs.
//
// A models file declares each model under the top-level "model" struct:
//
//	model: Pet: {
//		entity: "pets"
//		fields: {
//			id:     int @fb(id)
//			name:   string @fb(size=64)
//			owner:  "bits(96)" @fb(ref="users.id", onDelete=cascade)
//			photo?: bytes
//		}
//	}
//
// Optional fields map to nullable columns. A field's column type comes
// from its CUE kind, or from a type name given as a concrete string or
// through the type attribute key.
package compiler
