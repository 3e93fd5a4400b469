// Package queryir provides the database-agnostic intermediate
// representation an ORM hands to a dialect: queries, schema operations,
// field types and model descriptions.
//
// ARCHITECTURE:
//
//	[models / ORM] → [queryir] → [dialect adapter] → [frontbase statements] → [SQL]
//
// The IR carries dialect expressions (predicates, select keys, column
// definitions) directly, so the adapter's job is to pick the statement
// kind and move fields across, not to interpret predicates.
//
// SEALED INTERFACES:
//
// Query, Schema and FieldType are sealed interfaces using the marker
// method pattern. Only types in this package implement them, so switches
// in the adapter are exhaustive:
//
//	switch q := query.(type) {
//	case Insert:
//	case Select:
//	case Update:
//	case Delete:
//	}
//
// FIELD TYPES:
//
// FieldTypeOf resolves a Go type once, at schema-definition time:
//
//	*T                      Optional{FieldTypeOf(T)}
//	frontbase.DataTyper     Static{its declared type}
//	ints, bool              Static{Integer}
//	floats                  Static{Real}
//	string                  Static{Text{MaxTextSize}}
//	[]byte                  Static{Blob}
//	time.Time               Static{Timestamp}
//	uuid.UUID               Static{Bits{128}}
//	anything else           Dynamic
//
// Validate is a pure analysis that reports risky queries (an unfiltered
// update or delete, an offset without a limit) as warnings; it never
// rejects a query.
package queryir
