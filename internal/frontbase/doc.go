// Package frontbase models the Frontbase SQL dialect: column types,
// column and table constraints, expressions, statements and the value
// cells returned in result rows.
//
// Every sum type is a sealed interface with an unexported marker method,
// so switches in the serializer (package querysql) and the adapter
// (package dialect) are exhaustive over a closed set of variants.
//
// Frontbase generates identifiers server-side in two ways: a per-table
// monotonic sequence read with
//
//	SELECT UNIQUE FROM "table"
//
// and 96-bit unique identifiers read with
//
//	VALUES NEW_UID
//
// Bit96 is the Go representation of the latter.
package frontbase
