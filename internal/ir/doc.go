// Package ir defines the literal value model shared by the query IR and the
// Frontbase dialect.
//
// IRValue is a sealed interface. IRNull is the literal null marker: an
// insert pair whose value is Literal{IRNull{}} is dropped by the dialect so
// that column defaults still apply.
//
// The package also provides canonical JSON (sorted keys, NFC strings, no
// HTML escaping) and SHA-256 fingerprints of translated statements. The
// fingerprints only correlate log lines; they are never persisted.
//
// ir imports nothing internal.
package ir
