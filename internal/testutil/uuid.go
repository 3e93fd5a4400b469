package testutil

import "github.com/google/uuid"

// FixedUUIDGenerator returns the same UUID every time, so client-side
// identifiers are reproducible in tests.
//
// Thread-safety: FixedUUIDGenerator is stateless and safe for concurrent use.
type FixedUUIDGenerator struct {
	id uuid.UUID
}

// NewFixedUUIDGenerator creates a generator for id. A nil id is replaced
// by 00000000-0000-0000-0000-000000000001.
func NewFixedUUIDGenerator(id uuid.UUID) *FixedUUIDGenerator {
	if id == uuid.Nil {
		id = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	}
	return &FixedUUIDGenerator{id: id}
}

// Generate returns the fixed UUID. Its signature matches uuid.New.
func (g *FixedUUIDGenerator) Generate() uuid.UUID {
	return g.id
}
