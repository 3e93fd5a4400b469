package dialect

import (
	"fmt"
	"sort"
	"sync"
)

// ID is the registry key of the Frontbase dialect.
const ID = "frontbase"

// Registry holds dialects by id.
type Registry interface {
	Register(id string, db Supporting) error
}

// MapRegistry is an in-memory Registry.
type MapRegistry struct {
	mu        sync.RWMutex
	databases map[string]Supporting
}

// NewMapRegistry creates an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{databases: make(map[string]Supporting)}
}

// Register adds db under id. Registering an id twice is an error.
func (r *MapRegistry) Register(id string, db Supporting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.databases[id]; exists {
		return fmt.Errorf("dialect %q already registered", id)
	}
	r.databases[id] = db
	return nil
}

// Lookup returns the dialect registered under id.
func (r *MapRegistry) Lookup(id string) (Supporting, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	db, ok := r.databases[id]
	return db, ok
}

// IDs returns the registered ids, sorted.
func (r *MapRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.databases))
	for id := range r.databases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Register adds a new Database built from opts to r under ID.
func Register(r Registry, opts ...Option) (*Database, error) {
	db := New(opts...)
	if err := r.Register(ID, db); err != nil {
		return nil, err
	}
	return db, nil
}

// Boot completes provider start-up. Frontbase needs no boot work.
func Boot(r Registry) error {
	return nil
}
