// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// PatternStore persists named pattern sets to durable storage.
// The backing store (bbolt) keeps one namespace per set name. Concurrent reads
// are safe; writes are serialized by the adapter.
//
// Crash safety: SaveSet must be transactional. A crash mid-write must not
// corrupt previously committed sets.
type PatternStore interface {
	// SaveSet persists a pattern set, overwriting any prior set of that name.
	// CreatedAt is preserved across overwrites.
	SaveSet(set *PatternSet) error

	// LoadSet retrieves a pattern set by name.
	// Returns nil, nil if no such set exists.
	LoadSet(name string) (*PatternSet, error)

	// ListSets returns summaries of every stored set, sorted by name.
	ListSets() ([]SetInfo, error)

	// DeleteSet removes a set.
	// Idempotent: deleting a nonexistent set is not an error.
	DeleteSet(name string) error
}

// PatternSet is a named, ordered list of distinct non-empty patterns.
type PatternSet struct {
	Name      string
	Patterns  []string
	CreatedAt int64 // unix seconds
	UpdatedAt int64 // unix seconds
}

// SetInfo summarizes a stored set without loading its patterns.
type SetInfo struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}
