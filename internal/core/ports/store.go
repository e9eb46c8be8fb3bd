package ports

import "time"

// ArtifactStore is the handle to the artifact cache directory. The core owns
// the policy (when to read, discard or regenerate); the store only performs
// the physical operations.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Count returns the number of cache entries. It is the cheap existence
	// check run before any per-file recency comparison.
	Count() (int, error)

	// Entries returns the names of all cache entries.
	Entries() ([]string, error)

	// Remove deletes one cache entry by name.
	Remove(entry string) error

	// Path returns the artifact path derived from the identifier. The
	// derivation is deterministic and total.
	Path(identifier string) string

	// ModifiedAt returns the modification time of the identifier's artifact
	// and whether the artifact exists.
	ModifiedAt(identifier string) (time.Time, bool, error)

	// Write stores the artifact content for the identifier, overwriting any
	// previous artifact.
	Write(identifier string, content []byte) error
}
