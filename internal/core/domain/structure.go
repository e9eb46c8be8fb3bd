// Package domain defines the core types of the artifact cache manager.
package domain

import "time"

// NamespaceSeparator separates the segments of a fully qualified identifier.
const NamespaceSeparator = `\`

// EngineNamespace is the namespace the transformation engine itself lives in.
// Structures under this prefix are never processed; generating a transformed
// version of the generator's own types is undefined behavior.
const EngineNamespace = `AppserverIo\PBC`

// EnvironmentDevelopment is the environment value that forces a full
// regeneration on every start.
const EnvironmentDevelopment = "development"

// Structure describes one source-level type that may require transformation.
// A Structure is immutable once enumerated for a given run.
type Structure struct {
	// Identifier is the fully qualified name, unique within a catalog.
	Identifier string

	// Source is the path of the file defining the structure.
	Source string

	// Enforced reports whether the structure requires transformation at all.
	Enforced bool

	// ModifiedAt is the modification timestamp of the source file.
	ModifiedAt time.Time
}

// InEngineNamespace reports whether the structure belongs to the
// transformation engine's own implementation namespace.
func (s Structure) InEngineNamespace() bool {
	return identifierUnder(s.Identifier, EngineNamespace)
}

// identifierUnder reports whether identifier equals prefix or is namespaced
// below it. A bare string prefix match is not enough: `AppserverIo\PBCX`
// must not count as part of `AppserverIo\PBC`.
func identifierUnder(identifier, prefix string) bool {
	if len(identifier) < len(prefix) || identifier[:len(prefix)] != prefix {
		return false
	}
	return len(identifier) == len(prefix) ||
		identifier[len(prefix):len(prefix)+1] == NamespaceSeparator
}
