package domain

// Verdict classifies the startup state of the artifact cache.
type Verdict int

const (
	// VerdictFresh means every enforced structure has an artifact at least
	// as new as its source; no action is needed.
	VerdictFresh Verdict = iota

	// VerdictBootstrap means the cache is effectively empty (at most one
	// entry) or the process runs in development mode, which always forces
	// regeneration. The cache is filled additively.
	VerdictBootstrap

	// VerdictStale means the cache is non-empty but at least one enforced
	// structure is missing an artifact or has a source newer than its
	// artifact. The cache is wiped and rebuilt.
	VerdictStale
)

// String returns a human readable verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictFresh:
		return "FRESH"
	case VerdictBootstrap:
		return "EMPTY_OR_BOOTSTRAP"
	case VerdictStale:
		return "STALE"
	default:
		return "UNKNOWN"
	}
}

// State is the lifecycle state of the cache manager.
type State int

const (
	// StateUninitialized is the state before any classification ran.
	StateUninitialized State = iota
	// StateWiping is the state while stale artifacts are being deleted.
	StateWiping
	// StateFilling is the state while a generation pass is running.
	StateFilling
	// StateReady is the only state from which structure resolution requests
	// may be serviced.
	StateReady
)

// String returns a human readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWiping:
		return "wiping"
	case StateFilling:
		return "filling"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}
