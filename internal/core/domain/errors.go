package domain

import "go.trai.ch/zerr"

var (
	// ErrCacheNotEnumerable is returned when the artifact cache directory
	// cannot be listed. This is a fatal configuration error, not retried.
	ErrCacheNotEnumerable = zerr.New("artifact cache directory is not enumerable")

	// ErrNotReady is returned when structure resolution is requested before
	// the cache manager reached the ready state.
	ErrNotReady = zerr.New("cache manager is not ready")

	// ErrPassInFlight is returned when a generation pass is requested while
	// another one is still running; passes are not reentrant.
	ErrPassInFlight = zerr.New("generation pass already in flight")

	// ErrArtifactMissing is returned when a ready cache has no artifact for
	// an enforced structure.
	ErrArtifactMissing = zerr.New("artifact missing for structure")

	// ErrGenerationFailed marks a generation pass that completed with at
	// least one failed identifier.
	ErrGenerationFailed = zerr.New("generation pass completed with failures")
)
