// Package freshness classifies the startup state of the artifact cache.
package freshness

import (
	"errors"

	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/core/ports"
	"go.trai.ch/zerr"
)

// bootstrapThreshold is the entry count up to which the cache counts as
// effectively empty. One entry is allowed for a sentinel or placeholder.
const bootstrapThreshold = 1

// Oracle decides whether the existing cache is usable as-is, must be topped
// up, or must be wiped and rebuilt. Classification is read-only.
type Oracle struct {
	store ports.ArtifactStore
}

// New creates an Oracle inspecting the given artifact store.
func New(store ports.ArtifactStore) *Oracle {
	return &Oracle{store: store}
}

// Classify returns exactly one verdict for the given structures and
// environment. The caller passes the structures the generation pass would
// produce artifacts for; the verdict must be computed over exactly that set,
// or a cache that can never hold more would be wiped on every start.
//
// The cheap entry-count check runs before any per-file timestamp comparison
// so that a trivially empty cache never pays for a full recency scan.
// Failure to enumerate the cache directory is a fatal configuration error.
func (o *Oracle) Classify(eligible []domain.Structure, environment string) (domain.Verdict, error) {
	if environment == domain.EnvironmentDevelopment {
		return domain.VerdictBootstrap, nil
	}

	count, err := o.store.Count()
	if err != nil {
		return domain.VerdictFresh, errors.Join(domain.ErrCacheNotEnumerable, err)
	}
	if count <= bootstrapThreshold {
		return domain.VerdictBootstrap, nil
	}

	for _, s := range eligible {
		modifiedAt, ok, err := o.store.ModifiedAt(s.Identifier)
		if err != nil {
			return domain.VerdictFresh, zerr.With(
				zerr.Wrap(err, "failed to inspect cached artifact"),
				"identifier", s.Identifier,
			)
		}
		if !ok || modifiedAt.Before(s.ModifiedAt) {
			return domain.VerdictStale, nil
		}
	}

	return domain.VerdictFresh, nil
}
