// Package generation implements the definitions builder and the
// worker-parallel generation pipeline.
package generation

import "github.com/mayer2014/appserver/internal/core/domain"

// Pending selects the structures that need generation, walking the catalog
// in enumeration order. A structure is skipped when it belongs to the
// engine's own namespace, is not enforced, or matches an omission rule.
// An empty result is a successful outcome, not an error.
func Pending(catalog *domain.Catalog, omit domain.OmissionRules) []domain.Structure {
	var pending []domain.Structure
	for _, s := range catalog.All() {
		if s.InEngineNamespace() {
			continue
		}
		if !s.Enforced {
			continue
		}
		if omit.Omits(s.Identifier) {
			continue
		}
		pending = append(pending, s)
	}
	return pending
}
