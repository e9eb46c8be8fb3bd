package ports

import (
	"context"

	"github.com/mayer2014/appserver/internal/core/domain"
)

// Generator produces or refreshes the artifact for one structure.
//
// Implementations must be idempotent and safe to invoke concurrently for
// distinct identifiers; the worker pool guarantees that no two concurrent
// calls ever target the same identifier.
//
//go:generate go run go.uber.org/mock/mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Generate writes the artifact for the structure into the given store.
	Generate(ctx context.Context, s domain.Structure, store ArtifactStore) error
}
