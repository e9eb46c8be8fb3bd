// Package ports defines the collaborator interfaces the core depends on.
package ports

import "github.com/mayer2014/appserver/internal/core/domain"

// CatalogSource enumerates the candidate structures and their metadata.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type CatalogSource interface {
	// Enumerate returns every known structure. It is called once at startup
	// and may be re-invoked to refresh the catalog.
	Enumerate() ([]domain.Structure, error)
}
