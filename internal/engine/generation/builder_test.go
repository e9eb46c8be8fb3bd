package generation_test

import (
	"testing"

	"github.com/mayer2014/appserver/internal/core/domain"
	"github.com/mayer2014/appserver/internal/engine/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPending_FiltersCatalog(t *testing.T) {
	catalog := domain.NewCatalog()
	catalog.Add(domain.Structure{Identifier: `App\Entity\Order`, Enforced: true})
	catalog.Add(domain.Structure{Identifier: `App\Entity\Draft`})
	catalog.Add(domain.Structure{Identifier: `AppserverIo\PBC\Interfaces\Validation`, Enforced: true})
	catalog.Add(domain.Structure{Identifier: `App\Generated\Proxy`, Enforced: true})
	catalog.Add(domain.Structure{Identifier: `App\Entity\Customer`, Enforced: true})

	pending := generation.Pending(catalog, domain.OmissionRules{`App\Generated\`})

	require.Len(t, pending, 2)
	assert.Equal(t, `App\Entity\Order`, pending[0].Identifier)
	assert.Equal(t, `App\Entity\Customer`, pending[1].Identifier)
}

func TestPending_EngineNamespaceAlwaysSkipped(t *testing.T) {
	catalog := domain.NewCatalog()
	catalog.Add(domain.Structure{Identifier: `AppserverIo\PBC\Internal\Foo`, Enforced: true})

	// No omission rule covers the engine namespace. It is skipped anyway.
	pending := generation.Pending(catalog, nil)
	assert.Empty(t, pending)
}

func TestPending_NothingEnforcedIsEmptySuccess(t *testing.T) {
	catalog := domain.NewCatalog()
	catalog.Add(domain.Structure{Identifier: `App\A`})
	catalog.Add(domain.Structure{Identifier: `App\B`})

	assert.Empty(t, generation.Pending(catalog, nil))
}

func TestPending_EmptyCatalog(t *testing.T) {
	assert.Empty(t, generation.Pending(domain.NewCatalog(), nil))
}
