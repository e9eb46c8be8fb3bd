package domain

// Catalog is the set of structures known for one run, keyed by identifier.
// Insertion order is preserved so that generation passes walk structures in
// the order the catalog source enumerated them.
type Catalog struct {
	order []string
	byID  map[string]Structure
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID: make(map[string]Structure),
	}
}

// Add inserts a structure into the catalog. Identifiers are unique by
// construction; a duplicate identifier overwrites the earlier entry and
// keeps its original position.
func (c *Catalog) Add(s Structure) {
	if _, ok := c.byID[s.Identifier]; !ok {
		c.order = append(c.order, s.Identifier)
	}
	c.byID[s.Identifier] = s
}

// Get returns the structure with the given identifier.
func (c *Catalog) Get(identifier string) (Structure, bool) {
	s, ok := c.byID[identifier]
	return s, ok
}

// Len returns the number of structures in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns every structure in insertion order.
func (c *Catalog) All() []Structure {
	structures := make([]Structure, 0, len(c.order))
	for _, id := range c.order {
		structures = append(structures, c.byID[id])
	}
	return structures
}

// Enforced returns the structures flagged for transformation, in insertion
// order.
func (c *Catalog) Enforced() []Structure {
	structures := make([]Structure, 0, len(c.order))
	for _, id := range c.order {
		if s := c.byID[id]; s.Enforced {
			structures = append(structures, s)
		}
	}
	return structures
}
