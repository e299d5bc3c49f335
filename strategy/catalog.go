package strategy

import (
	"fmt"

	"github.com/tutormesh/tutormesh/core"
)

// Catalog holds the authored strategies for one scenario, keyed by exact
// name. Catalogs are built at scenario-load time and read-only afterwards.
type Catalog struct {
	ordered []*core.Strategy
	byName  map[string]*core.Strategy
}

// NewCatalog builds a catalog from authored strategies. Duplicate names are
// rejected since they make name resolution ambiguous.
func NewCatalog(strategies ...*core.Strategy) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*core.Strategy, len(strategies))}
	for _, s := range strategies {
		if s.Name == "" {
			return nil, fmt.Errorf("strategy with empty name")
		}
		if _, exists := c.byName[s.Name]; exists {
			return nil, fmt.Errorf("duplicate strategy name %q", s.Name)
		}
		c.byName[s.Name] = s
		c.ordered = append(c.ordered, s)
	}
	return c, nil
}

// Lookup returns the authored strategy with the exact name, if any.
func (c *Catalog) Lookup(name string) (*core.Strategy, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.byName[name]
	return s, ok
}

// Strategies returns the authored strategies in authored order (shared
// read-only values; do not mutate).
func (c *Catalog) Strategies() []*core.Strategy {
	if c == nil {
		return nil
	}
	out := make([]*core.Strategy, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of authored strategies.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ordered)
}
