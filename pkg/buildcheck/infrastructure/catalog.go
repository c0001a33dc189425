package infrastructure

import (
	"fmt"
	"sync"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// CheckFactory constructs a new check instance.
type CheckFactory func() (buildcheck.Check, error)

// Catalog is the set of checks known to a process. It is populated at startup
// and consulted by Manager.AcquireChecks for every session.
type Catalog struct {
	mu        sync.RWMutex
	names     []string
	factories map[string]CheckFactory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		factories: make(map[string]CheckFactory),
	}
}

// Add registers factory under name.
func (c *Catalog) Add(name string, factory CheckFactory) error {
	if name == "" {
		return fmt.Errorf("check name is required")
	}
	if factory == nil {
		return fmt.Errorf("check %s: nil factory", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("check already in catalog: %s", name)
	}
	c.factories[name] = factory
	c.names = append(c.names, name)
	return nil
}

// MustAdd is like Add but panics on error. Intended for static catalogs.
func (c *Catalog) MustAdd(name string, factory CheckFactory) *Catalog {
	if err := c.Add(name, factory); err != nil {
		panic(err)
	}
	return c
}

// Names returns the catalog entries in insertion order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Factory returns the factory registered under name.
func (c *Catalog) Factory(name string) (CheckFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.factories[name]
	return f, ok
}
