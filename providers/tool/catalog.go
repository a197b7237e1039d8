package tool

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicateTool is returned when two tools share a name.
var ErrDuplicateTool = errors.New("toolloop: duplicate tool name")

// Catalog manages a collection of tools with thread-safe operations.
// Names are case-insensitive.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewCatalog creates a catalog holding tools. It fails with
// [ErrDuplicateTool] when two of them share a name.
func NewCatalog(tools ...Tool) (*Catalog, error) {
	c := &Catalog{tools: make(map[string]Tool, len(tools))}
	if err := c.Register(tools...); err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds tools to the catalog. Either every tool is added or, when a
// name is already taken, none is.
func (c *Catalog) Register(tools ...Tool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := make(map[string]Tool, len(tools))
	for _, t := range tools {
		if t == nil {
			continue
		}
		key := strings.ToLower(t.Name())
		if _, exists := c.tools[key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name())
		}
		if _, exists := pending[key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name())
		}
		pending[key] = t
	}

	for key, t := range pending {
		c.tools[key] = t
	}
	return nil
}

// Get retrieves a tool by name (case-insensitive).
func (c *Catalog) Get(name string) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, exists := c.tools[strings.ToLower(name)]
	return t, exists
}

// Has checks if a tool with the given name exists (case-insensitive).
func (c *Catalog) Has(name string) bool {
	_, exists := c.Get(name)
	return exists
}

// Remove removes a tool by name and reports whether it was present.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := c.tools[key]; !exists {
		return false
	}
	delete(c.tools, key)
	return true
}

// Tools returns the registered tools sorted by name.
func (c *Catalog) Tools() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Tool, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name()) < strings.ToLower(out[j].Name())
	})
	return out
}

// Size returns the number of tools in the catalog.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Clone returns an independent catalog holding the same tools.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := &Catalog{tools: make(map[string]Tool, len(c.tools))}
	for key, t := range c.tools {
		clone.tools[key] = t
	}
	return clone
}

// AnyTagged reports whether any registered tool asks for the tagged calling
// grammar.
func (c *Catalog) AnyTagged() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.tools {
		if t.Tagged() {
			return true
		}
	}
	return false
}
