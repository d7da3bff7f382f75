// Package model implements the reactive state primitive used by the hooks
// subsystem: a mutable cell with named watchers, and a registry of named
// cells scoped to one subtree root.
//
// Watchers fire synchronously on mutation, on the mutating goroutine. The
// render engine is single-threaded, so no locking is done here.
package model

// Cell is a mutable reactive value. Watchers are keyed by an identity string
// so that re-attaching a watcher for the same identity replaces the old one
// instead of accumulating.
type Cell struct {
	value    any
	watchers map[string]WatchFunc
	order    []string
}

// WatchFunc is called with the value before and after a mutation.
type WatchFunc func(old, new any)

// NewCell creates a cell holding an initial value.
func NewCell(initial any) *Cell {
	return &Cell{value: initial, watchers: make(map[string]WatchFunc)}
}

// Get returns the current value.
func (c *Cell) Get() any { return c.value }

// Set replaces the value and notifies watchers in attachment order.
func (c *Cell) Set(v any) {
	old := c.value
	c.value = v
	for _, id := range c.order {
		if w, ok := c.watchers[id]; ok {
			w(old, v)
		}
	}
}

// Swap applies f to the current value and sets the result.
func (c *Cell) Swap(f func(any) any) {
	c.Set(f(c.value))
}

// AddWatch attaches (or replaces) the watcher with the given identity.
func (c *Cell) AddWatch(id string, f WatchFunc) {
	if _, ok := c.watchers[id]; !ok {
		c.order = append(c.order, id)
	}
	c.watchers[id] = f
}

// RemoveWatch detaches the watcher with the given identity, if any.
func (c *Cell) RemoveWatch(id string) {
	if _, ok := c.watchers[id]; !ok {
		return
	}
	delete(c.watchers, id)
	for i, w := range c.order {
		if w == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// HasWatch reports whether a watcher with the given identity is attached.
func (c *Cell) HasWatch(id string) bool {
	_, ok := c.watchers[id]
	return ok
}

// Registry holds the named cells of one subtree root. Cells are created
// lazily and removed only by explicit Delete calls from hook teardown.
type Registry struct {
	cells map[string]*Cell
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cells: make(map[string]*Cell)}
}

// Cell returns the cell with the given name, creating it with init's value
// if absent. init may be a plain value or a func() any producer; a producer
// is only called when the cell is actually created.
func (r *Registry) Cell(name string, init any) *Cell {
	if c, ok := r.cells[name]; ok {
		return c
	}
	if f, ok := init.(func() any); ok {
		init = f()
	}
	c := NewCell(init)
	r.cells[name] = c
	return c
}

// Lookup returns the cell with the given name, or nil.
func (r *Registry) Lookup(name string) *Cell {
	return r.cells[name]
}

// Delete removes the cell with the given name.
func (r *Registry) Delete(name string) {
	delete(r.cells, name)
}

// Names returns the names of all cells, in unspecified order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cells))
	for name := range r.cells {
		names = append(names, name)
	}
	return names
}
