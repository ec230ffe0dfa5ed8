package inputfilter

import (
	"fmt"
	"slices"
	"sync"
)

// Built-in type identifiers.
const (
	TypeInput       = "input"
	TypeInputFilter = "input_filter"
	TypeCollection  = "collection"
)

// Constructor builds a named entry.
type Constructor func(name string) Entry

// Factory maps type identifiers to constructors.
type Factory struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewFactory returns a factory holding the built-in types.
func NewFactory() *Factory {
	return &Factory{ctors: map[string]Constructor{
		TypeInput:       func(name string) Entry { return NewInput(name) },
		TypeInputFilter: func(name string) Entry { return NewInputFilter(name) },
		TypeCollection:  func(name string) Entry { return NewCollectionInputFilter(name) },
	}}
}

// Register adds or replaces a type.
func (f *Factory) Register(typ string, c Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ctors[typ] = c
}

// Has reports whether typ is known.
func (f *Factory) Has(typ string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.ctors[typ]

	return ok
}

// Types returns the known type identifiers in lexical order.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.ctors))
	for t := range f.ctors {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// Create builds an entry of type typ.
func (f *Factory) Create(typ, name string) (Entry, error) {
	f.mu.RLock()
	c, ok := f.ctors[typ]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("inputfilter: unknown type %q", typ)
	}

	e := c(name)
	if e == nil {
		return nil, fmt.Errorf("inputfilter: constructor for %q returned nil", typ)
	}

	return e, nil
}
