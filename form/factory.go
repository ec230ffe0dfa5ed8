package form

import (
	"fmt"
	"slices"
	"sync"
)

// Built-in container type identifiers.
const (
	TypeForm       = "form"
	TypeFieldset   = "fieldset"
	TypeCollection = "collection"
	TypeElement    = "element"
)

// inputTypes are element types that set their HTML "type" attribute.
var inputTypes = []string{
	"text", "password", "email", "hidden", "checkbox", "number", "submit",
}

// Constructor builds a named element.
type Constructor func(name string) Element

// Factory maps type identifiers to constructors.
type Factory struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewFactory returns a factory holding the built-in types.
func NewFactory() *Factory {
	f := &Factory{ctors: map[string]Constructor{
		TypeForm:       func(name string) Element { return NewForm(name) },
		TypeFieldset:   func(name string) Element { return NewFieldset(name) },
		TypeCollection: func(name string) Element { return NewCollection(name) },
		TypeElement:    func(name string) Element { return NewBasic(TypeElement, name) },
		"textarea":     func(name string) Element { return NewBasic("textarea", name) },
		"select":       func(name string) Element { return NewBasic("select", name) },
		"csrf":         func(name string) Element { return NewBasic("csrf", name) },
	}}

	for _, typ := range inputTypes {
		f.ctors[typ] = func(name string) Element {
			b := NewBasic(typ, name)
			b.SetAttribute("type", typ)

			return b
		}
	}

	return f
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

// Create builds an element of type typ.
func (f *Factory) Create(typ, name string) (Element, error) {
	f.mu.RLock()
	c, ok := f.ctors[typ]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("form: unknown element type %q", typ)
	}

	el := c(name)
	if el == nil {
		return nil, fmt.Errorf("form: constructor for %q returned nil", typ)
	}

	return el, nil
}
