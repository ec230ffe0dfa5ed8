package hydrator

import (
	"fmt"
	"slices"
	"sync"

	"formspec/internal/naming"
)

// Built-in hydrator identifiers.
const (
	ObjectPropertyID = "object_property"
	ClassMethodsID   = "class_methods"
)

// Constructor builds a hydrator from its raw options.
type Constructor func(options map[string]any) (Hydrator, error)

// Registry maps hydrator identifiers to constructors. Identifiers match
// regardless of case and separators, so "ClassMethods" finds "class_methods".
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
	ids   map[string]string
}

// NewRegistry returns a registry holding the built-in hydrators.
func NewRegistry() *Registry {
	r := &Registry{
		ctors: make(map[string]Constructor),
		ids:   make(map[string]string),
	}

	r.mustRegister(ObjectPropertyID, func(raw map[string]any) (Hydrator, error) {
		opts, err := DecodeOptions(raw)
		if err != nil {
			return nil, err
		}

		return NewObjectProperty(opts.UnderscoreSeparatedKeys != nil && *opts.UnderscoreSeparatedKeys), nil
	})

	r.mustRegister(ClassMethodsID, func(raw map[string]any) (Hydrator, error) {
		opts, err := DecodeOptions(raw)
		if err != nil {
			return nil, err
		}

		return NewClassMethods(opts.UnderscoreSeparatedKeys == nil || *opts.UnderscoreSeparatedKeys), nil
	})

	return r
}

func (r *Registry) mustRegister(id string, c Constructor) {
	if err := r.Register(id, c); err != nil {
		panic(err)
	}
}

// Register adds a hydrator constructor.
func (r *Registry) Register(id string, c Constructor) error {
	if c == nil {
		return fmt.Errorf("hydrator: nil constructor for %q", id)
	}

	key := naming.Normalize(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.ids[key]; ok {
		return fmt.Errorf("hydrator: %q already registered as %q", id, existing)
	}

	r.ids[key] = id
	r.ctors[key] = c

	return nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.ctors[naming.Normalize(id)]

	return ok
}

// IDs returns the registered identifiers in lexical order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.ids))
	for _, id := range r.ids {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// New builds the hydrator id with options passed verbatim.
func (r *Registry) New(id string, options map[string]any) (Hydrator, error) {
	r.mu.RLock()
	c, ok := r.ctors[naming.Normalize(id)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("hydrator: unknown hydrator %q", id)
	}

	h, err := c(options)
	if err != nil {
		return nil, fmt.Errorf("hydrator %q: %w", id, err)
	}

	return h, nil
}
