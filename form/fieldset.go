package form

import (
	"fmt"
	"iter"
	"reflect"
	"strconv"

	"formspec/hydrator"
	"formspec/ledger"
)

// Container is an element holding ordered children.
type Container interface {
	Element

	Add(el Element, priority int)
	Has(name string) bool
	Get(name string) (Element, bool)
	Remove(name string) bool
	All() iter.Seq2[string, Element]
	Len() int
	SetOrdering(o ledger.Ordering)

	Hydrator() hydrator.Hydrator
	SetHydrator(h hydrator.Hydrator)
	Object() any
	Bind(obj any) error
	Populate(data map[string]any) error
	Data() map[string]any
}

// Fieldset groups elements and may be bound to an object.
type Fieldset struct {
	*Basic

	children *ledger.Ledger[string, Element]
	hydrator hydrator.Hydrator
	object   any
}

// NewFieldset returns an empty fieldset ordered by priority.
func NewFieldset(name string) *Fieldset {
	return newFieldset("fieldset", name)
}

func newFieldset(typ, name string) *Fieldset {
	return &Fieldset{
		Basic:    NewBasic(typ, name),
		children: ledger.New[string, Element](ledger.ByPriority),
	}
}

// Add inserts el under its name. An element with the same name is replaced
// in place.
func (f *Fieldset) Add(el Element, priority int) {
	f.children.Insert(el.Name(), el, priority)
}

// Has reports whether a child called name exists.
func (f *Fieldset) Has(name string) bool { return f.children.Has(name) }

// Get returns the child called name.
func (f *Fieldset) Get(name string) (Element, bool) { return f.children.Get(name) }

// Remove deletes the child called name.
func (f *Fieldset) Remove(name string) bool { return f.children.Remove(name) }

// All iterates children in ledger order.
func (f *Fieldset) All() iter.Seq2[string, Element] { return f.children.All() }

// Len returns the number of children.
func (f *Fieldset) Len() int { return f.children.Len() }

// SetOrdering switches between priority and declared order.
func (f *Fieldset) SetOrdering(o ledger.Ordering) { f.children.SetOrdering(o) }

// Hydrator returns the fieldset hydrator, ObjectProperty when none was set.
func (f *Fieldset) Hydrator() hydrator.Hydrator {
	if f.hydrator == nil {
		return hydrator.NewObjectProperty(false)
	}

	return f.hydrator
}

// SetHydrator sets the hydrator.
func (f *Fieldset) SetHydrator(h hydrator.Hydrator) { f.hydrator = h }

// Object returns the bound object, or nil.
func (f *Fieldset) Object() any { return f.object }

// Bind attaches obj and populates the children from its current values.
func (f *Fieldset) Bind(obj any) error {
	f.object = obj

	data, err := f.Hydrator().Extract(obj)
	if err != nil {
		return fmt.Errorf("bind %q: %w", f.Name(), err)
	}

	return f.Populate(data)
}

// Populate sets child values from data. Nested maps populate child
// containers; keys without a child are ignored.
func (f *Fieldset) Populate(data map[string]any) error {
	for name, el := range f.children.All() {
		v, ok := data[name]
		if !ok {
			continue
		}

		if c, isContainer := el.(Container); isContainer {
			if err := populateContainer(c, v); err != nil {
				return err
			}

			continue
		}

		el.SetValue(v)
	}

	return nil
}

func populateContainer(c Container, v any) error {
	if v == nil {
		return nil
	}

	if m, ok := v.(map[string]any); ok {
		return c.Populate(m)
	}

	rv := reflect.Indirect(reflect.ValueOf(v))

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}

		m := make(map[string]any, rv.Len())
		for i := range rv.Len() {
			m[strconv.Itoa(i)] = rv.Index(i).Interface()
		}

		return c.Populate(m)
	case reflect.Struct:
		data, err := c.Hydrator().Extract(v)
		if err != nil {
			return fmt.Errorf("populate %q: %w", c.Name(), err)
		}

		return c.Populate(data)
	case reflect.Invalid:
		return nil
	default:
		return fmt.Errorf("populate %q: expected a map, a list or an object, got %T", c.Name(), v)
	}
}

// Data returns the current values of the subtree keyed by child name.
func (f *Fieldset) Data() map[string]any {
	out := make(map[string]any, f.children.Len())

	for name, el := range f.children.All() {
		if l, ok := el.(interface{ List() []any }); ok {
			out[name] = l.List()

			continue
		}

		if c, ok := el.(Container); ok {
			out[name] = c.Data()

			continue
		}

		out[name] = el.Value()
	}

	return out
}

// Hydrate writes the current values back into the bound object.
func (f *Fieldset) Hydrate() error {
	if f.object == nil {
		return fmt.Errorf("hydrate %q: no object bound", f.Name())
	}

	return f.Hydrator().Hydrate(f.Data(), f.object)
}
