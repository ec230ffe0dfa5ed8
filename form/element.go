package form

import (
	"fmt"

	"formspec/annotation"
)

// Element is a named presentation node with attributes and options.
type Element interface {
	Name() string
	SetName(name string)
	Type() string

	Attributes() *annotation.Values
	Attribute(key string) (any, bool)
	SetAttribute(key string, value any)

	Options() *annotation.Values
	Option(key string) (any, bool)
	SetOption(key string, value any)

	Label() string
	Value() any
	SetValue(value any)
}

// Basic is a plain element.
type Basic struct {
	name       string
	typ        string
	attributes *annotation.Values
	options    *annotation.Values
	value      any
}

// NewBasic returns an element of the given type identifier.
func NewBasic(typ, name string) *Basic {
	b := &Basic{
		typ:        typ,
		attributes: annotation.NewValues(),
		options:    annotation.NewValues(),
	}

	if name != "" {
		b.SetName(name)
	}

	return b
}

// Name returns the element name.
func (b *Basic) Name() string { return b.name }

// SetName sets the name and the "name" attribute.
func (b *Basic) SetName(name string) {
	b.name = name
	b.attributes.Set("name", name)
}

// Type returns the type identifier the element was created with.
func (b *Basic) Type() string { return b.typ }

// Attributes returns the attribute map. It is live: changes are visible.
func (b *Basic) Attributes() *annotation.Values { return b.attributes }

// Attribute returns one attribute.
func (b *Basic) Attribute(key string) (any, bool) { return b.attributes.Get(key) }

// SetAttribute sets one attribute. Setting "name" renames the element.
func (b *Basic) SetAttribute(key string, value any) {
	if key == "name" {
		b.SetName(fmt.Sprint(value))

		return
	}

	b.attributes.Set(key, value)
}

// Options returns the option map.
func (b *Basic) Options() *annotation.Values { return b.options }

// Option returns one option.
func (b *Basic) Option(key string) (any, bool) { return b.options.Get(key) }

// SetOption sets one option.
func (b *Basic) SetOption(key string, value any) { b.options.Set(key, value) }

// Label returns the "label" option, or the "label" attribute.
func (b *Basic) Label() string {
	if v, ok := b.options.Get("label"); ok {
		return fmt.Sprint(v)
	}

	if v, ok := b.attributes.Get("label"); ok {
		return fmt.Sprint(v)
	}

	return ""
}

// Value returns the current value.
func (b *Basic) Value() any { return b.value }

// SetValue sets the current value.
func (b *Basic) SetValue(value any) { b.value = value }
