package form

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cast"
)

// Collection options understood by SetOption.
const (
	OptionCount                = "count"
	OptionShouldCreateTemplate = "should_create_template"
	OptionAllowAdd             = "allow_add"
	OptionAllowRemove          = "allow_remove"
	OptionTemplatePlaceholder  = "template_placeholder"
)

// DefaultTemplatePlaceholder names the template entry of a collection.
const DefaultTemplatePlaceholder = "__index__"

// EntryFactory builds one fresh collection entry.
type EntryFactory func(name string) (Container, error)

// Collection repeats a target fieldset once per entry.
type Collection struct {
	*Fieldset

	target      Container
	newEntry    EntryFactory
	count       int
	template    bool
	allowAdd    bool
	allowRemove bool
	placeholder string
}

// NewCollection returns an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{
		Fieldset:    newFieldset("collection", name),
		count:       1,
		allowAdd:    true,
		allowRemove: true,
		placeholder: DefaultTemplatePlaceholder,
	}
}

// TargetElement returns the template fieldset.
func (c *Collection) TargetElement() Container { return c.target }

// SetTargetElement sets the template fieldset.
func (c *Collection) SetTargetElement(target Container) { c.target = target }

// SetEntryFactory sets how entries are built.
func (c *Collection) SetEntryFactory(fn EntryFactory) { c.newEntry = fn }

// Count returns the number of entries created up front.
func (c *Collection) Count() int { return c.count }

// ShouldCreateTemplate reports whether a template entry is rendered.
func (c *Collection) ShouldCreateTemplate() bool { return c.template }

// AllowAdd reports whether populating may create entries beyond Count.
func (c *Collection) AllowAdd() bool { return c.allowAdd }

// AllowRemove reports whether populating may drop entries.
func (c *Collection) AllowRemove() bool { return c.allowRemove }

// TemplatePlaceholder returns the name of the template entry.
func (c *Collection) TemplatePlaceholder() string { return c.placeholder }

// SetOption sets an option. Collection options also update the collection.
func (c *Collection) SetOption(key string, value any) {
	c.Basic.SetOption(key, value)

	switch key {
	case OptionCount:
		c.count = cast.ToInt(value)
	case OptionShouldCreateTemplate:
		c.template = cast.ToBool(value)
	case OptionAllowAdd:
		c.allowAdd = cast.ToBool(value)
	case OptionAllowRemove:
		c.allowRemove = cast.ToBool(value)
	case OptionTemplatePlaceholder:
		c.placeholder = cast.ToString(value)
	}
}

// Prepare creates the first Count entries.
func (c *Collection) Prepare() error {
	for i := range c.count {
		if _, err := c.entry(strconv.Itoa(i)); err != nil {
			return err
		}
	}

	return nil
}

// Template returns a fresh entry named after the template placeholder.
func (c *Collection) Template() (Container, error) {
	if c.newEntry == nil {
		return nil, fmt.Errorf("collection %q: no entry factory", c.Name())
	}

	return c.newEntry(c.placeholder)
}

func (c *Collection) entry(name string) (Container, error) {
	if el, ok := c.Get(name); ok {
		if ct, isContainer := el.(Container); isContainer {
			return ct, nil
		}
	}

	if c.newEntry == nil {
		return nil, fmt.Errorf("collection %q: no entry factory", c.Name())
	}

	ct, err := c.newEntry(name)
	if err != nil {
		return nil, err
	}

	c.Add(ct, 0)

	return ct, nil
}

// Populate creates and fills one entry per key of data.
func (c *Collection) Populate(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, compareEntryKeys)

	if !c.allowAdd {
		for _, k := range keys {
			if !c.Has(k) {
				return fmt.Errorf("collection %q: entry %q exceeds count %d and adding is not allowed",
					c.Name(), k, c.count)
			}
		}
	}

	if c.allowRemove {
		var stale []string

		for name := range c.All() {
			if _, ok := data[name]; !ok {
				stale = append(stale, name)
			}
		}

		for _, name := range stale {
			c.Remove(name)
		}
	}

	for _, k := range keys {
		ct, err := c.entry(k)
		if err != nil {
			return err
		}

		if err := populateContainer(ct, data[k]); err != nil {
			return err
		}
	}

	return nil
}

// List returns the entry values in entry order.
func (c *Collection) List() []any {
	out := make([]any, 0, c.Len())

	for _, el := range c.All() {
		if ct, ok := el.(Container); ok {
			out = append(out, ct.Data())
		}
	}

	return out
}

// compareEntryKeys orders numeric keys numerically, others lexically after them.
func compareEntryKeys(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)

	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(ai, bi)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
