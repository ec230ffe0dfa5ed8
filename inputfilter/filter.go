package inputfilter

import (
	"iter"

	"formspec/ledger"
)

// Container is an entry holding ordered child entries.
type Container interface {
	Entry

	Add(e Entry, priority int)
	Has(name string) bool
	Get(name string) (Entry, bool)
	Remove(name string) bool
	All() iter.Seq2[string, Entry]
	Len() int
	SetOrdering(o ledger.Ordering)
}

// InputFilter is the default Container.
type InputFilter struct {
	name    string
	typ     string
	entries *ledger.Ledger[string, Entry]
}

// NewInputFilter returns an empty input filter ordered by priority.
func NewInputFilter(name string) *InputFilter {
	return newInputFilter("input_filter", name)
}

func newInputFilter(typ, name string) *InputFilter {
	return &InputFilter{
		name:    name,
		typ:     typ,
		entries: ledger.New[string, Entry](ledger.ByPriority),
	}
}

func (f *InputFilter) Name() string { return f.name }

func (f *InputFilter) Type() string { return f.typ }

// Add inserts e under its name, replacing an entry with the same name in place.
func (f *InputFilter) Add(e Entry, priority int) { f.entries.Insert(e.Name(), e, priority) }

func (f *InputFilter) Has(name string) bool { return f.entries.Has(name) }

func (f *InputFilter) Get(name string) (Entry, bool) { return f.entries.Get(name) }

func (f *InputFilter) Remove(name string) bool { return f.entries.Remove(name) }

// All iterates entries in ledger order.
func (f *InputFilter) All() iter.Seq2[string, Entry] { return f.entries.All() }

func (f *InputFilter) Len() int { return f.entries.Len() }

func (f *InputFilter) SetOrdering(o ledger.Ordering) { f.entries.SetOrdering(o) }

// Input returns the child input called name.
func (f *InputFilter) Input(name string) (Input, bool) {
	e, ok := f.entries.Get(name)
	if !ok {
		return nil, false
	}

	in, ok := e.(Input)

	return in, ok
}

// CollectionInputFilter validates every entry of a collection with the same
// target input filter.
type CollectionInputFilter struct {
	*InputFilter

	target   Container
	count    int
	required bool
}

// NewCollectionInputFilter returns a collection input filter without target.
func NewCollectionInputFilter(name string) *CollectionInputFilter {
	return &CollectionInputFilter{InputFilter: newInputFilter("collection", name)}
}

// Target returns the per-entry input filter.
func (c *CollectionInputFilter) Target() Container { return c.target }

// SetTarget sets the per-entry input filter.
func (c *CollectionInputFilter) SetTarget(target Container) { c.target = target }

// Count returns the expected number of entries, 0 for any.
func (c *CollectionInputFilter) Count() int { return c.count }

func (c *CollectionInputFilter) SetCount(n int) { c.count = n }

// IsRequired reports whether at least one entry is required.
func (c *CollectionInputFilter) IsRequired() bool { return c.required }

func (c *CollectionInputFilter) SetRequired(v bool) { c.required = v }
