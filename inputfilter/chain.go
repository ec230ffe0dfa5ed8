package inputfilter

import (
	"iter"

	"formspec/ledger"
)

// Filter is one recorded filter.
type Filter struct {
	Name    string
	Options map[string]any
}

// Validator is one recorded validator.
type Validator struct {
	Name                string
	Options             map[string]any
	BreakChainOnFailure bool
}

// chain keeps entries in priority order, ties in attach order.
type chain[T any] struct {
	entries *ledger.Ledger[int, T]
	next    int
}

func newChain[T any]() chain[T] {
	return chain[T]{entries: ledger.New[int, T](ledger.ByPriority)}
}

func (c *chain[T]) attach(v T, priority int) {
	c.entries.Insert(c.next, v, priority)
	c.next++
}

// FilterChain is a priority-ordered list of filters.
type FilterChain struct {
	chain[Filter]
}

// NewFilterChain returns an empty chain.
func NewFilterChain() *FilterChain {
	return &FilterChain{chain: newChain[Filter]()}
}

// Attach appends a filter with the given priority.
func (c *FilterChain) Attach(f Filter, priority int) { c.attach(f, priority) }

// All iterates filters, highest priority first.
func (c *FilterChain) All() iter.Seq[Filter] { return c.entries.Values() }

// Len returns the number of filters.
func (c *FilterChain) Len() int { return c.entries.Len() }

// Names returns the filter names in chain order.
func (c *FilterChain) Names() []string {
	names := make([]string, 0, c.Len())
	for f := range c.All() {
		names = append(names, f.Name)
	}

	return names
}

// ValidatorChain is a priority-ordered list of validators.
type ValidatorChain struct {
	chain[Validator]
}

// NewValidatorChain returns an empty chain.
func NewValidatorChain() *ValidatorChain {
	return &ValidatorChain{chain: newChain[Validator]()}
}

// Attach appends a validator with the given priority.
func (c *ValidatorChain) Attach(v Validator, priority int) { c.attach(v, priority) }

// All iterates validators, highest priority first.
func (c *ValidatorChain) All() iter.Seq[Validator] { return c.entries.Values() }

// Len returns the number of validators.
func (c *ValidatorChain) Len() int { return c.entries.Len() }

// Names returns the validator names in chain order.
func (c *ValidatorChain) Names() []string {
	names := make([]string, 0, c.Len())
	for v := range c.All() {
		names = append(names, v.Name)
	}

	return names
}
