// Package ledger provides an insertion-ordered container that iterates its
// values by priority.
//
// A Ledger keys values by name and remembers, for each key, the slot it was
// first inserted into. Iteration yields higher priorities first; equal
// priorities keep insertion order. Updating an existing key keeps its slot,
// while removing and re-inserting a key appends it.
//
// In Declared ordering mode priorities are ignored and iteration follows the
// insertion slots alone.
//
// A Ledger is not safe for concurrent use.
package ledger

import (
	"cmp"
	"iter"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"formspec/internal/common"
)

// Ordering selects how a Ledger orders iteration.
type Ordering int

const (
	// ByPriority iterates higher priorities first, ties in insertion order.
	ByPriority Ordering = iota
	// Declared iterates in insertion order and ignores priorities.
	Declared
)

// String returns a human-readable ordering name.
func (o Ordering) String() string {
	switch o {
	case ByPriority:
		return "priority"
	case Declared:
		return "declared"
	default:
		return common.UnknownStr
	}
}

type entry[V any] struct {
	value    V
	priority int
}

// Ledger associates keys with values and explicit priorities.
type Ledger[K comparable, V any] struct {
	entries  *orderedmap.OrderedMap[K, entry[V]]
	ordering Ordering
}

// New creates an empty Ledger with the given ordering.
func New[K comparable, V any](ordering Ordering) *Ledger[K, V] {
	return &Ledger[K, V]{
		entries:  orderedmap.New[K, entry[V]](),
		ordering: ordering,
	}
}

// Ordering returns the iteration policy of the ledger.
func (l *Ledger[K, V]) Ordering() Ordering {
	return l.ordering
}

// SetOrdering changes the iteration policy. Slots and priorities are kept.
func (l *Ledger[K, V]) SetOrdering(o Ordering) {
	l.ordering = o
}

// Insert stores value under key with the given priority. An existing key is
// updated in place and keeps its insertion slot.
func (l *Ledger[K, V]) Insert(key K, value V, priority int) {
	l.entries.Set(key, entry[V]{value: value, priority: priority})
}

// Get returns the value stored under key.
func (l *Ledger[K, V]) Get(key K) (V, bool) {
	e, ok := l.entries.Get(key)
	return e.value, ok
}

// Priority returns the priority stored under key.
func (l *Ledger[K, V]) Priority(key K) (int, bool) {
	e, ok := l.entries.Get(key)
	return e.priority, ok
}

// Has reports whether key is present.
func (l *Ledger[K, V]) Has(key K) bool {
	_, ok := l.entries.Get(key)
	return ok
}

// Remove deletes key and reports whether it was present.
func (l *Ledger[K, V]) Remove(key K) bool {
	_, ok := l.entries.Delete(key)
	return ok
}

// Len returns the number of entries.
func (l *Ledger[K, V]) Len() int {
	if l == nil {
		return 0
	}

	return l.entries.Len()
}

// All returns the key/value pairs in iteration order. The order is computed
// when iteration starts, so the sequence can be ranged over repeatedly.
func (l *Ledger[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if l == nil {
			return
		}

		for _, p := range l.ordered() {
			if !yield(p.Key, p.Value.value) {
				return
			}
		}
	}
}

// Values returns the values in iteration order.
func (l *Ledger[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range l.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Keys returns a snapshot of the keys in iteration order.
func (l *Ledger[K, V]) Keys() []K {
	keys := make([]K, 0, l.Len())
	for k := range l.All() {
		keys = append(keys, k)
	}

	return keys
}

func (l *Ledger[K, V]) ordered() []*orderedmap.Pair[K, entry[V]] {
	pairs := make([]*orderedmap.Pair[K, entry[V]], 0, l.entries.Len())
	for p := l.entries.Oldest(); p != nil; p = p.Next() {
		pairs = append(pairs, p)
	}

	if l.ordering == Declared {
		return pairs
	}

	// Stable sort keeps insertion order among equal priorities.
	slices.SortStableFunc(pairs, func(a, b *orderedmap.Pair[K, entry[V]]) int {
		return cmp.Compare(b.Value.priority, a.Value.priority)
	})

	return pairs
}
