package spec

import (
	"formspec/annotation"
	"formspec/diagnostic"
	"formspec/ledger"
)

// DefaultPriority is the priority of children, filters and validators that
// declare none.
const DefaultPriority = 1

// Default type identifiers per node kind.
const (
	TypeForm        = "form"
	TypeFieldset    = "fieldset"
	TypeElement     = "element"
	TypeCollection  = "collection"
	TypeInput       = "input"
	TypeInputFilter = "input_filter"
)

// Children is the ordered set of child nodes of a container.
type Children = ledger.Ledger[string, *ElementSpec]

// Inputs is the ordered set of child inputs of an input filter.
type Inputs = ledger.Ledger[string, *InputSpec]

// ElementSpec describes one presentation-tree node.
type ElementSpec struct {
	Name string
	Kind NodeKind
	// Type is the factory identifier used to realize the node.
	Type string
	// Class is the class a form, fieldset or collection template was built from.
	Class annotation.ClassRef

	Attributes *annotation.Values
	Options    *annotation.Values
	// Flags holds flags other than priority and required.
	Flags    *annotation.Values
	Priority int

	// Children is set for forms and fieldsets.
	Children *Children
	// TargetElement is the repeated template of a collection.
	TargetElement *ElementSpec

	Input           *InputSpec
	Hydrator        *HydratorSpec
	ValidationGroup []string

	// Object is the live instance bound on realization, or nil.
	Object any

	// Diagnostics is set on the root node only.
	Diagnostics *diagnostic.Diagnostics
}

// InputSpec describes one validation-tree node.
type InputSpec struct {
	Name string
	Kind InputKind
	// Type is the factory identifier used to realize the node.
	Type string

	Required        bool
	AllowEmpty      bool
	ContinueIfEmpty bool
	ErrorMessage    string

	Filters    []FilterSpec
	Validators []ValidatorSpec

	// Inputs is set for input filters.
	Inputs *Inputs
	// Target is the per-entry input filter of a collection.
	Target *InputSpec
	// Options holds collection options such as count.
	Options  *annotation.Values
	Priority int
}

// FilterSpec is one entry of a filter chain.
type FilterSpec struct {
	Name     string
	Options  *annotation.Values
	Priority int
}

// ValidatorSpec is one entry of a validator chain.
type ValidatorSpec struct {
	Name                string
	Options             *annotation.Values
	BreakChainOnFailure bool
	Priority            int
}

// HydratorSpec selects a hydrator and the options it is built with.
type HydratorSpec struct {
	Type    string
	Options *annotation.Values
}

// NewContainer returns a form or fieldset node with an empty children ledger.
func NewContainer(name string, kind NodeKind, ordering ledger.Ordering) *ElementSpec {
	typ := TypeFieldset
	if kind == NodeForm {
		typ = TypeForm
	}

	return &ElementSpec{
		Name:       name,
		Kind:       kind,
		Type:       typ,
		Attributes: annotation.NewValues(),
		Options:    annotation.NewValues(),
		Priority:   DefaultPriority,
		Children:   ledger.New[string, *ElementSpec](ordering),
		Input: &InputSpec{
			Name:     name,
			Kind:     InputFilterKind,
			Type:     TypeInputFilter,
			Inputs:   ledger.New[string, *InputSpec](ordering),
			Priority: DefaultPriority,
		},
	}
}

// NewElement returns an element node with a default input.
func NewElement(name string) *ElementSpec {
	return &ElementSpec{
		Name:       name,
		Kind:       NodeElement,
		Type:       TypeElement,
		Attributes: annotation.NewValues(),
		Options:    annotation.NewValues(),
		Priority:   DefaultPriority,
		Input: &InputSpec{
			Name:            name,
			Kind:            InputSingle,
			Type:            TypeInput,
			AllowEmpty:      true,
			ContinueIfEmpty: true,
			Priority:        DefaultPriority,
		},
	}
}

// Child returns the child called name.
func (e *ElementSpec) Child(name string) (*ElementSpec, bool) {
	if e == nil || e.Children == nil {
		return nil, false
	}

	return e.Children.Get(name)
}

// Attribute returns one attribute value.
func (e *ElementSpec) Attribute(key string) (any, bool) {
	if e == nil || e.Attributes == nil {
		return nil, false
	}

	return e.Attributes.Get(key)
}

// Input returns the child input called name.
func (in *InputSpec) Input(name string) (*InputSpec, bool) {
	if in == nil || in.Inputs == nil {
		return nil, false
	}

	return in.Inputs.Get(name)
}
