package form

import (
	"slices"

	"formspec/inputfilter"
)

// Form is the root fieldset. It owns the validation tree.
type Form struct {
	*Fieldset

	inputFilter     inputfilter.Container
	validationGroup []string
}

// NewForm returns an empty form.
func NewForm(name string) *Form {
	return &Form{Fieldset: newFieldset("form", name)}
}

// InputFilter returns the validation tree, or nil.
func (f *Form) InputFilter() inputfilter.Container { return f.inputFilter }

// SetInputFilter sets the validation tree.
func (f *Form) SetInputFilter(in inputfilter.Container) { f.inputFilter = in }

// ValidationGroup returns the members validation is restricted to, or nil.
func (f *Form) ValidationGroup() []string { return slices.Clone(f.validationGroup) }

// SetValidationGroup restricts validation to the named members.
func (f *Form) SetValidationGroup(names ...string) { f.validationGroup = slices.Clone(names) }
