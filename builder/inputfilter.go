package builder

import (
	"formspec/annotation"
	"formspec/spec"
)

// assembleInput derives the input of an element from the merged metadata.
// Required defaults to false. AllowEmpty defaults to true, or to false when
// the input is required. ContinueIfEmpty defaults to true.
func (s *session) assembleInput(node *spec.ElementSpec, pm *propertyMeta) {
	if pm.noInput {
		node.Input = nil

		return
	}

	in := node.Input
	in.Name = node.Name
	in.Priority = node.Priority

	switch {
	case pm.inputType != "":
		in.Type = pm.inputType
	case pm.inputFilterType != "":
		in.Type = pm.inputFilterType
	}

	in.Required = pm.required != nil && *pm.required

	switch {
	case pm.allowEmpty != nil:
		in.AllowEmpty = *pm.allowEmpty
	case in.Required:
		in.AllowEmpty = false
	}

	if pm.continueIfEmpty != nil {
		in.ContinueIfEmpty = *pm.continueIfEmpty
	}

	if pm.errorMessage != nil {
		in.ErrorMessage = *pm.errorMessage
	}

	for _, f := range pm.filters {
		in.Filters = append(in.Filters, spec.FilterSpec{
			Name:     f.Name,
			Options:  annotation.CloneValues(f.Options),
			Priority: priorityOr(f.Priority),
		})
	}

	for _, v := range pm.validators {
		in.Validators = append(in.Validators, spec.ValidatorSpec{
			Name:                v.Name,
			Options:             annotation.CloneValues(v.Options),
			BreakChainOnFailure: v.BreakChainOnFailure,
			Priority:            priorityOr(v.Priority),
		})
	}
}

func priorityOr(p *int) int {
	if p == nil {
		return spec.DefaultPriority
	}

	return *p
}

// hasInputItems reports whether pm declares anything only an element input uses.
func (pm *propertyMeta) hasInputItems() bool {
	return pm.allowEmpty != nil || pm.continueIfEmpty != nil || pm.errorMessage != nil ||
		pm.inputType != "" || len(pm.filters) > 0 || len(pm.validators) > 0
}
