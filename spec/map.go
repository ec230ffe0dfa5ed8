package spec

import "formspec/annotation"

// Map returns the node as a plain nested mapping. Children keep their
// iteration order as a list under "elements". Empty fields are omitted.
func (e *ElementSpec) Map() map[string]any {
	if e == nil {
		return nil
	}

	m := map[string]any{
		"name":     e.Name,
		"kind":     e.Kind.String(),
		"type":     e.Type,
		"priority": e.Priority,
	}

	if !e.Class.IsZero() {
		m["class"] = e.Class.String()
	}

	putValues(m, "attributes", e.Attributes)
	putValues(m, "options", e.Options)
	putValues(m, "flags", e.Flags)

	if e.Children != nil {
		elements := make([]any, 0, e.Children.Len())
		for child := range e.Children.Values() {
			elements = append(elements, child.Map())
		}

		m["elements"] = elements
	}

	if e.TargetElement != nil {
		m["target_element"] = e.TargetElement.Map()
	}

	if e.Input != nil {
		m["input_filter"] = e.Input.Map()
	}

	if e.Hydrator != nil {
		h := map[string]any{"type": e.Hydrator.Type}
		putValues(h, "options", e.Hydrator.Options)
		m["hydrator"] = h
	}

	if len(e.ValidationGroup) > 0 {
		m["validation_group"] = e.ValidationGroup
	}

	if e.Object != nil {
		m["bound"] = true
	}

	return m
}

// Map returns the input as a plain nested mapping.
func (in *InputSpec) Map() map[string]any {
	if in == nil {
		return nil
	}

	m := map[string]any{
		"name": in.Name,
		"kind": string(in.Kind),
		"type": in.Type,
	}

	if in.Kind == InputSingle {
		m["required"] = in.Required
		m["allow_empty"] = in.AllowEmpty
		m["continue_if_empty"] = in.ContinueIfEmpty
	}

	if in.Kind == InputCollection {
		m["required"] = in.Required
	}

	if in.ErrorMessage != "" {
		m["error_message"] = in.ErrorMessage
	}

	if len(in.Filters) > 0 {
		filters := make([]any, len(in.Filters))
		for i, f := range in.Filters {
			fm := map[string]any{"name": f.Name, "priority": f.Priority}
			putValues(fm, "options", f.Options)
			filters[i] = fm
		}

		m["filters"] = filters
	}

	if len(in.Validators) > 0 {
		validators := make([]any, len(in.Validators))
		for i, v := range in.Validators {
			vm := map[string]any{"name": v.Name, "priority": v.Priority}
			if v.BreakChainOnFailure {
				vm["break_chain_on_failure"] = true
			}

			putValues(vm, "options", v.Options)
			validators[i] = vm
		}

		m["validators"] = validators
	}

	if in.Inputs != nil {
		inputs := make([]any, 0, in.Inputs.Len())
		for child := range in.Inputs.Values() {
			inputs = append(inputs, child.Map())
		}

		m["inputs"] = inputs
	}

	if in.Target != nil {
		m["input_filter"] = in.Target.Map()
	}

	putValues(m, "options", in.Options)

	return m
}

func putValues(m map[string]any, key string, v *annotation.Values) {
	if v == nil || v.Len() == 0 {
		return
	}

	m[key] = annotation.ValuesMap(v)
}
