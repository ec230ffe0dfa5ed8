package builder

import (
	"errors"
	"fmt"

	"formspec/annotation"
	"formspec/diagnostic"
	"formspec/spec"
)

// compose builds the node of a member composing another class. The nested
// class is assembled first; the composing member's own items are applied on
// top of it afterwards.
func (s *session) compose(ref annotation.ClassRef, m annotation.Member, pm *propertyMeta) (*spec.ElementSpec, error) {
	target, err := s.composeTarget(ref, m, pm.compose.Target)
	if err != nil {
		return nil, err
	}

	inner, err := s.assembleClass(target, spec.NodeFieldset)
	if err != nil {
		return nil, err
	}

	if pm.hasInputItems() {
		s.diags.AddWarning(diagnostic.CodeIgnoredItem,
			"input items have no effect on a composed member", ref.String(), m.Name)
	}

	if pm.compose.IsCollection || m.Collection {
		return s.wrapCollection(ref, m, pm, inner)
	}

	name := elementName(m, pm)

	node := inner
	node.Name = name
	node.Input.Name = name

	if pm.typ != "" {
		setType(node, pm.typ)
	}

	node.Attributes = annotation.MergeValues(node.Attributes, pm.attributes)
	node.Options = annotation.MergeValues(node.Options, pm.compose.Options)
	node.Options = annotation.MergeValues(node.Options, pm.options)

	if pm.flags != nil {
		node.Flags = annotation.MergeValues(node.Flags, pm.flags)
	}

	if pm.priority != nil {
		node.Priority = *pm.priority
	}

	node.Input.Priority = node.Priority

	if pm.hydrator != nil {
		node.Hydrator = s.hydratorSpec(*pm.hydrator, ref.String(), m.Name)
	}

	if pm.inputFilterType != "" {
		node.Input.Type = pm.inputFilterType
	}

	if pm.validationGroup != nil {
		node.ValidationGroup = pm.validationGroup
	}

	if pm.object != "" {
		if err := s.bindObject(node, pm.object, ref.String(), m.Name); err != nil {
			return nil, err
		}
	}

	if pm.noInput {
		node.Input = nil
	}

	return node, nil
}

// wrapCollection makes a collection node repeating inner. Collection options
// come from the composed_object options, then from the member's options.
func (s *session) wrapCollection(
	ref annotation.ClassRef, m annotation.Member, pm *propertyMeta, inner *spec.ElementSpec,
) (*spec.ElementSpec, error) {
	name := elementName(m, pm)

	coll := &spec.ElementSpec{
		Name:          name,
		Kind:          spec.NodeCollection,
		Type:          spec.TypeCollection,
		Class:         inner.Class,
		Attributes:    annotation.MergeValues(nil, pm.attributes),
		Options:       annotation.MergeValues(annotation.CloneValues(pm.compose.Options), pm.options),
		Flags:         annotation.CloneValues(pm.flags),
		Priority:      priorityOr(pm.priority),
		TargetElement: inner,
	}

	if pm.typ != "" {
		coll.Type = pm.typ
	}

	if pm.hydrator != nil {
		inner.Hydrator = s.hydratorSpec(*pm.hydrator, ref.String(), m.Name)
	}

	s.ignore(pm.object != "", annotation.KindObject, ref, m)
	s.ignore(pm.validationGroup != nil, annotation.KindValidationGroup, ref, m)

	if pm.noInput {
		return coll, nil
	}

	coll.Input = &spec.InputSpec{
		Name:     name,
		Kind:     spec.InputCollection,
		Type:     spec.TypeCollection,
		Required: pm.required != nil && *pm.required,
		Target:   inner.Input,
		Options:  annotation.CloneValues(coll.Options),
		Priority: coll.Priority,
	}

	if pm.inputFilterType != "" {
		coll.Input.Type = pm.inputFilterType
	}

	return coll, nil
}

// composeTarget resolves the class a member composes: the named target, or
// the member's own struct type.
func (s *session) composeTarget(ref annotation.ClassRef, m annotation.Member, target string) (annotation.ClassRef, error) {
	if target == "" {
		if m.Elem.IsZero() {
			return annotation.ClassRef{}, &annotation.MetadataResolutionError{
				Class:  ref.String(),
				Member: m.Name,
				Reason: "composed_object without target on a member that is not a struct",
			}
		}

		return m.Elem, nil
	}

	resolved, err := s.b.provider.Lookup(target)
	if err != nil {
		var mre *annotation.MetadataResolutionError
		if errors.As(err, &mre) {
			return annotation.ClassRef{}, &annotation.MetadataResolutionError{
				Class:       ref.String(),
				Member:      m.Name,
				Reason:      fmt.Sprintf("unknown composed_object target %q", target),
				Suggestions: mre.Suggestions,
			}
		}

		return annotation.ClassRef{}, err
	}

	return resolved, nil
}
