package builder

import (
	"fmt"
	"slices"

	"formspec/annotation"
	"formspec/diagnostic"
	"formspec/spec"
)

// levelItems are the property items declared by one hierarchy level.
type levelItems struct {
	level annotation.ClassRef
	items []annotation.Item
}

// propertyMeta is the merged metadata of one member across the hierarchy.
type propertyMeta struct {
	name string
	typ  string

	attributes *annotation.Values
	options    *annotation.Values
	flags      *annotation.Values
	priority   *int

	required        *bool
	allowEmpty      *bool
	continueIfEmpty *bool
	errorMessage    *string
	noInput         bool
	excluded        bool

	inputType       string
	inputFilterType string
	filters         []annotation.Filter
	validators      []annotation.Validator

	compose         *annotation.ComposedObject
	hydrator        *annotation.Hydrator
	object          string
	validationGroup []string

	custom []annotation.Item
}

// propertyLevels collects the member's items per level, descendant first,
// rejecting legacy shapes before anything is interpreted.
func (s *session) propertyLevels(levels []annotation.ClassRef, m annotation.Member) ([]levelItems, error) {
	var out []levelItems

	for _, level := range levels {
		items, err := s.b.provider.PropertyMetadata(level, m.Name)
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			continue
		}

		if err := rejectLegacy(items, location(level.String(), m.Name)); err != nil {
			return nil, err
		}

		out = append(out, levelItems{level: level, items: items})
	}

	return out, nil
}

// mergeProperty folds levels from the most-ancestral to the most-derived.
// Single values and map keys of a descendant win; filter and validator lists
// come from the most-derived level declaring any.
func mergeProperty(levels []levelItems, member string) (*propertyMeta, error) {
	pm := &propertyMeta{}

	for i := len(levels) - 1; i >= 0; i-- {
		class := levels[i].level.String()

		var (
			filters    []annotation.Filter
			validators []annotation.Validator
		)

		for _, it := range levels[i].items {
			if err := pm.apply(it, class, member, &filters, &validators); err != nil {
				return nil, err
			}
		}

		if len(filters) > 0 {
			pm.filters = filters
		}

		if len(validators) > 0 {
			pm.validators = validators
		}
	}

	return pm, nil
}

func (pm *propertyMeta) apply(
	it annotation.Item, class, member string,
	filters *[]annotation.Filter, validators *[]annotation.Validator,
) error {
	var err error

	switch it.Kind {
	case annotation.KindName:
		pm.name, err = as[string](it, class, member)
	case annotation.KindType:
		pm.typ, err = as[string](it, class, member)
	case annotation.KindAttributes:
		var v *annotation.Values
		if v, err = valuesOf(it, class, member); err == nil {
			pm.attributes = annotation.MergeValues(pm.attributes, v)
		}
	case annotation.KindOptions:
		var v *annotation.Values
		if v, err = valuesOf(it, class, member); err == nil {
			pm.options = annotation.MergeValues(pm.options, v)
		}
	case annotation.KindFlags:
		var f annotation.Flags
		if f, err = as[annotation.Flags](it, class, member); err == nil {
			if f.Priority != nil {
				pm.priority = f.Priority
			}

			if f.Required != nil {
				pm.required = f.Required
			}

			if f.Extra != nil {
				pm.flags = annotation.MergeValues(pm.flags, f.Extra)
			}
		}
	case annotation.KindRequired:
		pm.required, err = boolOf(it, class, member)
	case annotation.KindAllowEmpty:
		pm.allowEmpty, err = boolOf(it, class, member)
	case annotation.KindContinueIfEmpty:
		pm.continueIfEmpty, err = boolOf(it, class, member)
	case annotation.KindErrorMessage:
		var msg string
		if msg, err = as[string](it, class, member); err == nil {
			pm.errorMessage = &msg
		}
	case annotation.KindExclude:
		pm.excluded = true
	case annotation.KindNoInput:
		var b *bool
		if b, err = boolOf(it, class, member); err == nil {
			pm.noInput = *b
		}
	case annotation.KindInput:
		var o annotation.InputOverride
		if o, err = as[annotation.InputOverride](it, class, member); err == nil {
			pm.inputType = o.Type
		}
	case annotation.KindInputFilter:
		var o annotation.InputFilterOverride
		if o, err = as[annotation.InputFilterOverride](it, class, member); err == nil {
			pm.inputFilterType = o.Type
		}
	case annotation.KindFilter:
		var f annotation.Filter
		if f, err = as[annotation.Filter](it, class, member); err == nil {
			*filters = append(*filters, f)
		}
	case annotation.KindValidator:
		var v annotation.Validator
		if v, err = as[annotation.Validator](it, class, member); err == nil {
			*validators = append(*validators, v)
		}
	case annotation.KindComposedObject:
		var c annotation.ComposedObject
		if c, err = as[annotation.ComposedObject](it, class, member); err == nil {
			pm.compose = &c
		}
	case annotation.KindHydrator:
		var h annotation.Hydrator
		if h, err = as[annotation.Hydrator](it, class, member); err == nil {
			pm.hydrator = &h
		}
	case annotation.KindObject:
		pm.object, err = as[string](it, class, member)
	case annotation.KindValidationGroup:
		var g annotation.ValidationGroup
		if g, err = as[annotation.ValidationGroup](it, class, member); err == nil {
			pm.validationGroup = slices.Clone(g.Fields)
		}
	default:
		pm.custom = append(pm.custom, it)
	}

	return err
}

func boolOf(it annotation.Item, class, member string) (*bool, error) {
	b, err := as[bool](it, class, member)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// assembleMember builds the node of one member: an element, or a fieldset or
// collection when the member composes another class.
func (s *session) assembleMember(
	ref annotation.ClassRef, m annotation.Member, pm *propertyMeta,
) (*spec.ElementSpec, error) {
	var (
		node *spec.ElementSpec
		err  error
	)

	if pm.compose != nil {
		node, err = s.compose(ref, m, pm)
	} else {
		node = s.assembleElement(ref, m, pm)
	}

	if err != nil {
		return nil, err
	}

	if err := s.applyCustom(node, pm.custom, ref.String(), m.Name); err != nil {
		return nil, err
	}

	return node, nil
}

func elementName(m annotation.Member, pm *propertyMeta) string {
	if pm.name != "" {
		return pm.name
	}

	return m.ElementName
}

// assembleElement builds a plain element and its input.
func (s *session) assembleElement(ref annotation.ClassRef, m annotation.Member, pm *propertyMeta) *spec.ElementSpec {
	node := spec.NewElement(elementName(m, pm))

	if pm.typ != "" {
		node.Type = pm.typ
	}

	node.Attributes = annotation.MergeValues(node.Attributes, pm.attributes)
	node.Options = annotation.MergeValues(node.Options, pm.options)
	node.Flags = annotation.CloneValues(pm.flags)

	if pm.priority != nil {
		node.Priority = *pm.priority
	}

	s.ignore(pm.hydrator != nil, annotation.KindHydrator, ref, m)
	s.ignore(pm.object != "", annotation.KindObject, ref, m)
	s.ignore(pm.validationGroup != nil, annotation.KindValidationGroup, ref, m)

	s.assembleInput(node, pm)

	return node
}

// ignore records an item that has no meaning where it was declared.
func (s *session) ignore(present bool, kind annotation.Kind, ref annotation.ClassRef, m annotation.Member) {
	if !present {
		return
	}

	s.diags.AddWarning(diagnostic.CodeIgnoredItem,
		fmt.Sprintf("%q has no effect on this member", kind), ref.String(), m.Name)
}
