package builder

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"formspec/annotation"
	"formspec/diagnostic"
	"formspec/internal/naming"
	"formspec/spec"
)

// classMeta is the merged class-level metadata of a hierarchy.
type classMeta struct {
	excluded []string
	custom   []annotation.Item
	// declared records the level that last set a single-valued kind.
	declared map[annotation.Kind]annotation.ClassRef
}

func (m *classMeta) excludes(member annotation.Member) bool {
	return slices.Contains(m.excluded, member.Name) || slices.Contains(m.excluded, member.ElementName)
}

// assembleClass builds the container node of a class. kind is the node kind
// used unless a type item selects another.
func (s *session) assembleClass(ref annotation.ClassRef, kind spec.NodeKind) (*spec.ElementSpec, error) {
	if i := slices.Index(s.stack, ref); i >= 0 {
		path := make([]string, 0, len(s.stack)-i+1)
		for _, c := range s.stack[i:] {
			path = append(path, c.String())
		}

		return nil, &annotation.CompositionCycleError{Path: append(path, ref.String())}
	}

	s.stack = append(s.stack, ref)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	s.b.logger.Debug("assembling class", zap.Stringer("class", ref), zap.Int("depth", len(s.stack)))

	p := s.b.provider

	ancestors, err := p.Hierarchy(ref)
	if err != nil {
		return nil, err
	}

	levels := append([]annotation.ClassRef{ref}, ancestors...)

	node := spec.NewContainer(naming.LowerCamel(ref.Name), kind, s.ordering)
	node.Class = ref

	meta := &classMeta{declared: make(map[annotation.Kind]annotation.ClassRef)}

	// most-ancestral first so that descendants overwrite
	for i := len(levels) - 1; i >= 0; i-- {
		items, err := p.ClassMetadata(levels[i])
		if err != nil {
			return nil, err
		}

		if err := rejectLegacy(items, levels[i].String()); err != nil {
			return nil, err
		}

		if err := checkTypeConflict(levels[i], items); err != nil {
			return nil, err
		}

		for _, it := range items {
			if err := s.applyClassItem(node, meta, levels[i], it); err != nil {
				return nil, err
			}
		}
	}

	if err := s.applyCustom(node, meta.custom, ref.String(), ""); err != nil {
		return nil, err
	}

	members, err := p.Members(ref)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		levelItems, err := s.propertyLevels(levels, m)
		if err != nil {
			return nil, err
		}

		if meta.excludes(m) {
			continue
		}

		pm, err := mergeProperty(levelItems, m.Name)
		if err != nil {
			return nil, err
		}

		if pm.excluded {
			continue
		}

		child, err := s.assembleMember(ref, m, pm)
		if err != nil {
			return nil, err
		}

		s.attach(node, child, ref)
	}

	for _, name := range node.ValidationGroup {
		if !node.Children.Has(name) {
			s.diags.AddWarning(diagnostic.CodeUnboundGroup,
				fmt.Sprintf("validation group names %q, which is not a member", name), ref.String(), "")
		}
	}

	return node, nil
}

// checkTypeConflict rejects two different type overrides on one level.
func checkTypeConflict(level annotation.ClassRef, items []annotation.Item) error {
	var types []string

	for _, it := range items {
		if it.Kind != annotation.KindType {
			continue
		}

		t, _ := it.Payload.(string)
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}

	if len(types) > 1 {
		return &annotation.AmbiguousTypeError{Class: level.String(), Types: types}
	}

	return nil
}

func (s *session) applyClassItem(
	node *spec.ElementSpec, meta *classMeta, level annotation.ClassRef, it annotation.Item,
) error {
	class := level.String()

	switch it.Kind {
	case annotation.KindName, annotation.KindType, annotation.KindHydrator, annotation.KindInputFilter:
		s.noteOverride(meta, level, it.Kind)
	}

	switch it.Kind {
	case annotation.KindName:
		name, err := as[string](it, class, "")
		if err != nil {
			return err
		}

		node.Name = name
		node.Input.Name = name
	case annotation.KindType:
		typ, err := as[string](it, class, "")
		if err != nil {
			return err
		}

		setType(node, typ)
	case annotation.KindAttributes:
		v, err := valuesOf(it, class, "")
		if err != nil {
			return err
		}

		node.Attributes = annotation.MergeValues(node.Attributes, v)
	case annotation.KindOptions:
		v, err := valuesOf(it, class, "")
		if err != nil {
			return err
		}

		node.Options = annotation.MergeValues(node.Options, v)
	case annotation.KindFlags:
		f, err := as[annotation.Flags](it, class, "")
		if err != nil {
			return err
		}

		if f.Priority != nil {
			node.Priority = *f.Priority
		}

		if f.Extra != nil {
			node.Flags = annotation.MergeValues(node.Flags, f.Extra)
		}
	case annotation.KindValidationGroup:
		g, err := as[annotation.ValidationGroup](it, class, "")
		if err != nil {
			return err
		}

		node.ValidationGroup = slices.Clone(g.Fields)
	case annotation.KindExclude:
		ex, err := as[annotation.Exclude](it, class, "")
		if err != nil {
			return err
		}

		meta.excluded = append(meta.excluded, ex.Fields...)
	case annotation.KindHydrator:
		h, err := as[annotation.Hydrator](it, class, "")
		if err != nil {
			return err
		}

		node.Hydrator = s.hydratorSpec(h, class, "")
	case annotation.KindInputFilter:
		o, err := as[annotation.InputFilterOverride](it, class, "")
		if err != nil {
			return err
		}

		node.Input.Type = o.Type
	case annotation.KindObject:
		obj, err := as[string](it, class, "")
		if err != nil {
			return err
		}

		return s.bindObject(node, obj, class, "")
	case annotation.KindRequired, annotation.KindAllowEmpty, annotation.KindContinueIfEmpty,
		annotation.KindErrorMessage, annotation.KindNoInput, annotation.KindComposedObject,
		annotation.KindInput, annotation.KindFilter, annotation.KindValidator:
		s.diags.AddWarning(diagnostic.CodeIgnoredItem,
			fmt.Sprintf("%q is a property item and has no effect on a class", it.Kind), class, "")
	default:
		meta.custom = append(meta.custom, it)
	}

	return nil
}

// noteOverride reports a single-valued class item that replaces the one an
// ancestor declared.
func (s *session) noteOverride(meta *classMeta, level annotation.ClassRef, kind annotation.Kind) {
	if prev, ok := meta.declared[kind]; ok && prev != level {
		s.diags.AddInfo(diagnostic.CodeInheritedOverride,
			fmt.Sprintf("%q declared on %s is overridden", kind, prev), level.String(), "")
	}

	meta.declared[kind] = level
}

// hydratorSpec copies h, warning when no hydrator of that type is registered.
func (s *session) hydratorSpec(h annotation.Hydrator, class, member string) *spec.HydratorSpec {
	if !s.b.hydrators.Has(h.Type) {
		s.diags.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityWarning,
			Code:        diagnostic.CodeUnknownHydrator,
			Message:     fmt.Sprintf("no hydrator registered as %q", h.Type),
			Class:       class,
			Member:      member,
			Suggestions: naming.Suggest(h.Type, s.b.hydrators.IDs(), 3),
		})
	}

	return &spec.HydratorSpec{Type: h.Type, Options: annotation.CloneValues(h.Options)}
}

// setType applies a type override. "form" and "fieldset" also select the
// node kind; other identifiers keep it.
func setType(node *spec.ElementSpec, typ string) {
	node.Type = typ

	switch typ {
	case spec.TypeForm:
		node.Kind = spec.NodeForm
	case spec.TypeFieldset:
		node.Kind = spec.NodeFieldset
	}
}

// bindObject instantiates class and binds it to node.
func (s *session) bindObject(node *spec.ElementSpec, class, where, member string) error {
	inst, ok := s.b.provider.(annotation.Instantiator)
	if !ok {
		s.diags.AddWarning(diagnostic.CodeMissingObject,
			fmt.Sprintf("provider cannot instantiate %q", class), where, member)

		return nil
	}

	ref, err := s.b.provider.Lookup(class)
	if err != nil {
		return err
	}

	obj, err := inst.NewInstance(ref)
	if err != nil {
		return err
	}

	node.Object = obj

	return nil
}

// applyCustom runs kind handlers, or reports kinds nobody handles.
func (s *session) applyCustom(node *spec.ElementSpec, items []annotation.Item, class, member string) error {
	for _, it := range items {
		h, ok := s.b.handlers[it.Kind]
		if !ok {
			s.diags.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.SeverityWarning,
				Code:        diagnostic.CodeUnknownKind,
				Message:     fmt.Sprintf("unknown metadata kind %q", it.Kind),
				Class:       class,
				Member:      member,
				Suggestions: naming.Suggest(string(it.Kind), s.b.knownKinds(), 3),
			})

			continue
		}

		if err := h(node, it); err != nil {
			return fmt.Errorf("kind %q on %s: %w", it.Kind, location(class, member), err)
		}
	}

	return nil
}

func (b *Builder) knownKinds() []string {
	var kinds []string
	for _, k := range annotation.DefaultKinds().Kinds() {
		kinds = append(kinds, string(k))
	}

	for k := range b.handlers {
		kinds = append(kinds, string(k))
	}

	return kinds
}

func location(class, member string) string {
	if member == "" {
		return class
	}

	return class + "." + member
}

// attach inserts child into node, merging into an existing sibling of the
// same name.
func (s *session) attach(node, child *spec.ElementSpec, ref annotation.ClassRef) {
	if existing, ok := node.Children.Get(child.Name); ok {
		s.diags.AddWarning(diagnostic.CodeNameCollision,
			fmt.Sprintf("element %q is declared twice; later declaration merged into the first", child.Name),
			ref.String(), child.Name)

		mergeSibling(existing, child)
		child = existing
	}

	node.Children.Insert(child.Name, child, child.Priority)

	if child.Input != nil {
		node.Input.Inputs.Insert(child.Name, child.Input, child.Priority)
	} else {
		node.Input.Inputs.Remove(child.Name)
	}
}

// mergeSibling folds later into earlier: maps key by key, everything else
// replaced.
func mergeSibling(earlier, later *spec.ElementSpec) {
	attrs := annotation.MergeValues(earlier.Attributes, later.Attributes)
	opts := annotation.MergeValues(earlier.Options, later.Options)
	flags := earlier.Flags

	if later.Flags != nil {
		flags = annotation.MergeValues(flags, later.Flags)
	}

	*earlier = *later
	earlier.Attributes = attrs
	earlier.Options = opts
	earlier.Flags = flags
}
