package builder

import (
	"fmt"

	"github.com/spf13/cast"

	"formspec/annotation"
	"formspec/form"
	"formspec/inputfilter"
	"formspec/spec"
)

// collectionElement is what a collection node must realize to.
type collectionElement interface {
	form.Container
	SetTargetElement(target form.Container)
	SetEntryFactory(fn form.EntryFactory)
	Prepare() error
}

// collectionInput is what a collection input must realize to.
type collectionInput interface {
	inputfilter.Container
	SetTarget(target inputfilter.Container)
	SetCount(n int)
	SetRequired(v bool)
}

// Realize instantiates the presentation tree of root depth-first. Children
// are attached in ledger order and bound objects are populated. A form root
// also receives its validation tree.
func (b *Builder) Realize(root *spec.ElementSpec) (form.Element, error) {
	el, err := b.realizeElement(root)
	if err != nil {
		return nil, err
	}

	if f, ok := el.(*form.Form); ok {
		if root.Input != nil {
			in, err := b.realizeInput(root.Input)
			if err != nil {
				return nil, err
			}

			c, ok := in.(inputfilter.Container)
			if !ok {
				return nil, fmt.Errorf("builder: input filter type %q realizes %T, not a container", root.Input.Type, in)
			}

			f.SetInputFilter(c)
		}

		if len(root.ValidationGroup) > 0 {
			f.SetValidationGroup(root.ValidationGroup...)
		}
	}

	return el, nil
}

func (b *Builder) realizeElement(sp *spec.ElementSpec) (form.Element, error) {
	el, err := b.forms.Create(sp.Type, sp.Name)
	if err != nil {
		return nil, err
	}

	el.SetName(sp.Name)

	if sp.Attributes != nil {
		for p := sp.Attributes.Oldest(); p != nil; p = p.Next() {
			if p.Key != "name" {
				el.SetAttribute(p.Key, p.Value)
			}
		}
	}

	if sp.Options != nil {
		for p := sp.Options.Oldest(); p != nil; p = p.Next() {
			el.SetOption(p.Key, p.Value)
		}
	}

	switch sp.Kind {
	case spec.NodeForm, spec.NodeFieldset:
		c, ok := el.(form.Container)
		if !ok {
			return nil, fmt.Errorf("builder: type %q realizes %T, which cannot hold elements", sp.Type, el)
		}

		if err := b.realizeContainer(c, sp); err != nil {
			return nil, err
		}
	case spec.NodeCollection:
		c, ok := el.(collectionElement)
		if !ok {
			return nil, fmt.Errorf("builder: type %q realizes %T, which is not a collection", sp.Type, el)
		}

		if err := b.realizeCollection(c, sp); err != nil {
			return nil, err
		}
	}

	return el, nil
}

func (b *Builder) realizeContainer(c form.Container, sp *spec.ElementSpec) error {
	c.SetOrdering(b.ordering)

	for name, child := range sp.Children.All() {
		el, err := b.realizeElement(child)
		if err != nil {
			return err
		}

		prio, _ := sp.Children.Priority(name)
		c.Add(el, prio)
	}

	if sp.Hydrator != nil {
		h, err := b.hydrators.New(sp.Hydrator.Type, annotation.ValuesMap(sp.Hydrator.Options))
		if err != nil {
			return err
		}

		c.SetHydrator(h)
	}

	if sp.Object != nil {
		return c.Bind(sp.Object)
	}

	return nil
}

func (b *Builder) realizeCollection(coll collectionElement, sp *spec.ElementSpec) error {
	coll.SetOrdering(b.ordering)

	newTarget := func(name string) (form.Container, error) {
		el, err := b.realizeElement(sp.TargetElement)
		if err != nil {
			return nil, err
		}

		target, ok := el.(form.Container)
		if !ok {
			return nil, fmt.Errorf("builder: collection target %q is not a fieldset", sp.TargetElement.Type)
		}

		target.SetName(name)

		return target, nil
	}

	target, err := newTarget(sp.TargetElement.Name)
	if err != nil {
		return err
	}

	coll.SetTargetElement(target)
	coll.SetEntryFactory(newTarget)

	return coll.Prepare()
}

func (b *Builder) realizeInput(sp *spec.InputSpec) (inputfilter.Entry, error) {
	e, err := b.inputs.Create(sp.Type, sp.Name)
	if err != nil {
		return nil, err
	}

	switch sp.Kind {
	case spec.InputSingle:
		in, ok := e.(inputfilter.Input)
		if !ok {
			return nil, fmt.Errorf("builder: input type %q realizes %T, which is not an input", sp.Type, e)
		}

		in.SetRequired(sp.Required)
		in.SetAllowEmpty(sp.AllowEmpty)
		in.SetContinueIfEmpty(sp.ContinueIfEmpty)
		in.SetErrorMessage(sp.ErrorMessage)

		for _, f := range sp.Filters {
			in.Filters().Attach(inputfilter.Filter{Name: f.Name, Options: optionsMap(f.Options)}, f.Priority)
		}

		for _, v := range sp.Validators {
			in.Validators().Attach(inputfilter.Validator{
				Name:                v.Name,
				Options:             optionsMap(v.Options),
				BreakChainOnFailure: v.BreakChainOnFailure,
			}, v.Priority)
		}
	case spec.InputFilterKind:
		c, ok := e.(inputfilter.Container)
		if !ok {
			return nil, fmt.Errorf("builder: input filter type %q realizes %T, not a container", sp.Type, e)
		}

		c.SetOrdering(b.ordering)

		for name, child := range sp.Inputs.All() {
			ce, err := b.realizeInput(child)
			if err != nil {
				return nil, err
			}

			prio, _ := sp.Inputs.Priority(name)
			c.Add(ce, prio)
		}
	case spec.InputCollection:
		c, ok := e.(collectionInput)
		if !ok {
			return nil, fmt.Errorf("builder: collection input type %q realizes %T, not a collection input filter", sp.Type, e)
		}

		target, err := b.realizeInput(sp.Target)
		if err != nil {
			return nil, err
		}

		tc, ok := target.(inputfilter.Container)
		if !ok {
			return nil, fmt.Errorf("builder: collection target %q is not an input filter", sp.Target.Type)
		}

		c.SetTarget(tc)
		c.SetRequired(sp.Required)

		if sp.Options != nil {
			if n, ok := sp.Options.Get(form.OptionCount); ok {
				c.SetCount(cast.ToInt(n))
			}
		}
	}

	return e, nil
}

func optionsMap(v *annotation.Values) map[string]any {
	if v == nil || v.Len() == 0 {
		return nil
	}

	return annotation.ValuesMap(v)
}
