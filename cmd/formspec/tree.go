package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"formspec/form"
	"formspec/inputfilter"
)

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree CLASS",
		Short: "Realize the form of a class and print its element tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.builder(cmd.Context())
			if err != nil {
				return err
			}

			f, err := b.CreateForm(args[0])
			if err != nil {
				return err
			}

			printTree(cmd.OutOrStdout(), f, f.InputFilter())

			return nil
		},
	}
}

var (
	containerColor = color.New(color.FgCyan, color.Bold)
	typeColor      = color.New(color.Faint)
	requiredColor  = color.New(color.FgRed, color.Bold)
	noInputColor   = color.New(color.FgYellow)
)

// printTree writes root and its descendants, one element per line. Required
// inputs are marked with a red asterisk; elements without an input are
// flagged.
func printTree(w io.Writer, root form.Container, inputs inputfilter.Container) {
	containerColor.Fprint(w, root.Name())
	typeColor.Fprintf(w, " (%s)\n", root.Type())

	printChildren(w, root, inputs, "")
}

func printChildren(w io.Writer, c form.Container, inputs inputfilter.Container, indent string) {
	n, i := c.Len(), 0

	for name, el := range c.All() {
		i++

		branch, next := "├── ", "│   "
		if i == n {
			branch, next = "└── ", "    "
		}

		entry, hasInput := lookupInput(inputs, name)

		fmt.Fprint(w, indent+branch)

		child, isContainer := el.(form.Container)
		if isContainer {
			containerColor.Fprint(w, name)
		} else {
			fmt.Fprint(w, name)
		}

		typeColor.Fprintf(w, " (%s)", describe(el))

		switch in := entry.(type) {
		case inputfilter.Input:
			if in.IsRequired() {
				requiredColor.Fprint(w, " *")
			}
		case nil:
			if !hasInput && !isContainer {
				noInputColor.Fprint(w, " no input")
			}
		}

		fmt.Fprintln(w)

		if isContainer {
			printChildren(w, child, childInputs(entry), indent+next)
		}
	}
}

func describe(el form.Element) string {
	if coll, ok := el.(*form.Collection); ok {
		return fmt.Sprintf("%s of %d", coll.Type(), coll.Count())
	}

	if typ, ok := el.Attribute("type"); ok {
		return fmt.Sprintf("%s, type=%v", el.Type(), typ)
	}

	return el.Type()
}

func lookupInput(inputs inputfilter.Container, name string) (inputfilter.Entry, bool) {
	if inputs == nil {
		return nil, false
	}

	return inputs.Get(name)
}

// childInputs returns the inputs matching the children of a container
// element. Collection entries all share the target filter.
func childInputs(entry inputfilter.Entry) inputfilter.Container {
	switch in := entry.(type) {
	case *inputfilter.CollectionInputFilter:
		return sharedInputs{in.Target()}
	case inputfilter.Container:
		return in
	}

	return nil
}

// sharedInputs answers every lookup with the same target filter.
type sharedInputs struct {
	inputfilter.Container
}

func (s sharedInputs) Get(string) (inputfilter.Entry, bool) {
	if s.Container == nil {
		return nil, false
	}

	return s.Container, true
}
