package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"formspec/annotation"
	"formspec/internal/analyze"
)

func newClassesCmd(a *app) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "classes [CLASS]",
		Short: "List known classes, or the members of one class",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.provider(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if len(args) == 0 {
				cat, ok := p.(annotation.Catalogue)
				if !ok {
					return fmt.Errorf("provider %T cannot list classes", p)
				}

				for _, name := range cat.Classes() {
					fmt.Fprintln(w, name)
				}

				return nil
			}

			ref, err := p.Lookup(args[0])
			if err != nil {
				return err
			}

			if src, ok := p.(*analyze.SourceProvider); ok {
				for _, mp := range analyze.MemberPaths(src.Graph().Node(ref), a.tagKey(), depth) {
					fmt.Fprintf(w, "%s\t%s\n", mp.Path, mp.Type)
				}

				return nil
			}

			members, err := p.Members(ref)
			if err != nil {
				return err
			}

			for _, m := range members {
				line := ref.Name + "." + m.Name
				if m.Collection {
					line += "[]"
				}

				if !m.Elem.IsZero() {
					line += "\t" + m.Elem.String()
				}

				fmt.Fprintln(w, line)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 2, "levels of nested structs to list")

	return cmd
}
