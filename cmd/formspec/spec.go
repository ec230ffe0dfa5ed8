package main

import (
	"github.com/spf13/cobra"

	"formspec/internal/export"
)

func newSpecCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec CLASS",
		Short: "Print the form specification of a class",
		Long: `Print the form specification built for CLASS. CLASS is a fully qualified
name (formspec/examples/accounts.User), a package qualified name (accounts.User)
or a bare type name when it is unique.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(a.cfg.Format)
			if err != nil {
				return err
			}

			b, err := a.builder(cmd.Context())
			if err != nil {
				return err
			}

			sp, err := b.GetFormSpecification(args[0])
			if err != nil {
				return err
			}

			out, err := export.Render(sp, format)
			if err != nil {
				return err
			}

			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}

			printDiagnostics(cmd.ErrOrStderr(), sp.Diagnostics)

			return nil
		},
	}

	cmd.Flags().StringP("format", "f", string(export.FormatYAML), "output format: yaml, json, spew or jsonschema")

	return cmd
}
