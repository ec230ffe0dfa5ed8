package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"formspec/annotation"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the metadata kinds understood in tags and documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, kind := range annotation.DefaultKinds().Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}

			return nil
		},
	}
}
