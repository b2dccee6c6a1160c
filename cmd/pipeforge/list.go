package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Promptonauts/pipeforge/pkg/transpiler"
)

func newListCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show supported source and target formats.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := transpiler.New(nil, nil)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Sources:")
			for _, slug := range t.AvailableSources() {
				fmt.Fprintf(out, "  - %s\n", slug)
			}
			fmt.Fprintln(out, "\nTargets:")
			for _, slug := range t.AvailableTargets() {
				hint, _ := t.OutputHint(slug)
				fmt.Fprintf(out, "  - %s (%s)\n", slug, hint)
			}
			return nil
		},
	}
}
