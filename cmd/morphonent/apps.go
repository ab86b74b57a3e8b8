package main

import (
	"github.com/spf13/cobra"

	"github.com/morphonent/morphonent/internal/demo"
)

func appsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the demo apps",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range demo.Names() {
				info(cmd.OutOrStdout(), "%s", name)
			}
		},
	}
}
