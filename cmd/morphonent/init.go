package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/morphonent/morphonent/internal/config"
	"github.com/morphonent/morphonent/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		asJSON bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			name := config.ConfigFileName
			if asJSON {
				name = "morphonent.json"
			}
			path := filepath.Join(dir, name)

			if !force {
				if _, err := config.LoadFile(path); err == nil || errors.CodeOf(err) != "E141" {
					return errors.Newf(errors.CategoryCLI, "%s already exists", path).
						WithSuggestion("Use --force to overwrite it.")
				}
			}
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of YAML")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
