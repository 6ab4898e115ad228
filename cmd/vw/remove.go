package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/workspace"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a dependency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		if err := workspace.RemoveDependency(dir, args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed dependency: %s\n", cyan(args[0]))
		fmt.Printf("Run %s to update configuration\n", cyan("vw update"))
		return nil
	},
}
