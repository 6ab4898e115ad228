package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/workspace"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		cleared, err := workspace.ClearCache(dir)
		if err != nil {
			return err
		}
		if len(cleared) == 0 {
			fmt.Println("No cached repositories found to clear")
			return nil
		}
		for _, name := range cleared {
			fmt.Printf("Removing cached dependency: %s\n", cyan(name))
		}
		fmt.Printf("%s Cleared %d cached repositories\n", okMark(), len(cleared))
		return nil
	},
}
