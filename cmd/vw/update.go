package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/workspace"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update workspace dependencies",
	Long: `Resolve every dependency in vw.toml to a commit, download missing
checkouts into the shared cache, and rewrite vw.lock and vhdl_ls.toml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		result, err := workspace.Update(dir)
		if err != nil {
			return err
		}
		for _, dep := range result.Dependencies {
			fmt.Printf("Processing dependency: %s\n", cyan(dep.Name))
			if dep.WasCached {
				fmt.Printf("Using cached version of %s at %s\n", cyan(dep.Name), cyan(dep.Commit))
			} else {
				fmt.Printf("Downloaded %s at %s\n", cyan(dep.Name), cyan(dep.Commit))
			}
		}
		fmt.Printf("%s Workspace updated successfully!\n", okMark())
		return nil
	},
}
