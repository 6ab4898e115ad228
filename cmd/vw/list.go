package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/workspace"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace dependencies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		deps, err := workspace.ListDependencies(dir)
		if err != nil {
			return err
		}
		if len(deps) == 0 {
			fmt.Println("No dependencies found in workspace")
			return nil
		}
		fmt.Println("Dependencies:")
		for _, dep := range deps {
			fmt.Printf("  %s - %s%s\n", cyan(dep.Name), dep.Repo, dim(revisionSuffix(dep)))
		}
		return nil
	},
}

func revisionSuffix(dep workspace.DependencyInfo) string {
	switch dep.Kind {
	case workspace.VersionBranch:
		return fmt.Sprintf(" (branch: %s)", dep.Revision)
	case workspace.VersionCommit, workspace.VersionLocked:
		return fmt.Sprintf(" (%s)", shortCommit(dep.Revision))
	}
	return ""
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
