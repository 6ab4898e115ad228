package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/workspace"
)

var (
	addBranch    string
	addCommit    string
	addSrc       string
	addName      string
	addRecursive bool
)

func init() {
	addCmd.Flags().StringVar(&addBranch, "branch", "", "branch name")
	addCmd.Flags().StringVar(&addCommit, "commit", "", "commit hash")
	addCmd.Flags().StringVar(&addSrc, "src", "", "source path within the repository")
	addCmd.Flags().StringVar(&addName, "name", "", "dependency name (defaults to repository name)")
	addCmd.Flags().BoolVar(&addRecursive, "recursive", false, "recursively include VHDL files from subdirectories")
	addCmd.MarkFlagsMutuallyExclusive("branch", "commit")
}

var addCmd = &cobra.Command{
	Use:   "add <repo>",
	Short: "Add a new dependency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		name, err := workspace.AddDependency(dir, addName, workspace.Dependency{
			Repo:      args[0],
			Branch:    addBranch,
			Commit:    addCommit,
			Src:       addSrc,
			Recursive: addRecursive,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added dependency: %s\n", cyan(name))
		fmt.Printf("Run %s to download and configure\n", cyan("vw update"))
		return nil
	},
}
