package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialize a new workspace",
	Long: `Initialize a new VHDL workspace by creating a vw.toml manifest in the
current directory. Refuses to overwrite an existing manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		name := args[0]
		if err := workspace.Init(dir, name); err != nil {
			return err
		}
		fmt.Printf("%s Initialized workspace: %s\n", okMark(), cyan(name))
		return nil
	},
}
