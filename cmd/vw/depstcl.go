package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/workspace"
)

var depsTclCmd = &cobra.Command{
	Use:   "deps-to-tcl",
	Short: "Generate deps.tcl file with all dependency VHDL files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		if err := workspace.GenerateDepsTcl(dir); err != nil {
			return err
		}
		fmt.Printf("%s Generated deps.tcl with dependency VHDL files\n", okMark())
		return nil
	},
}
