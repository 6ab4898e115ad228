package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/nvc"
	"github.com/oxidecomputer/vw/internal/workspace"
)

var (
	testList bool
	testStd  string
)

func init() {
	testCmd.Flags().BoolVar(&testList, "list", false, "list all available testbenches")
	testCmd.Flags().StringVar(&testStd, "std", "2019", "VHDL standard (2008|2019)")
}

var testCmd = &cobra.Command{
	Use:   "test [testbench]",
	Short: "Run a testbench using nvc",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workspaceDir()
		if err != nil {
			return err
		}
		if testList {
			benches, err := workspace.ListTestbenches(dir)
			if err != nil {
				return err
			}
			if len(benches) == 0 {
				fmt.Println("No testbenches found in bench directory")
				return nil
			}
			fmt.Println("Available testbenches:")
			for _, tb := range benches {
				fmt.Printf("  %s - %s\n", cyan(tb.Name), dim(tb.Path))
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("must specify testbench name or use --list")
		}
		std, err := nvc.ParseStandard(testStd)
		if err != nil {
			return err
		}
		name := args[0]
		fmt.Printf("Running testbench: %s\n", cyan(name))
		if err := workspace.RunTestbench(dir, name, std, nvc.New()); err != nil {
			return err
		}
		fmt.Printf("%s Testbench '%s' completed successfully!\n", okMark(), name)
		fmt.Printf("Waveform saved to: %s\n", cyan(name+".fst"))
		return nil
	},
}
