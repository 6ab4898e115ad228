package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oxidecomputer/vw/internal/version"
)

var colorMode string

var rootCmd = &cobra.Command{
	Use:   "vw",
	Short: "VHDL workspace manager and struct generator",
	Long: `vw manages VHDL project dependencies from git repositories, runs
testbenches with the nvc simulator, and generates binary-layout-compatible
Go structs from tagged VHDL record types`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch colorMode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		default:
			color.NoColor = !isTerminal(os.Stdout)
		}
	},
}

var (
	okMark    = func() string { return color.New(color.FgGreen, color.Bold).Sprint("✓") }
	errPrefix = func() string { return color.New(color.FgRed, color.Bold).Sprint("error:") }
	cyan      = color.New(color.FgCyan).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
)

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(depsTclCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errPrefix(), err)
		os.Exit(1)
	}
}

// workspaceDir is the directory every command operates on.
func workspaceDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine current directory: %w", err)
	}
	return wd, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
