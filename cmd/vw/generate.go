package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxidecomputer/vw/internal/bindgen"
	"github.com/oxidecomputer/vw/internal/extract"
	"github.com/oxidecomputer/vw/internal/nvc"
	"github.com/oxidecomputer/vw/internal/vhdl/ast"
)

var (
	generateASTPaths []string
	generateOut      string
	generateBuildDir string
	generateAttr     string
	generateStd      string
	generateStopTime string
	generatePackage  string
)

func init() {
	generateCmd.Flags().StringArrayVar(&generateASTPaths, "ast", nil, "parsed design file in JSON form (repeatable)")
	generateCmd.Flags().StringVar(&generateOut, "out", "bindings.go", "output Go file")
	generateCmd.Flags().StringVar(&generateBuildDir, "build-dir", "build", "build directory for simulator artifacts")
	generateCmd.Flags().StringVar(&generateAttr, "attr", extract.DefaultAttr, "attribute name marking record types")
	generateCmd.Flags().StringVar(&generateStd, "std", "2019", "VHDL standard (2008|2019)")
	generateCmd.Flags().StringVar(&generateStopTime, "stop-time", "1ns", "simulation stop time for bound evaluation")
	generateCmd.Flags().StringVar(&generatePackage, "package", "bindings", "package name of the generated Go file")
	if err := generateCmd.MarkFlagRequired("ast"); err != nil {
		panic(err)
	}
}

var generateCmd = &cobra.Command{
	Use:   "generate --ast <design.json> [vhdl sources...]",
	Short: "Generate Go structs from tagged VHDL records",
	Long: `Generate Go struct definitions whose bit widths match the tagged VHDL
record types in the given parsed design files. Record bounds that are not
integer literals are evaluated by running a synthesized program through nvc;
pass the VHDL source files the records live in so the evaluation can analyze
them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		std, err := nvc.ParseStandard(generateStd)
		if err != nil {
			return err
		}

		scanner := extract.NewScanner(generateAttr)
		for _, path := range generateASTPaths {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			file, err := ast.DecodeFile(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if err := scanner.Scan(file); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		syms := scanner.Symbols()
		if len(syms.Tagged) == 0 {
			return fmt.Errorf("no record types carry the %q attribute", generateAttr)
		}

		err = bindgen.Generate(syms, args, bindgen.Options{
			BuildDir: generateBuildDir,
			Std:      std,
			StopTime: generateStopTime,
			OutPath:  generateOut,
			Package:  generatePackage,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s Generated %s from %d tagged record(s)\n", okMark(), cyan(generateOut), len(syms.Tagged))
		return nil
	},
}
