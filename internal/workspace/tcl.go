package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const tclFile = "deps.tcl"

// GenerateDepsTcl writes dir/deps.tcl: one associative-array entry per
// locked dependency listing its VHDL files, for consumption by tcl-driven
// tool flows. Dependencies are emitted in name order.
func GenerateDepsTcl(dir string) error {
	lock, err := LoadLock(dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(lock.Dependencies))
	for name := range lock.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Auto-generated by vw\n")
	b.WriteString("# Associative array of dependency VHDL files\n")
	b.WriteString("# Keys: library names, Values: lists of VHDL files\n\n")
	for _, name := range names {
		dep := lock.Dependencies[name]
		files, err := FindVHDLFiles(dep.Path, dep.Recursive)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "set dep_files(%s) [list", name)
		if len(files) > 0 {
			b.WriteString(" \\\n")
			for i, f := range files {
				fmt.Fprintf(&b, "    %s", f)
				if i < len(files)-1 {
					b.WriteString(" \\")
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("]\n\n")
	}

	path := filepath.Join(dir, tclFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
