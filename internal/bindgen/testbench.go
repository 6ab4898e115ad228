package bindgen

import (
	"fmt"
	"strings"
)

// renderEvaluator synthesizes the oracle VHDL program. It is a single
// process that, at time zero, writes one `EXPR_<i>: <value>` line per
// expression to standard output and then suspends; the simulation's stop
// time ends the run. The use clauses pull in every package a tagged record
// lives in so the bound expressions resolve by name.
func renderEvaluator(packages, exprs []string) string {
	var b strings.Builder
	b.WriteString("-- Generated by vw to evaluate record bound expressions.\n")
	b.WriteString("library ieee;\n")
	b.WriteString("use ieee.std_logic_1164.all;\n")
	b.WriteString("use std.textio.all;\n")
	for _, pkg := range packages {
		fmt.Fprintf(&b, "use work.%s.all;\n", pkg)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "entity %s is\n", evaluatorUnit)
	b.WriteString("end entity;\n\n")
	fmt.Fprintf(&b, "architecture oracle of %s is\n", evaluatorUnit)
	b.WriteString("begin\n")
	b.WriteString("  eval : process is\n")
	b.WriteString("    variable l : line;\n")
	b.WriteString("  begin\n")
	b.WriteString("    wait for 0 ns;\n")
	for i, expr := range exprs {
		fmt.Fprintf(&b, "    write(l, string'(\"EXPR_%d: \"));\n", i)
		fmt.Fprintf(&b, "    write(l, integer'(%s));\n", expr)
		b.WriteString("    writeline(output, l);\n")
	}
	b.WriteString("    wait;\n")
	b.WriteString("  end process;\n")
	b.WriteString("end architecture;\n")
	return b.String()
}
