// Package printer renders expression subtrees back to VHDL source text, so an
// unresolved range bound can be embedded verbatim in a synthesized evaluation
// program. Printing never fails: a node shape with no known rendering becomes
// an explicit placeholder token, and the resulting compile error (if any)
// surfaces from the simulator's analysis stage where it is diagnosable from
// the captured output.
package printer

import (
	"fmt"
	"strconv"

	"github.com/oxidecomputer/vw/internal/vhdl/ast"
)

// Placeholder tokens for node shapes the printer cannot reproduce.
const (
	placeholderExpr = "unsupported_expr"
	placeholderName = "unsupported_name"
)

// Expr renders an expression to VHDL source text.
func Expr(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(x.Value, 10)
	case *ast.RealLiteral:
		return strconv.FormatFloat(x.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return `"` + x.Value + `"`
	case *ast.CharLiteral:
		return "'" + string(x.Value) + "'"
	case *ast.BitStringLiteral:
		return x.Text
	case *ast.PhysicalLiteral:
		return fmt.Sprintf("%d %s", x.Value, x.Unit)
	case *ast.NullLiteral:
		return "null"
	case *ast.NameExpr:
		return Name(x.Name)
	case *ast.UnaryExpr:
		if x.Op.Wordlike() {
			return x.Op.Symbol() + " " + Expr(x.Operand)
		}
		return x.Op.Symbol() + Expr(x.Operand)
	case *ast.BinaryExpr:
		return Expr(x.Left) + " " + x.Op.Symbol() + " " + Expr(x.Right)
	case *ast.ParenExpr:
		return "(" + Expr(x.Inner) + ")"
	case nil:
		return placeholderExpr
	}
	return placeholderExpr
}

// Name renders a name to VHDL source text. A call-or-indexed name reduces to
// its callee: for the parameterless width functions that show up in record
// constraints this is the faithful rendering, and anything fancier still
// analyzes or fails visibly in the simulator.
func Name(n ast.Name) string {
	switch x := n.(type) {
	case *ast.SimpleName:
		return x.Ident
	case *ast.SelectedName:
		return Name(x.Prefix) + "." + x.Suffix
	case *ast.SelectedAll:
		return Name(x.Prefix) + ".all"
	case *ast.CallName:
		return Name(x.Callee)
	case nil:
		return placeholderName
	}
	return placeholderName
}
