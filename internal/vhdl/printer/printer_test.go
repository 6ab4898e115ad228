package printer

import (
	"testing"

	"github.com/oxidecomputer/vw/internal/vhdl/ast"
)

func name(ident string) ast.Expr {
	return &ast.NameExpr{Name: &ast.SimpleName{Ident: ident}}
}

func TestExpr(t *testing.T) {
	tests := []struct {
		desc string
		expr ast.Expr
		want string
	}{
		{
			desc: "integer literal",
			expr: &ast.IntLiteral{Value: 47},
			want: "47",
		},
		{
			desc: "simple name",
			expr: name("DATA_WIDTH"),
			want: "DATA_WIDTH",
		},
		{
			desc: "binary minus",
			expr: &ast.BinaryExpr{Op: ast.OpMinus, Left: name("DATA_WIDTH"), Right: &ast.IntLiteral{Value: 1}},
			want: "DATA_WIDTH - 1",
		},
		{
			desc: "word operator",
			expr: &ast.BinaryExpr{Op: ast.OpMod, Left: name("n"), Right: &ast.IntLiteral{Value: 8}},
			want: "n mod 8",
		},
		{
			desc: "unary minus",
			expr: &ast.UnaryExpr{Op: ast.OpMinus, Operand: &ast.IntLiteral{Value: 3}},
			want: "-3",
		},
		{
			desc: "unary word operator",
			expr: &ast.UnaryExpr{Op: ast.OpAbs, Operand: name("x")},
			want: "abs x",
		},
		{
			desc: "parenthesized nesting",
			expr: &ast.BinaryExpr{
				Op: ast.OpTimes,
				Left: &ast.ParenExpr{Inner: &ast.BinaryExpr{
					Op:    ast.OpPlus,
					Left:  name("a"),
					Right: name("b"),
				}},
				Right: &ast.IntLiteral{Value: 2},
			},
			want: "(a + b) * 2",
		},
		{
			desc: "selected name",
			expr: &ast.NameExpr{Name: &ast.SelectedName{
				Prefix: &ast.SimpleName{Ident: "hdr_pkg"},
				Suffix: "ETH_BITS",
			}},
			want: "hdr_pkg.ETH_BITS",
		},
		{
			desc: "call reduced to callee",
			expr: &ast.NameExpr{Name: &ast.CallName{
				Callee: &ast.SimpleName{Ident: "get_eth_hdr_bits"},
				Args:   []ast.Expr{&ast.IntLiteral{Value: 4}},
			}},
			want: "get_eth_hdr_bits",
		},
		{
			desc: "concat",
			expr: &ast.BinaryExpr{Op: ast.OpConcat, Left: name("a"), Right: name("b")},
			want: "a & b",
		},
		{
			desc: "shift",
			expr: &ast.BinaryExpr{Op: ast.OpSLL, Left: name("a"), Right: &ast.IntLiteral{Value: 2}},
			want: "a sll 2",
		},
		{
			desc: "null literal",
			expr: &ast.NullLiteral{},
			want: "null",
		},
		{
			desc: "physical literal",
			expr: &ast.PhysicalLiteral{Value: 10, Unit: "ns"},
			want: "10 ns",
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := Expr(tt.expr); got != tt.want {
				t.Fatalf("Expr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExprNeverPanicsOnNil(t *testing.T) {
	if got := Expr(nil); got != "unsupported_expr" {
		t.Fatalf("Expr(nil) = %q, want placeholder", got)
	}
	if got := Name(nil); got != "unsupported_name" {
		t.Fatalf("Name(nil) = %q, want placeholder", got)
	}
}
