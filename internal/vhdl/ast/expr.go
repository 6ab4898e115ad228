package ast

// Expr is a VHDL expression node.
type Expr interface {
	exprNode()
}

// IntLiteral is a decimal abstract literal with an integer value.
type IntLiteral struct {
	Value int64
}

// RealLiteral is an abstract literal with a real value.
type RealLiteral struct {
	Value float64
}

// StringLiteral is a string literal.
type StringLiteral struct {
	Value string
}

// CharLiteral is a character literal.
type CharLiteral struct {
	Value rune
}

// BitStringLiteral is a bit-string literal, kept in its source spelling.
type BitStringLiteral struct {
	Text string
}

// PhysicalLiteral is a physical literal such as `10 ns`.
type PhysicalLiteral struct {
	Value int64
	Unit  string
}

// NullLiteral is the `null` literal.
type NullLiteral struct{}

// NameExpr wraps a name used in expression position.
type NameExpr struct {
	Name Name
}

// UnaryExpr applies a unary operator to an operand.
type UnaryExpr struct {
	Op      Operator
	Operand Expr
}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Op    Operator
	Left  Expr
	Right Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Inner Expr
}

func (*IntLiteral) exprNode()       {}
func (*RealLiteral) exprNode()      {}
func (*StringLiteral) exprNode()    {}
func (*CharLiteral) exprNode()      {}
func (*BitStringLiteral) exprNode() {}
func (*PhysicalLiteral) exprNode()  {}
func (*NullLiteral) exprNode()      {}
func (*NameExpr) exprNode()         {}
func (*UnaryExpr) exprNode()        {}
func (*BinaryExpr) exprNode()       {}
func (*ParenExpr) exprNode()        {}

// Name is a VHDL name.
type Name interface {
	nameNode()
}

// SimpleName is a bare identifier.
type SimpleName struct {
	Ident string
}

// SelectedName is `prefix.suffix`.
type SelectedName struct {
	Prefix Name
	Suffix string
}

// SelectedAll is `prefix.all`.
type SelectedAll struct {
	Prefix Name
}

// CallName is a function call or indexed name. Arguments are carried for
// completeness; consumers that cannot reproduce them reduce the name to its
// callee.
type CallName struct {
	Callee Name
	Args   []Expr
}

func (*SimpleName) nameNode()   {}
func (*SelectedName) nameNode() {}
func (*SelectedAll) nameNode()  {}
func (*CallName) nameNode()     {}

// Operator enumerates the VHDL operators that may appear in constant
// expressions.
type Operator uint8

const (
	OpPlus Operator = iota
	OpMinus
	OpTimes
	OpDiv
	OpMod
	OpRem
	OpPow
	OpAbs
	OpNot
	OpAnd
	OpOr
	OpNand
	OpNor
	OpXor
	OpXnor
	OpEQ
	OpNE
	OpLT
	OpLTE
	OpGT
	OpGTE
	OpQueEQ
	OpQueNE
	OpQueLT
	OpQueLTE
	OpQueGT
	OpQueGTE
	OpQueQue
	OpSLL
	OpSRL
	OpSLA
	OpSRA
	OpROL
	OpROR
	OpConcat
)
