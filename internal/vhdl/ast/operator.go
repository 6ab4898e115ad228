package ast

import "fmt"

var operatorSymbols = map[Operator]string{
	OpPlus:   "+",
	OpMinus:  "-",
	OpTimes:  "*",
	OpDiv:    "/",
	OpMod:    "mod",
	OpRem:    "rem",
	OpPow:    "**",
	OpAbs:    "abs",
	OpNot:    "not",
	OpAnd:    "and",
	OpOr:     "or",
	OpNand:   "nand",
	OpNor:    "nor",
	OpXor:    "xor",
	OpXnor:   "xnor",
	OpEQ:     "=",
	OpNE:     "/=",
	OpLT:     "<",
	OpLTE:    "<=",
	OpGT:     ">",
	OpGTE:    ">=",
	OpQueEQ:  "?=",
	OpQueNE:  "?/=",
	OpQueLT:  "?<",
	OpQueLTE: "?<=",
	OpQueGT:  "?>",
	OpQueGTE: "?>=",
	OpQueQue: "??",
	OpSLL:    "sll",
	OpSRL:    "srl",
	OpSLA:    "sla",
	OpSRA:    "sra",
	OpROL:    "rol",
	OpROR:    "ror",
	OpConcat: "&",
}

var symbolOperators = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorSymbols))
	for op, sym := range operatorSymbols {
		m[sym] = op
	}
	return m
}()

// Symbol returns the VHDL spelling of the operator.
func (op Operator) Symbol() string {
	if sym, ok := operatorSymbols[op]; ok {
		return sym
	}
	return "?"
}

// Wordlike reports whether the operator is spelled as a reserved word and
// therefore needs surrounding whitespace.
func (op Operator) Wordlike() bool {
	switch op {
	case OpMod, OpRem, OpAbs, OpNot, OpAnd, OpOr, OpNand, OpNor, OpXor, OpXnor,
		OpSLL, OpSRL, OpSLA, OpSRA, OpROL, OpROR:
		return true
	}
	return false
}

// OperatorFromSymbol maps a VHDL operator spelling back to its Operator.
func OperatorFromSymbol(sym string) (Operator, error) {
	if op, ok := symbolOperators[sym]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("unknown operator %q", sym)
}
