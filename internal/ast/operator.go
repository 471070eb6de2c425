package ast

// Operator defines the operator of a unary, binary or compound assignment node.
type Operator int

// Unary operators.
const (
	OpNone Operator = iota

	OpNeg     // -x
	OpNot     // !x
	OpBitNot  // ~x
	OpAddress // &x
	OpDeref   // *x
	OpPreInc  // ++x
	OpPreDec  // --x
	OpPostInc // x++
	OpPostDec // x--
)

// Binary operators.
const (
	OpAdd Operator = iota + 100
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpAnd
	OpOr
	OpXor
	OpLogicalAnd
	OpLogicalOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpIndex // a[i]
)

var operatorTokens = map[Operator]string{
	OpNeg:     "-",
	OpNot:     "!",
	OpBitNot:  "~",
	OpAddress: "&",
	OpDeref:   "*",
	OpPreInc:  "++",
	OpPreDec:  "--",
	OpPostInc: "++",
	OpPostDec: "--",

	OpAdd:            "+",
	OpSub:            "-",
	OpMul:            "*",
	OpDiv:            "/",
	OpMod:            "%",
	OpShl:            "<<",
	OpShr:            ">>",
	OpAnd:            "&",
	OpOr:             "|",
	OpXor:            "^",
	OpLogicalAnd:     "&&",
	OpLogicalOr:      "||",
	OpEqual:          "==",
	OpNotEqual:       "!=",
	OpLess:           "<",
	OpLessOrEqual:    "<=",
	OpGreater:        ">",
	OpGreaterOrEqual: ">=",
}

// String returns the source token of the operator.
func (o Operator) String() string {
	return operatorTokens[o]
}

// IsUnary returns whether the operator takes a single operand.
func (o Operator) IsUnary() bool {
	return o >= OpNeg && o <= OpPostDec
}

// IsPostfix returns whether the operator is written after its operand.
func (o Operator) IsPostfix() bool {
	return o == OpPostInc || o == OpPostDec
}

// IsBinary returns whether the operator takes two operands.
func (o Operator) IsBinary() bool {
	return o >= OpAdd && o <= OpIndex
}

// IsCompoundAssignable returns whether the operator can be combined with an
// assignment, like +=.
func (o Operator) IsCompoundAssignable() bool {
	return o >= OpAdd && o <= OpXor
}

// precedence classes, each node decides about its own grouping based on its class.
type precedence int

const (
	precPrimary precedence = iota // literals, references, calls, indexing: never grouped
	precPostfix                   // x++: bare, operand must not be of unary class
	precUnary                     // prefix operators and casts: bare
	precGrouped                   // binary and ternary operators: always self parenthesized
)
