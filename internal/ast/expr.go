package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ExprKind defines the variant of an expression node.
type ExprKind int

// Expression kinds.
const (
	ExprLiteral ExprKind = iota + 1
	ExprRef
	ExprCast
	ExprUnary
	ExprBinary
	ExprTernary
	ExprCall
)

// Expr is an expression node that renders to the source text of a single operand.
type Expr struct {
	Kind     ExprKind
	Op       Operator
	Value    string  // literal text, reference path or called function name
	Type     Type    // declared type of a literal or target type of a cast
	Operands []*Expr // children in source order
}

// Lit returns a literal with a declared type. The value is emitted verbatim,
// the type is informational and never used for evaluation.
func Lit(value string, typ Type) *Expr {
	return &Expr{Kind: ExprLiteral, Value: value, Type: typ}
}

// Num returns an int literal.
func Num(value int) *Expr {
	return Lit(strconv.Itoa(value), Int)
}

// Hex returns a literal written in hexadecimal notation with the given digit count.
func Hex(value uint, digits int) *Expr {
	return Lit(fmt.Sprintf("0x%0*X", digits, value), Int)
}

// Str returns a quoted string literal.
func Str(s string) *Expr {
	return Lit(quote(s), PointerTo(Char))
}

// Ref returns a reference to a named variable, constant or member path.
func Ref(path string) *Expr {
	return &Expr{Kind: ExprRef, Value: path}
}

// Cast returns a cast of the operand to the target type.
func Cast(target Type, operand *Expr) *Expr {
	return &Expr{Kind: ExprCast, Type: target, Operands: []*Expr{operand}}
}

// Unary returns a unary operation.
func Unary(op Operator, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Op: op, Operands: []*Expr{operand}}
}

// Binary returns a binary operation.
func Binary(op Operator, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Op: op, Operands: []*Expr{left, right}}
}

// Ternary returns a conditional operation.
func Ternary(cond, then, otherwise *Expr) *Expr {
	return &Expr{Kind: ExprTernary, Operands: []*Expr{cond, then, otherwise}}
}

// Call returns a function call expression.
func Call(name string, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Value: name, Operands: args}
}

// Render returns the source text of the expression.
func (e *Expr) Render() (string, error) {
	if e == nil {
		return "", fmt.Errorf("%w: missing expression", ErrInvalidOperand)
	}

	switch e.Kind {
	case ExprLiteral:
		if e.Value == "" {
			return "", fmt.Errorf("%w: empty literal", ErrInvalidOperand)
		}
		return e.Value, nil

	case ExprRef:
		if !refPattern.MatchString(e.Value) {
			return "", fmt.Errorf("%w: reference '%s'", ErrInvalidOperand, e.Value)
		}
		return e.Value, nil

	case ExprCast:
		return e.renderCast()

	case ExprUnary:
		return e.renderUnary()

	case ExprBinary:
		return e.renderBinary()

	case ExprTernary:
		return e.renderTernary()

	case ExprCall:
		return e.renderCall()

	default:
		return "", fmt.Errorf("%w: expression kind %d", errUnknownKind, e.Kind)
	}
}

// renderCondition returns the expression wrapped in exactly one pair of
// parentheses, as needed by if, switch and while statements.
func (e *Expr) renderCondition() (string, error) {
	s, err := e.Render()
	if err != nil {
		return "", err
	}
	if e.precedence() == precGrouped {
		return s, nil
	}
	return "(" + s + ")", nil
}

func (e *Expr) precedence() precedence {
	switch e.Kind {
	case ExprCast:
		return precUnary
	case ExprUnary:
		if e.Op.IsPostfix() {
			return precPostfix
		}
		return precUnary
	case ExprBinary:
		if e.Op == OpIndex {
			return precPrimary
		}
		return precGrouped
	case ExprTernary:
		return precGrouped
	default:
		return precPrimary
	}
}

func (e *Expr) operand(index int) (string, error) {
	if index >= len(e.Operands) {
		return "", fmt.Errorf("%w: missing operand %d", ErrInvalidOperand, index)
	}
	s, err := e.Operands[index].Render()
	if err != nil {
		return "", err
	}
	return s, nil
}

// postfixOperand renders an operand that is followed by a postfix operator.
// Unary class operands would bind weaker than the postfix operator.
func (e *Expr) postfixOperand(index int) (string, error) {
	s, err := e.operand(index)
	if err != nil {
		return "", err
	}
	if e.Operands[index].precedence() == precUnary {
		return "", fmt.Errorf("%w: '%s' can not be used as postfix operand", ErrInvalidOperand, s)
	}
	return s, nil
}

func (e *Expr) renderCast() (string, error) {
	target := e.Type.String()
	if target == "" {
		return "", fmt.Errorf("%w: cast without target type", ErrInvalidOperand)
	}
	operand, err := e.operand(0)
	if err != nil {
		return "", fmt.Errorf("rendering cast operand: %w", err)
	}
	return fmt.Sprintf("(%s) %s", target, operand), nil
}

func (e *Expr) renderUnary() (string, error) {
	if !e.Op.IsUnary() {
		return "", fmt.Errorf("%w: operator %d is not unary", ErrInvalidOperand, e.Op)
	}

	if e.Op.IsPostfix() {
		operand, err := e.postfixOperand(0)
		if err != nil {
			return "", err
		}
		return operand + e.Op.String(), nil
	}

	operand, err := e.operand(0)
	if err != nil {
		return "", err
	}
	// avoid merging tokens like - -x into --x
	if len(operand) > 0 && strings.HasSuffix(e.Op.String(), operand[:1]) {
		return e.Op.String() + " " + operand, nil
	}
	return e.Op.String() + operand, nil
}

func (e *Expr) renderBinary() (string, error) {
	if !e.Op.IsBinary() {
		return "", fmt.Errorf("%w: operator %d is not binary", ErrInvalidOperand, e.Op)
	}

	if e.Op == OpIndex {
		array, err := e.postfixOperand(0)
		if err != nil {
			return "", err
		}
		index, err := e.operand(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", array, index), nil
	}

	left, err := e.operand(0)
	if err != nil {
		return "", fmt.Errorf("rendering left operand of '%s': %w", e.Op, err)
	}
	right, err := e.operand(1)
	if err != nil {
		return "", fmt.Errorf("rendering right operand of '%s': %w", e.Op, err)
	}
	return fmt.Sprintf("(%s %s %s)", left, e.Op, right), nil
}

func (e *Expr) renderTernary() (string, error) {
	parts := make([]string, 3)
	for i := range parts {
		s, err := e.operand(i)
		if err != nil {
			return "", fmt.Errorf("rendering ternary operand: %w", err)
		}
		parts[i] = s
	}
	return fmt.Sprintf("(%s ? %s : %s)", parts[0], parts[1], parts[2]), nil
}

func (e *Expr) renderCall() (string, error) {
	if !identPattern.MatchString(e.Value) {
		return "", fmt.Errorf("%w: function name '%s'", ErrInvalidOperand, e.Value)
	}

	args := make([]string, len(e.Operands))
	for i := range e.Operands {
		s, err := e.operand(i)
		if err != nil {
			return "", fmt.Errorf("rendering argument %d of '%s': %w", i, e.Value, err)
		}
		args[i] = s
	}
	return fmt.Sprintf("%s(%s)", e.Value, strings.Join(args, ", ")), nil
}

// quote returns s as C string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\%03o`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
