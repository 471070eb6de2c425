// Package ast implements the expression and instruction tree of generated
// programs and its deterministic rendering to C source text.
//
// Both expressions and instructions are single tagged variants: a kind tag
// plus typed payload fields. Rendering is an exhaustive switch over the tag
// and is pure, rendering the same tree twice produces identical output.
package ast

import "errors"

var (
	// ErrInvalidOperand is returned when an expression operand has no
	// resolvable textual form.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrInvalidIdent is returned for names that are not valid C identifiers.
	ErrInvalidIdent = errors.New("invalid identifier")

	errUnknownKind = errors.New("unknown node kind")
)
