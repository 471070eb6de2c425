package ast

import (
	"fmt"
	"regexp"

	"github.com/retroenv/retrogolib/set"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// refPattern matches identifiers with optional member access, like monster.x or obj->y.
var refPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*((\.|->)[A-Za-z_][A-Za-z0-9_]*)*$`)

var reservedWords = newReservedWords()

func newReservedWords() set.Set[string] {
	words := set.New[string]()
	for _, word := range []string{
		"auto", "break", "case", "char", "const", "continue", "default", "do",
		"double", "else", "enum", "extern", "float", "for", "goto", "if",
		"int", "long", "register", "return", "short", "signed", "sizeof",
		"static", "struct", "switch", "typedef", "union", "unsigned", "void",
		"volatile", "while",
	} {
		words.Add(word)
	}
	return words
}

// Ident is a validated C identifier. Names crossing component boundaries
// (resources, externs, routines, boot calls, variables) use this type so that
// mismatches are caught when the name is created.
type Ident string

// ParseIdent validates the given name and returns it as identifier.
func ParseIdent(name string) (Ident, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidIdent, name)
	}
	if reservedWords.Contains(name) {
		return "", fmt.Errorf("%w: '%s' is a reserved word", ErrInvalidIdent, name)
	}
	return Ident(name), nil
}

// MustIdent is like ParseIdent but panics on an invalid name.
// It is intended for names that are constants in the calling code.
func MustIdent(name string) Ident {
	id, err := ParseIdent(name)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the identifier as string.
func (i Ident) String() string {
	return string(i)
}
