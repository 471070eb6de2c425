package ast

import (
	"fmt"
	"strings"
)

// Type describes a type of the target C dialect as used in declarations,
// casts and extern lists.
type Type struct {
	Name    string // explicit type name, derived from Width and Signed if empty
	Width   int    // bit width of fixed size integer types
	Signed  bool
	Pointer bool
}

// Fixed size integer types of the target library and common C types.
var (
	U8  = Type{Width: 8}
	S8  = Type{Width: 8, Signed: true}
	U16 = Type{Width: 16}
	S16 = Type{Width: 16, Signed: true}
	U32 = Type{Width: 32}
	S32 = Type{Width: 32, Signed: true}

	Char = Named("char")
	Int  = Named("int")
	Bool = Named("bool")
	Void = Named("void")
)

var builtinTypes = map[string]Type{
	"u8":  U8,
	"s8":  S8,
	"u16": U16,
	"s16": S16,
	"u32": U32,
	"s32": S32,
}

// ParseType returns the type for a type name like u16, char* or a typedef
// name. Fixed size integer names return the corresponding built-in type.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	base, pointer := strings.CutSuffix(name, "*")
	base = strings.TrimSpace(base)

	t, ok := builtinTypes[base]
	if !ok {
		if !identPattern.MatchString(base) {
			return Type{}, fmt.Errorf("%w: type '%s'", ErrInvalidIdent, name)
		}
		t = Named(base)
	}
	t.Pointer = pointer
	return t, nil
}

// Named returns a type that is referenced by its name, for example a typedef.
func Named(name string) Type {
	return Type{Name: name}
}

// PointerTo returns a pointer type to the given type.
func PointerTo(t Type) Type {
	t.Pointer = true
	return t
}

// String returns the source text of the type, or an empty string if the type
// has no resolvable name.
func (t Type) String() string {
	name := t.Name
	if name == "" && t.Width > 0 {
		prefix := 'u'
		if t.Signed {
			prefix = 's'
		}
		name = fmt.Sprintf("%c%d", prefix, t.Width)
	}
	if name == "" {
		return ""
	}
	if t.Pointer {
		return name + "*"
	}
	return name
}

// IsVoid returns whether the type is the non pointer void type.
func (t Type) IsVoid() bool {
	return t.Name == "void" && !t.Pointer
}

// IsZero returns whether no type was set.
func (t Type) IsZero() bool {
	return t == Type{}
}
