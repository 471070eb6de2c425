package ast

import "slices"

// InstrKind defines the variant of an instruction node.
type InstrKind int

// Instruction kinds.
const (
	InstrDeclaration InstrKind = iota + 1
	InstrRaw
	InstrAssign
	InstrIf
	InstrSwitch
	InstrWhile
	InstrEval
	InstrReturn
	InstrExtern
	InstrInclude
	InstrDefine
	InstrEnum
	InstrStruct
)

// Instruction is a statement node that renders to one or more source lines.
// Only the fields used by its kind are set.
type Instruction struct {
	Kind InstrKind

	Type     Type     // declared type, extern element type
	Name     Ident    // declared, assigned, defined or typedef name
	Names    []Ident  // extern names
	ArrayLen int      // array length of a declaration, 0 for scalars
	Text     string   // raw statement, include path, define value
	Expr     *Expr    // initializer, assigned value, condition, switch selector, return value
	Target   *Expr    // assignment target if not a plain name
	Op       Operator // compound assignment operator

	Body    []Instruction // then branch of an if, while loop body
	ElseIfs []Branch
	Else    *Branch // optional else branch, its condition is unused

	Cases   []Case
	Default *Case // optional default case, its label is unused

	Members []Member // enum members or struct fields
}

// Branch is a conditional branch of an if instruction.
type Branch struct {
	Cond *Expr
	Body []Instruction
}

// Case is a case of a switch instruction. The body is emitted verbatim,
// a terminating break has to be part of it.
type Case struct {
	Label *Expr
	Body  []Instruction
}

// Member is an enum member or a struct field.
type Member struct {
	Name  Ident
	Type  Type  // field type, unused for enum members
	Value *Expr // optional enum member value
}

// Declare returns a variable declaration without initializer.
func Declare(typ Type, name Ident) Instruction {
	return Instruction{Kind: InstrDeclaration, Type: typ, Name: name}
}

// DeclareInit returns a variable declaration with initializer.
func DeclareInit(typ Type, name Ident, init *Expr) Instruction {
	return Instruction{Kind: InstrDeclaration, Type: typ, Name: name, Expr: init}
}

// DeclareArray returns an array declaration with an optional initializer.
func DeclareArray(typ Type, name Ident, length int, init *Expr) Instruction {
	return Instruction{Kind: InstrDeclaration, Type: typ, Name: name, ArrayLen: length, Expr: init}
}

// Raw returns a statement that is emitted verbatim.
func Raw(text string) Instruction {
	return Instruction{Kind: InstrRaw, Text: text}
}

// Break returns the explicit terminator of a switch case or loop.
func Break() Instruction {
	return Raw("break;")
}

// Assign returns an assignment of the value to the named variable.
func Assign(name Ident, value *Expr) Instruction {
	return Instruction{Kind: InstrAssign, Name: name, Expr: value}
}

// AssignTo returns an assignment to an arbitrary target like a struct member.
func AssignTo(target, value *Expr) Instruction {
	return Instruction{Kind: InstrAssign, Target: target, Expr: value}
}

// AssignOp returns a compound assignment like x += value.
func AssignOp(name Ident, op Operator, value *Expr) Instruction {
	return Instruction{Kind: InstrAssign, Name: name, Op: op, Expr: value}
}

// If returns a conditional instruction. Else-if and else branches can be
// added using ElseIf and Else.
func If(cond *Expr, then ...Instruction) Instruction {
	return Instruction{Kind: InstrIf, Expr: cond, Body: then}
}

// ElseIf returns a copy of the conditional with an additional else-if branch.
func (in Instruction) ElseIf(cond *Expr, body ...Instruction) Instruction {
	in.ElseIfs = append(slices.Clip(in.ElseIfs), Branch{Cond: cond, Body: body})
	return in
}

// WithElse returns a copy of the conditional with the given else branch.
func (in Instruction) WithElse(body ...Instruction) Instruction {
	in.Else = &Branch{Body: body}
	return in
}

// Switch returns a switch dispatch over the selector.
func Switch(selector *Expr, cases ...Case) Instruction {
	return Instruction{Kind: InstrSwitch, Expr: selector, Cases: cases}
}

// AddCase returns a copy of the switch with an additional case appended.
func (in Instruction) AddCase(label *Expr, body ...Instruction) Instruction {
	in.Cases = append(slices.Clip(in.Cases), Case{Label: label, Body: body})
	return in
}

// WithDefault returns a copy of the switch with the given default case.
func (in Instruction) WithDefault(body ...Instruction) Instruction {
	in.Default = &Case{Body: body}
	return in
}

// While returns a loop that runs the body as long as the condition is true.
func While(cond *Expr, body ...Instruction) Instruction {
	return Instruction{Kind: InstrWhile, Expr: cond, Body: body}
}

// Eval returns an expression statement, like a function call.
func Eval(e *Expr) Instruction {
	return Instruction{Kind: InstrEval, Expr: e}
}

// Return returns a return statement, value can be nil.
func Return(value *Expr) Instruction {
	return Instruction{Kind: InstrReturn, Expr: value}
}

// Extern returns an extern linkage declaration of the names.
func Extern(elem Type, names ...Ident) Instruction {
	return Instruction{Kind: InstrExtern, Type: elem, Names: names}
}

// ExternForm returns the extern declaration of a variable declaration, as
// needed in a header file. It returns false for other instruction kinds.
func (in Instruction) ExternForm() (Instruction, bool) {
	if in.Kind != InstrDeclaration {
		return Instruction{}, false
	}
	return Instruction{
		Kind:     InstrExtern,
		Type:     in.Type,
		Names:    []Ident{in.Name},
		ArrayLen: in.ArrayLen,
	}, true
}

// IsPreprocessor returns whether the instruction is a preprocessor directive.
func (in Instruction) IsPreprocessor() bool {
	return in.Kind == InstrInclude || in.Kind == InstrDefine
}

// Include returns an include directive. Paths in angle brackets are kept,
// all others are quoted.
func Include(path string) Instruction {
	return Instruction{Kind: InstrInclude, Text: path}
}

// Define returns a macro definition.
func Define(name Ident, value string) Instruction {
	return Instruction{Kind: InstrDefine, Name: name, Text: value}
}

// Enum returns an anonymous enum, members are emitted in the given order.
func Enum(members ...Member) Instruction {
	return Instruction{Kind: InstrEnum, Members: members}
}

// Struct returns a struct typedef with the given fields.
func Struct(name Ident, fields ...Member) Instruction {
	return Instruction{Kind: InstrStruct, Name: name, Members: fields}
}
