package ast

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func printCall(s string) Instruction {
	return Eval(Call("print", Str(s)))
}

//nolint:funlen // test functions can be long
func TestInstructionRender(t *testing.T) {
	tests := []struct {
		name   string
		instr  Instruction
		indent int
		want   []string
	}{
		{
			name:  "declaration",
			instr: Declare(U8, "i"),
			want:  []string{"u8 i;"},
		},
		{
			name:  "declaration with initializer",
			instr: DeclareInit(U32, "timer", Num(0)),
			want:  []string{"u32 timer = 0;"},
		},
		{
			name:  "array declaration",
			instr: DeclareArray(Char, "text", 16, nil),
			want:  []string{"char text[16];"},
		},
		{
			name:   "raw statement",
			instr:  Raw("oamInit();"),
			indent: 2,
			want:   []string{"\t\toamInit();"},
		},
		{
			name:  "assignment",
			instr: Assign("x", Binary(OpAdd, Ref("x"), Num(1))),
			want:  []string{"x = (x + 1);"},
		},
		{
			name:  "compound assignment",
			instr: AssignOp("score", OpAdd, Num(10)),
			want:  []string{"score += 10;"},
		},
		{
			name:  "member assignment",
			instr: AssignTo(Ref("monster.x"), Num(3)),
			want:  []string{"monster.x = 3;"},
		},
		{
			name:  "return value",
			instr: Return(Num(0)),
			want:  []string{"return 0;"},
		},
		{
			name:  "extern",
			instr: Extern(Char, "tilfont", "palfont"),
			want:  []string{"extern char tilfont, palfont;"},
		},
		{
			name:  "system include",
			instr: Include("<snes.h>"),
			want:  []string{"#include <snes.h>"},
		},
		{
			name:  "local include",
			instr: Include("globals.h"),
			want:  []string{`#include "globals.h"`},
		},
		{
			name:  "define",
			instr: Define("MAX_SPRITES", "128"),
			want:  []string{"#define MAX_SPRITES 128"},
		},
		{
			name:  "enum",
			instr: Enum(Member{Name: "IDLE"}, Member{Name: "RUNNING", Value: Num(4)}),
			want:  []string{"enum {", "\tIDLE,", "\tRUNNING = 4", "};"},
		},
		{
			name:  "struct",
			instr: Struct("Monster", Member{Name: "x", Type: S16}, Member{Name: "y", Type: S16}),
			want:  []string{"typedef struct {", "\ts16 x;", "\ts16 y;", "} Monster;"},
		},
		{
			name:   "while loop",
			instr:  While(Num(1), Eval(Call("processor")), Eval(Call("WaitForVBlank"))),
			indent: 1,
			want: []string{
				"\twhile (1) {",
				"\t\tprocessor();",
				"\t\tWaitForVBlank();",
				"\t}",
			},
		},
		{
			name:  "if with empty body",
			instr: If(Ref("ready")),
			want:  []string{"if (ready) {", "}"},
		},
		{
			name:  "empty switch",
			instr: Switch(Ref("state")),
			want:  []string{"switch (state) {", "}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.instr.Render(tt.indent)
			assert.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rendered lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIfElseChain(t *testing.T) {
	instr := If(Binary(OpGreater, Ref("a"), Ref("b")), printCall("gt")).
		ElseIf(Binary(OpLess, Ref("a"), Ref("b")), printCall("lt")).
		WithElse(printCall("eq"))

	got, err := instr.Render(0)
	assert.NoError(t, err)

	want := []string{
		"if (a > b) {",
		`	print("gt");`,
		"} else if (a < b) {",
		`	print("lt");`,
		"} else {",
		`	print("eq");`,
		"}",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered lines mismatch (-want +got):\n%s", diff)
	}
}

func TestElseIfDoesNotShareBranches(t *testing.T) {
	base := If(Ref("a"), printCall("a")).ElseIf(Ref("b"), printCall("b"))
	first := base.ElseIf(Ref("c"), printCall("c"))
	second := base.ElseIf(Ref("d"), printCall("d"))

	assert.Len(t, base.ElseIfs, 1)
	assert.Equal(t, "c", first.ElseIfs[1].Cond.Value)
	assert.Equal(t, "d", second.ElseIfs[1].Cond.Value)
}

func TestSwitchRender(t *testing.T) {
	instr := Switch(Ref("pad0"),
		Case{Label: Ref("KEY_A"), Body: []Instruction{printCall("a")}},
	).
		AddCase(Ref("KEY_B"), printCall("b"), Break()).
		AddCase(Ref("KEY_X")).
		WithDefault(printCall("none"), Break())

	got, err := instr.Render(1)
	assert.NoError(t, err)

	want := []string{
		"\tswitch (pad0) {",
		"\tcase KEY_A:",
		`		print("a");`,
		"\tcase KEY_B:",
		`		print("b");`,
		"\t\tbreak;",
		"\tcase KEY_X:",
		"\tdefault:",
		`		print("none");`,
		"\t\tbreak;",
		"\t}",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	block := []Instruction{
		Declare(U16, "counter"),
		While(Binary(OpLess, Ref("counter"), Num(10)),
			If(Binary(OpEqual, Binary(OpMod, Ref("counter"), Num(2)), Num(0)),
				printCall("even")).WithElse(printCall("odd")),
			Eval(Unary(OpPostInc, Ref("counter"))),
		),
	}

	first, err := RenderBlock(block, 0)
	assert.NoError(t, err)
	second, err := RenderBlock(block, 0)
	assert.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second render differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, "while (counter < 10) {", first[1])
	assert.Equal(t, "\tif ((counter % 2) == 0) {", first[2])
}

func TestInstructionRenderInvalid(t *testing.T) {
	tests := []struct {
		name   string
		instr  Instruction
		target error
	}{
		{name: "declaration without type", instr: Declare(Type{}, "x"), target: ErrInvalidOperand},
		{name: "declaration with invalid name", instr: Declare(U8, "1x"), target: ErrInvalidIdent},
		{name: "assignment without value", instr: Assign("x", nil), target: ErrInvalidOperand},
		{name: "comparison as compound operator", instr: AssignOp("x", OpLess, Num(1)), target: ErrInvalidOperand},
		{name: "extern without names", instr: Extern(Char), target: ErrInvalidOperand},
		{name: "if without condition", instr: If(nil), target: ErrInvalidOperand},
		{name: "nested invalid operand", instr: While(Num(1), Eval(Ref(""))), target: ErrInvalidOperand},
		{name: "unknown kind", instr: Instruction{}, target: errUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.instr.Render(0)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
		})
	}
}

func TestExternForm(t *testing.T) {
	tests := []struct {
		name  string
		instr Instruction
		want  string
	}{
		{name: "scalar", instr: DeclareInit(U32, "timer", Num(0)), want: "extern u32 timer;"},
		{name: "array", instr: DeclareArray(Char, "text", 16, nil), want: "extern char text[16];"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ok := tt.instr.ExternForm()
			assert.True(t, ok)
			lines, err := ext.Render(0)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, lines[0])
		})
	}

	_, ok := Raw("oamInit();").ExternForm()
	assert.False(t, ok)
}
