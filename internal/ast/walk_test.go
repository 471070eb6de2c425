package ast

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestWalk(t *testing.T) {
	block := []Instruction{
		Extern(Char, "a"),
		If(Ref("x"), Extern(Char, "b")).
			ElseIf(Ref("y"), Extern(Char, "c")).
			WithElse(While(Ref("z"), Extern(Char, "d"))),
		Switch(Ref("n")).
			AddCase(Num(1), Extern(Char, "e"), Break()).
			WithDefault(Extern(Char, "f")),
	}

	var names []Ident
	err := Walk(block, func(in Instruction) error {
		if in.Kind == InstrExtern {
			names = append(names, in.Names...)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []Ident{"a", "b", "c", "d", "e", "f"}, names)
}

func TestWalkStopsAtError(t *testing.T) {
	errStop := errors.New("stop")
	block := []Instruction{
		While(Ref("x"), Raw("first();"), Raw("second();")),
	}

	visited := 0
	err := Walk(block, func(in Instruction) error {
		visited++
		if in.Kind == InstrRaw {
			return errStop
		}
		return nil
	})
	assert.True(t, errors.Is(err, errStop), "walk should return the callback error")
	assert.Equal(t, 2, visited)
}
