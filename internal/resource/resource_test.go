package resource

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/snesgen/internal/ast"
)

func TestRegisterAndDeclareExtern(t *testing.T) {
	reg := NewRegistry(8)
	assert.NoError(t, reg.Register(Data{Name: "x", File: "x.pic"}, 2))
	assert.NoError(t, reg.Register(Data{Name: "y", File: "y.pic"}, 2))

	instr, err := reg.DeclareExtern([]string{"x", "y"}, ast.Char)
	assert.NoError(t, err)

	lines, err := instr.Render(0)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, "extern char x, y;", lines[0])
	assert.Empty(t, reg.Unused())
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   Data
		bank   uint8
		target error
	}{
		{name: "duplicate name", data: Data{Name: "tilfont", File: "other.pic"}, bank: 1, target: ErrDuplicateResource},
		{name: "bank out of range", data: Data{Name: "map", File: "map.m16"}, bank: 8, target: ErrInvalidBank},
		{name: "invalid name", data: Data{Name: "bg-map", File: "map.m16"}, bank: 1, target: ast.ErrInvalidIdent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(8)
			assert.NoError(t, reg.Register(Data{Name: "tilfont", File: "font.pic"}, 2))

			err := reg.Register(tt.data, tt.bank)
			assert.True(t, errors.Is(err, tt.target))
			assert.Equal(t, 1, reg.Len())
		})
	}
}

func TestDeclareExternErrors(t *testing.T) {
	reg := NewRegistry(8)
	assert.NoError(t, reg.Register(Data{Name: "tilfont", File: "font.pic"}, 2))
	assert.NoError(t, reg.Register(Data{Name: "snesfont", File: "snesfont.pic", EndMarker: true}, 2))

	_, err := reg.DeclareExtern([]string{"tilfont", "palfont"}, ast.Char)
	assert.True(t, errors.Is(err, ErrDanglingExternReference))

	_, err = reg.DeclareExtern([]string{"tilfont_end"}, ast.Char)
	assert.True(t, errors.Is(err, ErrDanglingExternReference))

	_, err = reg.DeclareExtern([]string{"snesfont", "snesfont_end"}, ast.Char)
	assert.NoError(t, err)
}

func TestCheckExternMarksUsed(t *testing.T) {
	reg := NewRegistry(8)
	assert.NoError(t, reg.Register(Data{Name: "tilfont", File: "font.pic"}, 2))
	assert.NoError(t, reg.Register(Data{Name: "palfont", File: "font.pal"}, 2))

	assert.NoError(t, reg.CheckExtern(ast.Extern(ast.Char, "palfont")))
	assert.NoError(t, reg.CheckExtern(ast.Raw("u8 i;")))

	assert.Equal(t, []string{"tilfont"}, reg.Unused())
}

func TestWriteData(t *testing.T) {
	reg := NewRegistry(8)
	assert.NoError(t, reg.Register(Data{Name: "tilfont", File: "pvsneslibfont.pic"}, 2))
	assert.NoError(t, reg.Register(Data{Name: "snesfont", File: "snesfont.pic", EndMarker: true}, 1))
	assert.NoError(t, reg.Register(Data{Name: "palfont", File: "pvsneslibfont.pal"}, 2))

	buf := &strings.Builder{}
	assert.NoError(t, reg.WriteData(buf))
	s := buf.String()

	bank2 := strings.Index(s, `.section ".rodata_bank2" superfree`)
	bank1 := strings.Index(s, `.section ".rodata_bank1" superfree`)
	assert.True(t, bank2 > 0)
	assert.True(t, bank1 > bank2, "banks are written in order of first registration")
	assert.True(t, strings.Index(s, "palfont:") < bank1, "resources are grouped by bank")
	assert.Contains(t, s, "; bank $02, ROM offset $010000")
	assert.Contains(t, s, "snesfont:\n.incbin \"snesfont.pic\"\nsnesfont_end:\n")
	assert.False(t, strings.Contains(s, "tilfont_end:"))
}

func TestWriteDataHiROM(t *testing.T) {
	reg := NewRegistry(4)
	reg.SetHiROM(true)
	assert.NoError(t, reg.Register(Data{Name: "tilfont", File: "pvsneslibfont.pic"}, 1))

	buf := &strings.Builder{}
	assert.NoError(t, reg.WriteData(buf))
	assert.False(t, strings.Contains(buf.String(), "ROM offset"))
}
