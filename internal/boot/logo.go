package boot

import (
	"github.com/retroenv/snesgen/internal/ast"
	"github.com/retroenv/snesgen/internal/pvsneslib"
)

const logoCounter = "logoFrame"

// DefaultLogoFrames is the number of frames that the splash logo is shown,
// 2 seconds on NTSC systems.
const DefaultLogoFrames = 120

// Logo describes the splash logo that is loaded into background 0 during boot.
// The pattern and map resources need an end marker, as their sizes are
// calculated from it.
type Logo struct {
	Patterns ast.Ident
	Map      ast.Ident
	Palette  ast.Ident
	Frames   int
}

// DefaultLogo returns the logo settings with the resource names used by the
// bundled logo assets.
func DefaultLogo() Logo {
	return Logo{
		Patterns: "javasnes_patterns",
		Map:      "javasnes_map",
		Palette:  "javasnes_palette",
		Frames:   DefaultLogoFrames,
	}
}

// Externs returns the extern declaration of all logo resources.
func (l Logo) Externs() ast.Instruction {
	return ast.Extern(ast.Char,
		l.Patterns, l.Patterns+"_end",
		l.Map, l.Map+"_end",
		l.Palette,
	)
}

func (l Logo) load() []ast.Instruction {
	return []ast.Instruction{
		pvsneslib.BgInitTileSet(0,
			ast.Unary(ast.OpAddress, ast.Ref(l.Patterns.String())),
			ast.Unary(ast.OpAddress, ast.Ref(l.Palette.String())),
			ast.Num(0),
			pvsneslib.SizeOf(l.Patterns.String()),
			ast.Lit("16 * 2", ast.Int),
			ast.Ref("BG_16COLORS"),
			ast.Hex(0x4000, 4),
		),
		pvsneslib.BgInitMapSet(0,
			ast.Unary(ast.OpAddress, ast.Ref(l.Map.String())),
			pvsneslib.SizeOf(l.Map.String()),
			ast.Ref("SC_32x32"),
			ast.Hex(0x0000, 4),
		),
	}
}

func (l Logo) wait() []ast.Instruction {
	frames := l.Frames
	if frames <= 0 {
		frames = DefaultLogoFrames
	}

	return []ast.Instruction{
		ast.Assign(logoCounter, ast.Num(0)),
		ast.While(ast.Binary(ast.OpLess, ast.Ref(logoCounter), ast.Num(frames)),
			pvsneslib.WaitForVBlank(),
			ast.Eval(ast.Unary(ast.OpPostInc, ast.Ref(logoCounter))),
		),
		pvsneslib.DmaClearVram(),
	}
}
