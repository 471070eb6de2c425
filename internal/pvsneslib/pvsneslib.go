// Package pvsneslib provides instruction and expression helpers for calls of
// the PVSnesLib runtime library.
package pvsneslib

import (
	"github.com/retroenv/snesgen/internal/ast"
)

// Header is the include path of the library header.
const Header = "<snes.h>"

// Pad key masks as defined by the library.
const (
	KeyA      = "KEY_A"
	KeyB      = "KEY_B"
	KeyX      = "KEY_X"
	KeyY      = "KEY_Y"
	KeyL      = "KEY_L"
	KeyR      = "KEY_R"
	KeyStart  = "KEY_START"
	KeySelect = "KEY_SELECT"
	KeyUp     = "KEY_UP"
	KeyDown   = "KEY_DOWN"
	KeyLeft   = "KEY_LEFT"
	KeyRight  = "KEY_RIGHT"
)

// BrrSamples is the type of a sound sample declaration.
var BrrSamples = ast.Named("brrsamples")

func call(name string, args ...*ast.Expr) ast.Instruction {
	return ast.Eval(ast.Call(name, args...))
}

// Include returns the include directive of the library header.
func Include() ast.Instruction {
	return ast.Include(Header)
}

// ConsoleDrawText draws the text at the given tile position of the text layer.
func ConsoleDrawText(x, y int, text string) ast.Instruction {
	return call("consoleDrawText", ast.Num(x), ast.Num(y), ast.Str(text))
}

// ConsoleDrawTextf draws the formatted text, the arguments are passed to the
// printf style formatting of the library.
func ConsoleDrawTextf(x, y int, format string, args ...*ast.Expr) ast.Instruction {
	callArgs := append([]*ast.Expr{ast.Num(x), ast.Num(y), ast.Str(format)}, args...)
	return call("consoleDrawText", callArgs...)
}

// WaitForVBlank waits for the next vertical blank.
func WaitForVBlank() ast.Instruction {
	return call("WaitForVBlank")
}

// SetScreenOn enables the screen output.
func SetScreenOn() ast.Instruction {
	return call("setScreenOn")
}

// SetScreenOff disables the screen output.
func SetScreenOff() ast.Instruction {
	return call("setScreenOff")
}

// DmaClearVram clears the video memory.
func DmaClearVram() ast.Instruction {
	return call("dmaClearVram")
}

// SetPaletteColor sets a palette entry to a 15 bit RGB color.
func SetPaletteColor(index, color *ast.Expr) ast.Instruction {
	return call("setPaletteColor", index, color)
}

// PadsCurrent returns the expression of the currently pressed keys of a pad.
func PadsCurrent(pad int) *ast.Expr {
	return ast.Call("padsCurrent", ast.Num(pad))
}

// KeyPressed returns the expression that tests the pad value for a key mask.
func KeyPressed(pad *ast.Expr, key string) *ast.Expr {
	return ast.Binary(ast.OpAnd, pad, ast.Ref(key))
}

// OamSet sets the attributes of a sprite.
func OamSet(id int, x, y, priority, hflip, vflip, gfx, palette *ast.Expr) ast.Instruction {
	return call("oamSet", ast.Num(id), x, y, priority, hflip, vflip, gfx, palette)
}

// BgInitTileSet loads the tiles and palette of a background.
func BgInitTileSet(bg int, tiles, palette, paletteEntry, tilesSize, paletteSize, colorMode, address *ast.Expr) ast.Instruction {
	return call("bgInitTileSet", ast.Num(bg), tiles, palette, paletteEntry, tilesSize, paletteSize, colorMode, address)
}

// BgInitMapSet loads the map of a background.
func BgInitMapSet(bg int, mapData, mapSize, size, address *ast.Expr) ast.Instruction {
	return call("bgInitMapSet", ast.Num(bg), mapData, mapSize, size, address)
}

// SizeOf returns the byte size expression of a resource that has an end marker.
func SizeOf(resource string) *ast.Expr {
	return ast.Binary(ast.OpSub,
		ast.Unary(ast.OpAddress, ast.Ref(resource+"_end")),
		ast.Unary(ast.OpAddress, ast.Ref(resource)),
	)
}

// MapUpdate updates the map buffer of the map engine.
func MapUpdate() ast.Instruction {
	return call("mapUpdate")
}

// MapVblank transfers the map buffer during vertical blank.
func MapVblank() ast.Instruction {
	return call("mapVblank")
}

// MapUpdateCamera moves the map camera to the position.
func MapUpdateCamera(x, y *ast.Expr) ast.Instruction {
	return call("mapUpdateCamera", x, y)
}

// ConsoleCopySram writes size bytes of data to the cartridge SRAM.
func ConsoleCopySram(data, size *ast.Expr) ast.Instruction {
	return call("consoleCopySram", data, size)
}

// ConsoleLoadSram reads size bytes from the cartridge SRAM into data.
func ConsoleLoadSram(data, size *ast.Expr) ast.Instruction {
	return call("consoleLoadSram", data, size)
}

// SpcProcess runs the sound processor update, once per frame.
func SpcProcess() ast.Instruction {
	return call("spcProcess")
}

// SpcLoad loads a module of the sound bank.
func SpcLoad(module *ast.Expr) ast.Instruction {
	return call("spcLoad", module)
}

// SpcPlay starts playing the loaded module at the given position.
func SpcPlay(position int) ast.Instruction {
	return call("spcPlay", ast.Num(position))
}

// SpcPlaySound plays a sound effect.
func SpcPlaySound(sound int) ast.Instruction {
	return call("spcPlaySound", ast.Num(sound))
}

// SpcPauseMusic pauses the music.
func SpcPauseMusic() ast.Instruction {
	return call("spcPauseMusic")
}

// SpcResumeMusic resumes the paused music.
func SpcResumeMusic() ast.Instruction {
	return call("spcResumeMusic")
}

// Break terminates a switch case.
func Break() ast.Instruction {
	return ast.Break()
}
