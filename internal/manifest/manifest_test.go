package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/boot"
	"github.com/retroenv/snesgen/internal/makefile"
	"github.com/retroenv/snesgen/internal/memmap"
	"github.com/retroenv/snesgen/internal/project"
	"github.com/retroenv/snesgen/internal/resource"
)

const helloWorld = `
project "helloworld" {
  rom_name    = "JavaSnes_HelloWorld"
  destination = "build"
  assets      = ["pvsneslibfont.png"]
}

header {
  name     = "Javasnes HelloWorld  "
  country  = "japan"
  rom_size = 9
}

resource "tilfont" {
  file = "pvsneslibfont.pic"
  bank = 2
}

resource "palfont" {
  file = "pvsneslibfont.pal"
  bank = 2
}

extern {
  names = ["tilfont", "palfont"]
}

global {
  statements = ["u32 timer = 0;"]
}

boot "postLogoCommands" {
  call "setScreenOff" {}
  call "consoleInitText" {
    args = [0, "16 * 2", "&tilfont", "&palfont"]
  }
}

routine "printHelloWorld" {
  statements = ["consoleDrawText(10, 10, \"Hello World!\");"]
}

routine "countTimer" {
  period     = 60
  statements = ["timer++;"]
}

rule "pvsneslibfont.pic" {
  prerequisites = "pvsneslibfont.png"
  recipe        = "$(GFXCONV) -s 8 -o 16 -u 16 -p -e 0 -i $<"
}

rule "bitmaps" {
  prerequisites = "pvsneslibfont.pic"
  phony         = true
}

makefile {
  all       = "bitmaps $(ROMNAME).sfc"
  variables = {
    SMCONVFLAGS = "-s -o $(SOUNDBANK) -V -b 5"
    AUDIOFILES  = "res/music.it"
  }
}
`

//nolint:funlen // test functions can be long
func TestConfig(t *testing.T) {
	file, err := Parse([]byte(helloWorld), "helloworld.hcl")
	assert.NoError(t, err)
	assert.Equal(t, "helloworld", file.Project.Name)

	cfg, err := file.Config("project")
	assert.NoError(t, err)

	assert.Equal(t, filepath.Join("project", "build"), cfg.Destination)
	assert.Equal(t, []string{filepath.Join("project", "pvsneslibfont.png")}, cfg.Assets)
	assert.Equal(t, memmap.CountryJapan, cfg.Mapping.Country)
	assert.Equal(t, byte(9), cfg.Mapping.ROMSize)
	assert.Equal(t, memmap.DefaultLoROMBanks, cfg.Mapping.ROMBanks)
	assert.Equal(t, 2, cfg.Registry.Len())

	assert.Len(t, cfg.Globals, 2)
	lines, err := cfg.Globals[0].Render(0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"extern char tilfont, palfont;"}, lines)

	body, err := cfg.Boot.Render(0)
	assert.NoError(t, err)
	assert.Equal(t, "setScreenOff();", body[5])
	assert.Equal(t, "consoleInitText(0, 16 * 2, &tilfont, &palfont);", body[6])

	period, ok := cfg.Scheduler.Period("countTimer")
	assert.True(t, ok)
	assert.Equal(t, uint(60), period)
	assert.Len(t, cfg.Scheduler.Routines(), 2)

	all, err := cfg.Makefile.Rule(makefile.AllTarget)
	assert.NoError(t, err)
	assert.Equal(t, "bitmaps $(ROMNAME).sfc", all.Prerequisites)
	assert.True(t, cfg.Makefile.IsPhony("bitmaps"))
	assert.False(t, cfg.Makefile.IsPhony("pvsneslibfont.pic"))
	assert.Len(t, cfg.Makefile.Rules(), 4)
}

func TestConfigBuild(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "pvsneslibfont.png"), []byte("png"), 0o644))
	path := filepath.Join(dir, "helloworld.hcl")
	assert.NoError(t, os.WriteFile(path, []byte(helloWorld), 0o644))

	file, err := Load(path)
	assert.NoError(t, err)
	cfg, err := file.Config(dir)
	assert.NoError(t, err)

	result, err := project.Build(context.Background(), log.NewTestLogger(t), cfg)
	assert.NoError(t, err)
	assert.Equal(t, []string{"pvsneslibfont.png"}, result.Assets)

	mk, err := os.ReadFile(filepath.Join(dir, "build", makefile.FileName))
	assert.NoError(t, err)
	assert.Contains(t, string(mk), "AUDIOFILES := res/music.it\nSMCONVFLAGS := -s -o $(SOUNDBANK) -V -b 5\n")
	assert.Contains(t, string(mk), "pvsneslibfont.pic: pvsneslibfont.png\n\t$(GFXCONV) -s 8 -o 16 -u 16 -p -e 0 -i $<\n")

	mainFile, err := os.ReadFile(filepath.Join(dir, "build", project.MainFile))
	assert.NoError(t, err)
	assert.Contains(t, string(mainFile), "\tif ((processorTick % 60) == 0) {\n\t\tcountTimer();\n\t}\n")
}

//nolint:funlen // test functions can be long
func TestConfigErrors(t *testing.T) {
	const base = `
project "test" {
  rom_name = "test"
}
resource "tilfont" {
  file = "font.pic"
  bank = 1
}
`
	const header = `
header {
  name = "SNESGEN TEST PROJECT "
}
`
	tests := []struct {
		name   string
		src    string
		target error
	}{
		{
			name:   "unknown boot phase",
			src:    header + `boot "preMainCommands" {}`,
			target: boot.ErrUnknownPhase,
		},
		{
			name: "args not a list",
			src: header + `
boot "postLogoCommands" {
  call "setScreenOn" {
    args = "1"
  }
}`,
			target: errInvalidValue,
		},
		{
			name:   "dangling extern",
			src:    header + `extern { names = ["palfont"] }`,
			target: resource.ErrDanglingExternReference,
		},
		{
			name:   "end marker of resource without end marker",
			src:    header + `extern { names = ["tilfont_end"] }`,
			target: resource.ErrDanglingExternReference,
		},
		{
			name: "bank out of range",
			src: header + `
resource "map" {
  file = "map.m16"
  bank = 8
}`,
			target: resource.ErrInvalidBank,
		},
		{
			name: "duplicate resource",
			src: header + `
resource "tilfont" {
  file = "other.pic"
  bank = 2
}`,
			target: resource.ErrDuplicateResource,
		},
		{
			name: "negative period",
			src: header + `
routine "tick" {
  period     = -1
  statements = []
}`,
			target: errInvalidValue,
		},
		{
			name: "unsupported country",
			src: `
header {
  name    = "SNESGEN TEST PROJECT "
  country = "mars"
}`,
			target: errInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := Parse([]byte(base+tt.src), "test.hcl")
			assert.NoError(t, err)

			_, err = file.Config("")
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), err.Error())
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`project "x" {`), "broken.hcl")
	assert.ErrorContains(t, err, "parsing manifest broken.hcl")

	_, err = Parse([]byte(`header { name = "x" }`), "missing.hcl")
	assert.ErrorContains(t, err, "decoding manifest missing.hcl")
}
