package boot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestAddPhase(t *testing.T) {
	s := New()

	p, err := s.AddPhase(PostLogo)
	assert.NoError(t, err)
	assert.Equal(t, PostLogo, p.Name)

	again, err := s.AddPhase(PostLogo)
	assert.NoError(t, err)
	assert.True(t, p == again, "adding a phase twice returns the existing phase")

	_, err = s.AddPhase("afterEverything")
	assert.True(t, errors.Is(err, ErrUnknownPhase))
}

func TestAddCall(t *testing.T) {
	s := New()

	err := s.AddCall(PostLogo, "setScreenOff", nil)
	assert.True(t, errors.Is(err, ErrUnknownPhase))

	_, err = s.AddPhase(PostLogo)
	assert.NoError(t, err)
	assert.NoError(t, s.AddCall(PostLogo, "setScreenOff", nil))
	assert.NoError(t, s.AddCall(PostLogo, "consoleInitText", []string{"0", "16 * 2", "&tilfont", "&palfont"}))

	err = s.AddCall(PostLogo, "console-init", nil)
	assert.Error(t, err)

	p, ok := s.Phase(PostLogo)
	assert.True(t, ok)
	assert.Len(t, p.Calls, 2)
}

func TestRender(t *testing.T) {
	s := New()
	// phases are rendered in platform order, not in the order they were added
	_, err := s.AddPhase(PostLogo)
	assert.NoError(t, err)
	_, err = s.AddPhase(BetweenSPCVRAMLoad)
	assert.NoError(t, err)

	assert.NoError(t, s.AddCall(PostLogo, "setScreenOff", nil))
	assert.NoError(t, s.AddCall(PostLogo, "consoleSetTextMapPtr", []string{"0x6800"}))
	assert.NoError(t, s.AddCall(PostLogo, "setScreenOn", []string{}))
	assert.NoError(t, s.AddCall(BetweenSPCVRAMLoad, "spcSetBank", []string{"&__SOUNDBANK__"}))

	lines, err := s.Render(1)
	assert.NoError(t, err)

	want := []string{
		"\tspcBoot();",
		"\tspcSetBank(&__SOUNDBANK__);",
		"\tsetMode(BG_MODE1, 0);",
		"\tbgSetDisable(1);",
		"\tbgSetDisable(2);",
		"\tsetScreenOn();",
		"\tsetScreenOff();",
		"\tconsoleSetTextMapPtr(0x6800);",
		"\tsetScreenOn();",
		"\twhile (1) {",
		"\t\tprocessor();",
		"\t\tWaitForVBlank();",
		"\t}",
		"\treturn 0;",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("main body mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderWithLogo(t *testing.T) {
	s := New()
	s.SetLogo(DefaultLogo())
	_, err := s.AddPhase(PreLogoWait)
	assert.NoError(t, err)
	assert.NoError(t, s.AddCall(PreLogoWait, "spcProcess", nil))

	lines, err := s.Render(0)
	assert.NoError(t, err)

	want := []string{
		"u8 logoFrame;",
		"spcBoot();",
		"bgInitTileSet(0, &javasnes_patterns, &javasnes_palette, 0, (&javasnes_patterns_end - &javasnes_patterns), 16 * 2, BG_16COLORS, 0x4000);",
		"bgInitMapSet(0, &javasnes_map, (&javasnes_map_end - &javasnes_map), SC_32x32, 0x0000);",
		"setMode(BG_MODE1, 0);",
		"bgSetDisable(1);",
		"bgSetDisable(2);",
		"setScreenOn();",
		"spcProcess();",
		"logoFrame = 0;",
		"while (logoFrame < 120) {",
		"\tWaitForVBlank();",
		"\tlogoFrame++;",
		"}",
		"dmaClearVram();",
		"while (1) {",
		"\tprocessor();",
		"\tWaitForVBlank();",
		"}",
		"return 0;",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("main body mismatch (-want +got):\n%s", diff)
	}
}

func TestLogoExterns(t *testing.T) {
	lines, err := DefaultLogo().Externs().Render(0)
	assert.NoError(t, err)
	assert.Equal(t, "extern char javasnes_patterns, javasnes_patterns_end, javasnes_map, javasnes_map_end, javasnes_palette;", lines[0])
}

func TestRenderInvalidArgument(t *testing.T) {
	s := New()
	_, err := s.AddPhase(PostLogo)
	assert.NoError(t, err)
	assert.NoError(t, s.AddCall(PostLogo, "consoleInitText", []string{"0", ""}))

	_, err = s.Render(0)
	assert.Error(t, err)
}
