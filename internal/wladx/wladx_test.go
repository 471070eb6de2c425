package wladx

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestWriteData(t *testing.T) {
	sections := []Section{
		{
			Bank:    2,
			Comment: "ROM offset $010000",
			Labels: []Label{
				{Name: "tilfont", File: "pvsneslibfont.pic"},
				{Name: "palfont", File: "pvsneslibfont.pal"},
			},
		},
		{
			Bank:   1,
			Labels: []Label{{Name: "snesfont", File: "font.pic", EndMarker: true}},
		},
	}

	buf := &strings.Builder{}
	assert.NoError(t, WriteData(buf, sections))

	want := `.include "hdr.asm"

.section ".rodata_bank2" superfree
; ROM offset $010000

tilfont:
.incbin "pvsneslibfont.pic"

palfont:
.incbin "pvsneslibfont.pal"

.ends

.section ".rodata_bank1" superfree

snesfont:
.incbin "font.pic"
snesfont_end:

.ends
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("data file mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDataWithoutSections(t *testing.T) {
	buf := &strings.Builder{}
	assert.NoError(t, WriteData(buf, nil))
	assert.Equal(t, ".include \"hdr.asm\"\n", buf.String())
}

func TestGenerateHeader(t *testing.T) {
	h := Header{
		Name:     "Javasnes HelloWorld  ",
		Country:  1,
		ROMSize:  8,
		ROMBanks: 8,
	}

	s, err := GenerateHeader(h)
	assert.NoError(t, err)
	assert.Contains(t, s, ";==LoRom==")
	assert.Contains(t, s, "  SLOTSIZE $8000\n")
	assert.Contains(t, s, ".ROMBANKS 8\n")
	assert.Contains(t, s, `  NAME "Javasnes HelloWorld  "`)
	assert.Contains(t, s, "  SLOWROM\n  LOROM\n")
	assert.Contains(t, s, "  COUNTRY $01")
	assert.Contains(t, s, "  ROMSIZE $08")
	assert.Contains(t, s, ".EMPTYFILL $00\n")
	assert.False(t, strings.Contains(s, ".BASE"))
}

func TestGenerateHeaderHiROM(t *testing.T) {
	h := Header{
		Name:     "HIROM TEST           ",
		HiROM:    true,
		FastROM:  true,
		ROMBanks: 4,
	}

	s, err := GenerateHeader(h)
	assert.NoError(t, err)
	assert.Contains(t, s, ";==HiRom==")
	assert.Contains(t, s, "  SLOTSIZE $10000\n")
	assert.Contains(t, s, "  SLOT 0 $0000")
	assert.Contains(t, s, "  FASTROM\n  HIROM\n")
	assert.Contains(t, s, ".BASE $C0\n")
}

func TestGenerateHeaderInvalidName(t *testing.T) {
	_, err := GenerateHeader(Header{Name: "short", ROMBanks: 8})
	assert.ErrorContains(t, err, "instead of 21")
}
