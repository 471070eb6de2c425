// Package wladx implements writing of WLA-DX assembler files used by the
// PVSnesLib build, the ROM header hdr.asm and the resource file data.asm.
package wladx

import (
	"fmt"
	"strings"
)

const (
	memoryMapTemplate = `;==%s==

.MEMORYMAP                      ; Begin describing the system architecture.
  SLOTSIZE $%X
  DEFAULTSLOT 0
  SLOT 0 $%04X                  ; Defines Slot 0's starting address.
  SLOT 1 $0 $2000
  SLOT 2 $2000 $E000
  SLOT 3 $0 $10000
.ENDME                          ; End MemoryMap definition

.ROMBANKSIZE $%X                ; Every ROM bank is %d KBytes in size
.ROMBANKS %d

`

	snesHeaderPart1 = `.SNESHEADER
  ID "SNES"                     ; 1-4 letter string, just leave it as "SNES"

  NAME "%s"  ; Program Title - can't be over 21 bytes,
  ;    "123456789012345678901"  ; use spaces for unused bytes of the name.

`

	headerByteTemplate = "  %-28s ; %s\n"

	snesHeaderPart2 = `.ENDSNES

.SNESNATIVEVECTOR               ; Define Native Mode interrupt vector table
  COP EmptyHandler
  BRK EmptyHandler
  ABORT EmptyHandler
  NMI VBlank
  IRQ EmptyHandler
.ENDNATIVEVECTOR

.SNESEMUVECTOR                  ; Define Emulation Mode interrupt vector table
  COP EmptyHandler
  ABORT EmptyHandler
  NMI EmptyHandler
  RESET tcc__start              ; where execution starts
  IRQBRK EmptyHandler
.ENDEMUVECTOR

.EMPTYFILL $00
`
)

// NameLength is the fixed length of the cartridge title in the SNES header.
const NameLength = 21

// Bank sizes and slot start addresses of the supported memory layouts.
const (
	LoROMBankSize  = 0x8000
	HiROMBankSize  = 0x10000
	LoROMSlotStart = 0x8000
	HiROMSlotStart = 0x0000
)

// Header contains all values of a ROM header.
type Header struct {
	Name          string
	HiROM         bool
	FastROM       bool
	CartridgeType byte
	ROMSize       byte
	SRAMSize      byte
	Country       byte
	Licensee      byte
	Version       byte
	ROMBanks      int
}

type headerByte struct {
	directive string
	value     byte
	comment   string
}

// GenerateHeader generates the hdr.asm content based on the passed ROM settings.
func GenerateHeader(h Header) (string, error) {
	if len(h.Name) != NameLength {
		return "", fmt.Errorf("header name '%s' has %d characters instead of %d", h.Name, len(h.Name), NameLength)
	}

	layout, speed := "LoRom", "SLOWROM"
	bankSize, slotStart := LoROMBankSize, LoROMSlotStart
	if h.HiROM {
		layout = "HiRom"
		bankSize, slotStart = HiROMBankSize, HiROMSlotStart
	}
	if h.FastROM {
		speed = "FASTROM"
	}

	buf := &strings.Builder{}
	if _, err := fmt.Fprintf(buf, memoryMapTemplate, layout, bankSize, slotStart,
		bankSize, bankSize/1024, h.ROMBanks); err != nil {
		return "", fmt.Errorf("writing memory map: %w", err)
	}

	if _, err := fmt.Fprintf(buf, snesHeaderPart1, h.Name); err != nil {
		return "", fmt.Errorf("writing snes header: %w", err)
	}
	if _, err := fmt.Fprintf(buf, "  %s\n  %s\n\n", speed, strings.ToUpper(layout)); err != nil {
		return "", fmt.Errorf("writing rom speed and layout: %w", err)
	}

	fields := []headerByte{
		{directive: "CARTRIDGETYPE", value: h.CartridgeType, comment: "$00 = ROM only $02 = ROM+SRAM, see WLA documentation for others"},
		{directive: "ROMSIZE", value: h.ROMSize, comment: "$08 = 2 Mbits, see WLA doc for more.."},
		{directive: "SRAMSIZE", value: h.SRAMSize, comment: "$00 = No Sram, $01 = 16 kbits, see WLA doc for more.."},
		{directive: "COUNTRY", value: h.Country, comment: "$01 = U.S.  $00 = Japan"},
		{directive: "LICENSEECODE", value: h.Licensee, comment: "Just use $00"},
		{directive: "VERSION", value: h.Version, comment: "$00 = 1.00, $01 = 1.01, etc."},
	}
	for _, b := range fields {
		directive := fmt.Sprintf("%s $%02X", b.directive, b.value)
		if _, err := fmt.Fprintf(buf, headerByteTemplate, directive, b.comment); err != nil {
			return "", fmt.Errorf("writing header byte %s: %w", b.directive, err)
		}
	}

	buf.WriteString(snesHeaderPart2)

	if h.HiROM {
		buf.WriteString("\n.BASE $C0\n")
	}
	return buf.String(), nil
}
