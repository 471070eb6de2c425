// Package memmap implements the ROM memory mapping and header model.
package memmap

import (
	"errors"
	"fmt"
	"io"

	"github.com/alttpo/snes"
	"github.com/retroenv/snesgen/internal/wladx"
)

// ErrIncompleteMemoryMapping is returned when a memory mapping can not be rendered.
var ErrIncompleteMemoryMapping = errors.New("incomplete memory mapping")

// Default bank counts of the supported layouts, both result in 256 KByte ROMs.
const (
	DefaultLoROMBanks = 8
	DefaultHiROMBanks = 4
)

// Country codes of the header.
var (
	CountryJapan        = byte(snes.RegionJapan)
	CountryNorthAmerica = byte(snes.RegionNorthAmerica)
)

// Mapping describes the ROM layout and header fields of the generated ROM.
type Mapping struct {
	Name          string // cartridge title, exactly 21 characters
	HiROM         bool
	FastROM       bool
	CartridgeType byte // $00 ROM only, $02 ROM and SRAM
	ROMSize       byte // $08 = 2 Mbits
	SRAMSize      byte // $00 no SRAM, $01 16 kbits
	Country       byte
	Licensee      byte
	Version       byte
	ROMBanks      int
}

// Default returns a LoROM SlowROM mapping with the default header values
// of PVSnesLib. The name has to be set by the caller.
func Default() Mapping {
	return Mapping{
		ROMSize:  0x08,
		Country:  CountryNorthAmerica,
		ROMBanks: DefaultLoROMBanks,
	}
}

// Validate returns an error if the mapping can not be rendered.
func (m Mapping) Validate() error {
	if len(m.Name) != wladx.NameLength {
		return fmt.Errorf("%w: name '%s' has %d characters, expected exactly %d",
			ErrIncompleteMemoryMapping, m.Name, len(m.Name), wladx.NameLength)
	}
	for _, c := range m.Name {
		if c < 0x20 || c > 0x7e {
			return fmt.Errorf("%w: name '%s' contains non ASCII characters", ErrIncompleteMemoryMapping, m.Name)
		}
	}

	maxBanks := 128
	if m.HiROM {
		maxBanks = 64
	}
	if m.ROMBanks <= 0 || m.ROMBanks > maxBanks {
		return fmt.Errorf("%w: rom bank count %d is not in range 1-%d",
			ErrIncompleteMemoryMapping, m.ROMBanks, maxBanks)
	}
	if m.ROMSize == 0 {
		return fmt.Errorf("%w: rom size is not set", ErrIncompleteMemoryMapping)
	}
	return nil
}

// BankSize returns the size of a single ROM bank in bytes.
func (m Mapping) BankSize() int {
	if m.HiROM {
		return wladx.HiROMBankSize
	}
	return wladx.LoROMBankSize
}

// Render writes the hdr.asm file of the mapping.
func (m Mapping) Render(w io.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s, err := wladx.GenerateHeader(wladx.Header{
		Name:          m.Name,
		HiROM:         m.HiROM,
		FastROM:       m.FastROM,
		CartridgeType: m.CartridgeType,
		ROMSize:       m.ROMSize,
		SRAMSize:      m.SRAMSize,
		Country:       m.Country,
		Licensee:      m.Licensee,
		Version:       m.Version,
		ROMBanks:      m.ROMBanks,
	})
	if err != nil {
		return fmt.Errorf("generating header: %w", err)
	}

	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// MakeHeaderLines returns the lines that the makefile needs to build a ROM
// with this mapping.
func (m Mapping) MakeHeaderLines() []string {
	var lines []string
	if m.HiROM {
		lines = append(lines, "HIROM=1")
	}
	if m.FastROM {
		lines = append(lines, "FASTROM=1")
	}
	return lines
}
