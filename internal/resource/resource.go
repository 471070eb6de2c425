// Package resource implements the registry of binary data resources that are
// placed into ROM banks and referenced from the generated program by extern
// declarations.
package resource

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alttpo/snes/mapping/lorom"
	"github.com/retroenv/snesgen/internal/ast"
	"github.com/retroenv/snesgen/internal/symbols"
	"github.com/retroenv/snesgen/internal/wladx"
)

const endMarkerSuffix = "_end"

var (
	// ErrDuplicateResource is returned when a resource name is registered twice.
	ErrDuplicateResource = errors.New("duplicate resource")
	// ErrInvalidBank is returned when a bank is outside of the addressable range.
	ErrInvalidBank = errors.New("invalid bank")
	// ErrDanglingExternReference is returned when an extern declaration names
	// a resource that was never registered.
	ErrDanglingExternReference = errors.New("dangling extern reference")
)

// Data is a named binary resource that is included from a file at build time.
type Data struct {
	Name      ast.Ident
	File      string
	EndMarker bool // emit a <name>_end label after the data
}

// Registry contains all registered resources, grouped by bank.
type Registry struct {
	bankCount int
	hiROM     bool
	symbols   *symbols.Manager[Data]
}

// NewRegistry returns a new registry that accepts the banks 0 to bankCount-1.
func NewRegistry(bankCount int) *Registry {
	return &Registry{
		bankCount: bankCount,
		symbols:   symbols.New[Data](),
	}
}

// SetHiROM sets whether the ROM uses the HiROM layout, which disables the
// LoROM file offset annotations in the data file.
func (r *Registry) SetHiROM(hiROM bool) {
	r.hiROM = hiROM
}

// Register adds the resource to the given bank.
func (r *Registry) Register(data Data, bank uint8) error {
	if _, err := ast.ParseIdent(data.Name.String()); err != nil {
		return fmt.Errorf("registering resource: %w", err)
	}
	if int(bank) >= r.bankCount {
		return fmt.Errorf("%w: resource '%s' bank %d, available banks 0-%d",
			ErrInvalidBank, data.Name, bank, r.bankCount-1)
	}
	if !r.symbols.Add(bank, data.Name.String(), data) {
		return fmt.Errorf("%w: '%s'", ErrDuplicateResource, data.Name)
	}
	return nil
}

// Get returns the resource with the given name.
func (r *Registry) Get(name string) (Data, bool) {
	return r.symbols.Get(name)
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	return r.symbols.Len()
}

// DeclareExtern returns an extern declaration of the named resources with the
// given element type. Every name has to refer to a registered resource, or to
// the end marker of a resource that has one.
func (r *Registry) DeclareExtern(names []string, elem ast.Type) (ast.Instruction, error) {
	idents := make([]ast.Ident, 0, len(names))
	for _, name := range names {
		id, err := ast.ParseIdent(name)
		if err != nil {
			return ast.Instruction{}, fmt.Errorf("declaring extern: %w", err)
		}
		idents = append(idents, id)
	}

	instr := ast.Extern(elem, idents...)
	if err := r.CheckExtern(instr); err != nil {
		return ast.Instruction{}, err
	}
	return instr, nil
}

// CheckExtern validates that all names of an extern instruction refer to
// registered resources and marks them as used. Other instruction kinds are
// ignored.
func (r *Registry) CheckExtern(instr ast.Instruction) error {
	if instr.Kind != ast.InstrExtern {
		return nil
	}

	for _, id := range instr.Names {
		name := r.resolve(id.String())
		if name == "" {
			return fmt.Errorf("%w: '%s' is not a registered resource", ErrDanglingExternReference, id)
		}
		r.symbols.MarkUsed(name)
	}
	return nil
}

// resolve returns the resource name that the extern name refers to, or an
// empty string if it refers to none.
func (r *Registry) resolve(name string) string {
	if r.symbols.Has(name) {
		return name
	}

	base, ok := strings.CutSuffix(name, endMarkerSuffix)
	if !ok {
		return ""
	}
	data, ok := r.symbols.Get(base)
	if !ok || !data.EndMarker {
		return ""
	}
	return base
}

// Unused returns the names of all resources that no extern declaration
// referenced, in registration order.
func (r *Registry) Unused() []string {
	return r.symbols.Unused()
}

// WriteData writes the data.asm file that includes all resources.
func (r *Registry) WriteData(w io.Writer) error {
	banks := r.symbols.Banks()
	sections := make([]wladx.Section, 0, len(banks))

	for _, bank := range banks {
		section := wladx.Section{
			Bank: bank.Number(),
		}
		if !r.hiROM {
			section.Comment = bankOffsetComment(bank.Number())
		}

		for _, data := range bank.Items() {
			section.Labels = append(section.Labels, wladx.Label{
				Name:      data.Name.String(),
				File:      data.File,
				EndMarker: data.EndMarker,
			})
		}
		sections = append(sections, section)
	}

	if err := wladx.WriteData(w, sections); err != nil {
		return fmt.Errorf("writing resources: %w", err)
	}
	return nil
}

// bankOffsetComment returns a comment with the ROM file offset of the first
// byte of a LoROM bank.
func bankOffsetComment(bank uint8) string {
	busAddress := uint32(bank)<<16 | wladx.LoROMSlotStart
	offset, err := lorom.BusAddressToPak(busAddress)
	if err != nil {
		return fmt.Sprintf("bank $%02X", bank)
	}
	return fmt.Sprintf("bank $%02X, ROM offset $%06X", bank, offset)
}
