// Package manifest implements loading of HCL project manifests that describe
// a complete generated project: header, resources, globals, boot calls,
// scheduled routines and build rules.
package manifest

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// File contains all blocks of a manifest file.
type File struct {
	Project   Project      `hcl:"project,block"`
	Header    Header       `hcl:"header,block"`
	Logo      *Logo        `hcl:"logo,block"`
	Resources []*Resource  `hcl:"resource,block"`
	Externs   []*Extern    `hcl:"extern,block"`
	Globals   []*Global    `hcl:"global,block"`
	Boot      []*BootPhase `hcl:"boot,block"`
	Functions []*Function  `hcl:"function,block"`
	Routines  []*Routine   `hcl:"routine,block"`
	Rules     []*Rule      `hcl:"rule,block"`
	Makefile  *Makefile    `hcl:"makefile,block"`
}

// Project is the project block.
type Project struct {
	Name        string   `hcl:"name,label"`
	ROMName     string   `hcl:"rom_name"`
	Destination string   `hcl:"destination,optional"`
	Layout      string   `hcl:"layout,optional"`
	Assets      []string `hcl:"assets,optional"`
	AssetDir    string   `hcl:"asset_dir,optional"`
}

// Header is the header block with the memory mapping settings. Numeric fields
// that are not set use the defaults of the memory mapping.
type Header struct {
	Name          string `hcl:"name"`
	HiROM         bool   `hcl:"hirom,optional"`
	FastROM       bool   `hcl:"fastrom,optional"`
	CartridgeType *int   `hcl:"cartridge_type,optional"`
	ROMSize       *int   `hcl:"rom_size,optional"`
	SRAMSize      *int   `hcl:"sram_size,optional"`
	Country       string `hcl:"country,optional"`
	Licensee      *int   `hcl:"licensee,optional"`
	Version       *int   `hcl:"version,optional"`
	ROMBanks      *int   `hcl:"rom_banks,optional"`
}

// Logo is the optional splash logo block, unset fields use the defaults.
type Logo struct {
	Patterns string `hcl:"patterns,optional"`
	Map      string `hcl:"map,optional"`
	Palette  string `hcl:"palette,optional"`
	Frames   int    `hcl:"frames,optional"`
}

// Resource is a binary data resource block.
type Resource struct {
	Name      string `hcl:"name,label"`
	File      string `hcl:"file"`
	Bank      int    `hcl:"bank"`
	EndMarker bool   `hcl:"end_marker,optional"`
}

// Extern declares registered resources as extern globals.
type Extern struct {
	Names []string `hcl:"names"`
	Type  string   `hcl:"type,optional"` // char if not set
}

// Global contains global statements that are emitted verbatim.
type Global struct {
	Statements []string `hcl:"statements"`
}

// BootPhase contains the calls of one boot phase.
type BootPhase struct {
	Name  string      `hcl:"name,label"`
	Calls []*BootCall `hcl:"call,block"`
}

// BootCall is a call of a boot phase. Args is a list of numbers and strings,
// strings are emitted verbatim as C source text.
type BootCall struct {
	Name string     `hcl:"name,label"`
	Args *cty.Value `hcl:"args,optional"`
}

// Function is a function that is not scheduled.
type Function struct {
	Name       string   `hcl:"name,label"`
	ReturnType string   `hcl:"return_type,optional"`
	Statements []string `hcl:"statements"`
}

// Routine is a function that the dispatch function calls every period ticks.
type Routine struct {
	Name       string   `hcl:"name,label"`
	Period     int      `hcl:"period,optional"`
	ReturnType string   `hcl:"return_type,optional"`
	Statements []string `hcl:"statements"`
}

// Rule is a makefile rule block.
type Rule struct {
	Target        string `hcl:"target,label"`
	Prerequisites string `hcl:"prerequisites,optional"`
	Recipe        string `hcl:"recipe,optional"`
	Phony         bool   `hcl:"phony,optional"`
}

// Makefile contains the settings of the makefile.
type Makefile struct {
	All         string            `hcl:"all,optional"`
	HeaderLines []string          `hcl:"header_lines,optional"`
	Variables   map[string]string `hcl:"variables,optional"`
}

// Load reads and decodes the manifest file.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes the manifest source. The filename is only used in
// diagnostic messages.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing manifest %s: %w", filename, diags)
	}

	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("decoding manifest %s: %w", filename, diags)
	}
	return &file, nil
}
