package manifest

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/retroenv/snesgen/internal/ast"
	"github.com/retroenv/snesgen/internal/boot"
	"github.com/retroenv/snesgen/internal/makefile"
	"github.com/retroenv/snesgen/internal/memmap"
	"github.com/retroenv/snesgen/internal/project"
	"github.com/retroenv/snesgen/internal/resource"
	"github.com/retroenv/snesgen/internal/scheduler"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// DefaultDestination is the output directory used when the manifest does not
// set one, relative to the manifest directory.
const DefaultDestination = "output"

var errInvalidValue = errors.New("invalid manifest value")

// Config builds the project models of the manifest. Relative asset and
// destination paths are resolved against baseDir, usually the directory of
// the manifest file.
func (f *File) Config(baseDir string) (project.Config, error) {
	if f.Project.ROMName == "" {
		return project.Config{}, fmt.Errorf("%w: project '%s' has an empty rom_name", errInvalidValue, f.Project.Name)
	}

	mapping, err := f.Header.mapping()
	if err != nil {
		return project.Config{}, err
	}

	registry, err := f.registry(mapping)
	if err != nil {
		return project.Config{}, err
	}

	globals, err := f.globals(registry)
	if err != nil {
		return project.Config{}, err
	}

	sequence, err := f.bootSequence()
	if err != nil {
		return project.Config{}, err
	}

	functions := make([]*scheduler.Routine, 0, len(f.Functions))
	for _, fn := range f.Functions {
		routine, err := newRoutine(fn.Name, fn.ReturnType, fn.Statements)
		if err != nil {
			return project.Config{}, fmt.Errorf("function '%s': %w", fn.Name, err)
		}
		functions = append(functions, routine)
	}

	sched, err := f.scheduler()
	if err != nil {
		return project.Config{}, err
	}

	mk, err := f.makefile()
	if err != nil {
		return project.Config{}, err
	}

	destination := f.Project.Destination
	if destination == "" {
		destination = DefaultDestination
	}

	return project.Config{
		Destination: resolvePath(baseDir, destination),
		Layout:      project.Layout(f.Project.Layout),
		Globals:     globals,
		Functions:   functions,
		Scheduler:   sched,
		Boot:        sequence,
		Registry:    registry,
		Mapping:     mapping,
		Makefile:    mk,
		Assets:      resolvePaths(baseDir, f.Project.Assets),
		AssetDir:    f.Project.AssetDir,
	}, nil
}

func (h Header) mapping() (memmap.Mapping, error) {
	m := memmap.Default()
	m.Name = h.Name
	m.HiROM = h.HiROM
	m.FastROM = h.FastROM
	if h.HiROM {
		m.ROMBanks = memmap.DefaultHiROMBanks
	}

	fields := []struct {
		name  string
		value *int
		dst   *byte
	}{
		{"cartridge_type", h.CartridgeType, &m.CartridgeType},
		{"rom_size", h.ROMSize, &m.ROMSize},
		{"sram_size", h.SRAMSize, &m.SRAMSize},
		{"licensee", h.Licensee, &m.Licensee},
		{"version", h.Version, &m.Version},
	}
	for _, field := range fields {
		if field.value == nil {
			continue
		}
		if *field.value < 0 || *field.value > 0xff {
			return memmap.Mapping{}, fmt.Errorf("%w: header %s %d is not a byte value",
				errInvalidValue, field.name, *field.value)
		}
		*field.dst = byte(*field.value)
	}

	if h.ROMBanks != nil {
		m.ROMBanks = *h.ROMBanks
	}

	switch strings.ToLower(h.Country) {
	case "":
	case "japan":
		m.Country = memmap.CountryJapan
	case "north_america", "usa":
		m.Country = memmap.CountryNorthAmerica
	default:
		return memmap.Mapping{}, fmt.Errorf("%w: unsupported header country '%s'", errInvalidValue, h.Country)
	}
	return m, nil
}

func (f *File) registry(mapping memmap.Mapping) (*resource.Registry, error) {
	registry := resource.NewRegistry(mapping.ROMBanks)
	registry.SetHiROM(mapping.HiROM)

	for _, res := range f.Resources {
		if res.Bank < 0 || res.Bank > 0xff {
			return nil, fmt.Errorf("%w: resource '%s' bank %d", resource.ErrInvalidBank, res.Name, res.Bank)
		}

		data := resource.Data{
			Name:      ast.Ident(res.Name),
			File:      res.File,
			EndMarker: res.EndMarker,
		}
		if err := registry.Register(data, uint8(res.Bank)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// globals returns the extern declarations followed by the verbatim global
// statements.
func (f *File) globals(registry *resource.Registry) ([]ast.Instruction, error) {
	var globals []ast.Instruction

	for _, ext := range f.Externs {
		typ := ast.Char
		if ext.Type != "" {
			var err error
			typ, err = ast.ParseType(ext.Type)
			if err != nil {
				return nil, fmt.Errorf("extern declaration: %w", err)
			}
		}

		instr, err := registry.DeclareExtern(ext.Names, typ)
		if err != nil {
			return nil, err
		}
		globals = append(globals, instr)
	}

	for _, global := range f.Globals {
		for _, statement := range global.Statements {
			globals = append(globals, ast.Raw(statement))
		}
	}
	return globals, nil
}

func (f *File) bootSequence() (*boot.Sequence, error) {
	sequence := boot.New()

	for _, phase := range f.Boot {
		if _, err := sequence.AddPhase(phase.Name); err != nil {
			return nil, err
		}

		for _, call := range phase.Calls {
			args, err := callArguments(call.Args)
			if err != nil {
				return nil, fmt.Errorf("boot call '%s': %w", call.Name, err)
			}
			if err := sequence.AddCall(phase.Name, call.Name, args); err != nil {
				return nil, err
			}
		}
	}

	if f.Logo != nil {
		logo, err := f.Logo.logo()
		if err != nil {
			return nil, err
		}
		sequence.SetLogo(logo)
	}
	return sequence, nil
}

func (l *Logo) logo() (boot.Logo, error) {
	logo := boot.DefaultLogo()
	if l.Frames > 0 {
		logo.Frames = l.Frames
	}

	names := []struct {
		value string
		dst   *ast.Ident
	}{
		{l.Patterns, &logo.Patterns},
		{l.Map, &logo.Map},
		{l.Palette, &logo.Palette},
	}
	for _, name := range names {
		if name.value == "" {
			continue
		}
		id, err := ast.ParseIdent(name.value)
		if err != nil {
			return boot.Logo{}, fmt.Errorf("logo: %w", err)
		}
		*name.dst = id
	}
	return logo, nil
}

// callArguments converts a list of numbers and strings to argument source
// text. A missing list results in a call without arguments.
func callArguments(value *cty.Value) ([]string, error) {
	if value == nil || value.IsNull() {
		return nil, nil
	}

	typ := value.Type()
	if !typ.IsTupleType() && !typ.IsListType() {
		return nil, fmt.Errorf("%w: args has to be a list, got %s", errInvalidValue, typ.FriendlyName())
	}
	if !value.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: args contains unknown values", errInvalidValue)
	}

	args := make([]string, 0, value.LengthInt())
	for it := value.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		s, err := convert.Convert(elem, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %s: %w", errInvalidValue, elem.Type().FriendlyName(), err)
		}
		if s.IsNull() {
			return nil, fmt.Errorf("%w: argument is null", errInvalidValue)
		}
		args = append(args, s.AsString())
	}
	return args, nil
}

func (f *File) scheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New()

	for _, r := range f.Routines {
		if r.Period < 0 {
			return nil, fmt.Errorf("%w: routine '%s' has negative period %d", errInvalidValue, r.Name, r.Period)
		}

		routine, err := newRoutine(r.Name, r.ReturnType, r.Statements)
		if err != nil {
			return nil, fmt.Errorf("routine '%s': %w", r.Name, err)
		}
		if err := sched.AddRoutine(routine, uint(r.Period)); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

func newRoutine(name, returnType string, statements []string) (*scheduler.Routine, error) {
	id, err := ast.ParseIdent(name)
	if err != nil {
		return nil, err
	}

	routine := &scheduler.Routine{Name: id}
	if returnType != "" {
		routine.ReturnType, err = ast.ParseType(returnType)
		if err != nil {
			return nil, err
		}
	}
	for _, statement := range statements {
		routine.Body = append(routine.Body, ast.Raw(statement))
	}
	return routine, nil
}

func (f *File) makefile() (*makefile.Makefile, error) {
	mk := makefile.New(f.Project.ROMName)

	for _, rule := range f.Rules {
		if rule.Target == "" {
			return nil, fmt.Errorf("%w: rule with empty target", errInvalidValue)
		}
		mk.AddRule(makefile.NewRule(rule.Target, rule.Prerequisites, rule.Recipe))
		if rule.Phony {
			mk.AddPhonyTarget(rule.Target)
		}
	}

	if f.Makefile == nil {
		return mk, nil
	}

	all, err := mk.Rule(makefile.AllTarget)
	if err != nil {
		return nil, err
	}
	all.AppendPrerequisites(f.Makefile.All)

	for _, line := range f.Makefile.HeaderLines {
		mk.AddHeaderLine(line)
	}
	for _, name := range slices.Sorted(maps.Keys(f.Makefile.Variables)) {
		mk.AddVariable(name, f.Makefile.Variables[name])
	}
	return mk, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func resolvePaths(baseDir string, paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		resolved = append(resolved, resolvePath(baseDir, path))
	}
	return resolved
}
