package project

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/snesgen/internal/ast"
	"github.com/retroenv/snesgen/internal/makefile"
	"github.com/retroenv/snesgen/internal/pvsneslib"
	"github.com/retroenv/snesgen/internal/scheduler"
	"github.com/retroenv/snesgen/internal/wladx"
	"github.com/retroenv/snesgen/internal/writer"
)

// Names of the generated C files.
const (
	MainFile      = "main.c"
	GlobalsHeader = "globals.h"
	GlobalsSource = "globals.c"
	ProcessorFile = "processor.c"
)

const (
	globalsGuard   = "GLOBALS_H"
	globalsComment = "auto-generated global instructions"
)

// reservedNames can not be used for functions or routines, as they clash
// with generated functions or files.
var reservedNames = []string{"main", scheduler.DispatchFunction, "globals"}

type generatedFile struct {
	name    string
	content []byte
}

// program contains the rendered parts of the C program.
type program struct {
	preprocessor []string   // user include and define directives
	globals      []string   // user globals in definition form, single layout
	header       []string   // user globals for the shared header, split layout
	source       []string   // user globals that are defined in globals.c, split layout
	logoExterns  []string   // extern declarations of the splash logo resources
	tickGlobals  []string   // globals of the dispatch function
	prototypes   []string   // prototypes of all functions, routines and the dispatch function
	functions    []function // standalone functions followed by scheduled routines
	dispatch     []string
	mainBody     []string
}

type function struct {
	name  string
	lines []string
}

// render renders all files of the project in memory.
func render(cfg Config) ([]generatedFile, error) {
	if err := checkFunctionNames(cfg); err != nil {
		return nil, err
	}
	if err := checkExterns(cfg); err != nil {
		return nil, err
	}

	prog, err := renderProgram(cfg)
	if err != nil {
		return nil, err
	}

	var files []generatedFile
	if cfg.Layout == LayoutSplit {
		files, err = prog.splitFiles()
	} else {
		files, err = prog.singleFiles()
	}
	if err != nil {
		return nil, err
	}

	buildFiles, err := renderBuildFiles(cfg)
	if err != nil {
		return nil, err
	}
	return append(files, buildFiles...), nil
}

func checkFunctionNames(cfg Config) error {
	names := set.New[string]()
	routines := append(slices.Clone(cfg.Functions), cfg.Scheduler.Routines()...)

	for _, routine := range routines {
		if routine == nil {
			return fmt.Errorf("%w: nil routine", ast.ErrInvalidOperand)
		}
		name := routine.Name.String()
		if slices.Contains(reservedNames, name) {
			return fmt.Errorf("%w: '%s' is a reserved function name", ast.ErrInvalidIdent, name)
		}
		if names.Contains(name) {
			return fmt.Errorf("%w: '%s'", scheduler.ErrDuplicateRoutine, name)
		}
		names.Add(name)
	}
	return nil
}

// checkExterns validates all extern declarations of the globals, the
// function and routine bodies and the splash logo against the resource
// registry, which marks the referenced resources as used.
func checkExterns(cfg Config) error {
	check := func(instr ast.Instruction) error {
		return cfg.Registry.CheckExtern(instr)
	}

	if err := ast.Walk(cfg.Globals, check); err != nil {
		return fmt.Errorf("checking global extern declaration: %w", err)
	}

	routines := append(slices.Clone(cfg.Functions), cfg.Scheduler.Routines()...)
	for _, routine := range routines {
		if err := ast.Walk(routine.Body, check); err != nil {
			return fmt.Errorf("checking extern declaration of function '%s': %w", routine.Name, err)
		}
	}

	if logo := cfg.Boot.Logo(); logo != nil {
		if err := cfg.Registry.CheckExtern(logo.Externs()); err != nil {
			return fmt.Errorf("checking logo resources: %w", err)
		}
	}
	return nil
}

// privateGlobals returns the number of raw global statements that the split
// layout writes only into globals.c, without a declaration in globals.h.
func privateGlobals(cfg Config) int {
	if cfg.Layout != LayoutSplit {
		return 0
	}

	count := 0
	for _, instr := range cfg.Globals {
		if instr.Kind == ast.InstrRaw {
			count++
		}
	}
	return count
}

func renderProgram(cfg Config) (*program, error) {
	prog := &program{}

	for i, instr := range cfg.Globals {
		lines, err := instr.Render(0)
		if err != nil {
			return nil, fmt.Errorf("rendering global instruction %d: %w", i, err)
		}

		switch {
		case instr.IsPreprocessor():
			prog.preprocessor = append(prog.preprocessor, lines...)
			continue

		case instr.Kind == ast.InstrDeclaration:
			prog.source = append(prog.source, lines...)
			ext, _ := instr.ExternForm()
			extLines, err := ext.Render(0)
			if err != nil {
				return nil, fmt.Errorf("rendering extern form of global instruction %d: %w", i, err)
			}
			prog.header = append(prog.header, extLines...)

		case instr.Kind == ast.InstrRaw:
			prog.source = append(prog.source, lines...)

		default:
			prog.header = append(prog.header, lines...)
		}
		prog.globals = append(prog.globals, lines...)
	}

	if logo := cfg.Boot.Logo(); logo != nil {
		lines, err := logo.Externs().Render(0)
		if err != nil {
			return nil, fmt.Errorf("rendering logo resources: %w", err)
		}
		prog.logoExterns = lines
	}

	tick, err := ast.RenderBlock(cfg.Scheduler.Globals(), 0)
	if err != nil {
		return nil, fmt.Errorf("rendering scheduler globals: %w", err)
	}
	prog.tickGlobals = tick

	for _, fn := range cfg.Functions {
		lines, err := fn.Render()
		if err != nil {
			return nil, fmt.Errorf("rendering function: %w", err)
		}
		prog.prototypes = append(prog.prototypes, fn.Prototype())
		prog.functions = append(prog.functions, function{name: fn.Name.String(), lines: lines})
	}
	for _, routine := range cfg.Scheduler.Routines() {
		lines, err := cfg.Scheduler.RenderRoutine(routine)
		if err != nil {
			return nil, fmt.Errorf("rendering scheduled routine: %w", err)
		}
		prog.prototypes = append(prog.prototypes, routine.Prototype())
		prog.functions = append(prog.functions, function{name: routine.Name.String(), lines: lines})
	}

	prog.prototypes = append(prog.prototypes, cfg.Scheduler.Prototype())
	prog.dispatch, err = cfg.Scheduler.RenderDispatch()
	if err != nil {
		return nil, err
	}

	prog.mainBody, err = cfg.Boot.Render(1)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

// singleFiles returns the program as single main.c file.
func (p *program) singleFiles() ([]generatedFile, error) {
	content, err := writeC(func(out *writer.Writer) error {
		if err := p.writePreamble(out); err != nil {
			return err
		}
		if err := writeSection(out, p.logoExterns, p.tickGlobals, p.globals); err != nil {
			return err
		}
		if err := writeSection(out, p.prototypes); err != nil {
			return err
		}
		for _, fn := range p.functions {
			if err := writeSection(out, fn.lines); err != nil {
				return err
			}
		}
		if err := writeSection(out, p.dispatch); err != nil {
			return err
		}
		return p.writeMain(out)
	})
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", MainFile, err)
	}
	return []generatedFile{{name: MainFile, content: content}}, nil
}

// splitFiles returns the program split into a shared header, the global
// definitions, one file per function, the dispatch function and main().
func (p *program) splitFiles() ([]generatedFile, error) {
	var files []generatedFile
	add := func(name string, write func(out *writer.Writer) error) error {
		content, err := writeC(write)
		if err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		files = append(files, generatedFile{name: name, content: content})
		return nil
	}

	err := add(GlobalsHeader, func(out *writer.Writer) error {
		if err := out.Linef("#ifndef %s", globalsGuard); err != nil {
			return err
		}
		if err := out.Linef("#define %s", globalsGuard); err != nil {
			return err
		}
		if err := out.EmptyLine(); err != nil {
			return err
		}
		if err := p.writePreamble(out); err != nil {
			return err
		}
		if err := writeSection(out, p.logoExterns, p.header); err != nil {
			return err
		}
		if err := writeSection(out, p.prototypes); err != nil {
			return err
		}
		return out.Linef("#endif // %s", globalsGuard)
	})
	if err != nil {
		return nil, err
	}

	if err := add(GlobalsSource, func(out *writer.Writer) error {
		if err := writeSection(out, []string{includeGlobals()}); err != nil {
			return err
		}
		return writeSection(out, p.source)
	}); err != nil {
		return nil, err
	}

	for _, fn := range p.functions {
		if err := add(fn.name+".c", func(out *writer.Writer) error {
			if err := writeSection(out, []string{includeGlobals()}); err != nil {
				return err
			}
			return out.Lines(fn.lines)
		}); err != nil {
			return nil, err
		}
	}

	if err := add(ProcessorFile, func(out *writer.Writer) error {
		if err := writeSection(out, []string{includeGlobals()}); err != nil {
			return err
		}
		if err := writeSection(out, p.tickGlobals); err != nil {
			return err
		}
		return out.Lines(p.dispatch)
	}); err != nil {
		return nil, err
	}

	if err := add(MainFile, func(out *writer.Writer) error {
		if err := writeSection(out, []string{includeGlobals()}); err != nil {
			return err
		}
		return p.writeMain(out)
	}); err != nil {
		return nil, err
	}
	return files, nil
}

// writePreamble writes the platform include, the user directives and the
// comment that starts the generated globals.
func (p *program) writePreamble(out *writer.Writer) error {
	include, err := pvsneslib.Include().Render(0)
	if err != nil {
		return err
	}
	if err := writeSection(out, include, p.preprocessor); err != nil {
		return err
	}
	return out.Comment(globalsComment)
}

func (p *program) writeMain(out *writer.Writer) error {
	if err := out.Line("int main(void) {"); err != nil {
		return err
	}
	if err := out.Lines(p.mainBody); err != nil {
		return err
	}
	return out.Line("}")
}

// writeSection writes all line groups followed by an empty line. Nothing is
// written if all groups are empty.
func writeSection(out *writer.Writer, groups ...[]string) error {
	empty := true
	for _, lines := range groups {
		if len(lines) == 0 {
			continue
		}
		empty = false
		if err := out.Lines(lines); err != nil {
			return err
		}
	}
	if empty {
		return nil
	}
	return out.EmptyLine()
}

func writeC(write func(out *writer.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(writer.New(&buf, writer.C)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func includeGlobals() string {
	return fmt.Sprintf("#include %q", GlobalsHeader)
}

// renderBuildFiles renders the assembler header, the resource data file and
// the makefile.
func renderBuildFiles(cfg Config) ([]generatedFile, error) {
	var hdr, data, mk bytes.Buffer

	if err := cfg.Mapping.Render(&hdr); err != nil {
		return nil, fmt.Errorf("rendering memory mapping: %w", err)
	}

	cfg.Registry.SetHiROM(cfg.Mapping.HiROM)
	if err := cfg.Registry.WriteData(&data); err != nil {
		return nil, err
	}

	for _, line := range cfg.Mapping.MakeHeaderLines() {
		cfg.Makefile.AddHeaderLine(line)
	}
	if err := cfg.Makefile.Render(&mk); err != nil {
		return nil, err
	}

	return []generatedFile{
		{name: wladx.HeaderFileName, content: hdr.Bytes()},
		{name: wladx.DataFileName, content: data.Bytes()},
		{name: makefile.FileName, content: mk.Bytes()},
	}, nil
}
