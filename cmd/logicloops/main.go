// Package main implements an example that generates a project showing the
// conditional and loop statements by using the generator packages directly.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/ast"
	"github.com/retroenv/snesgen/internal/boot"
	"github.com/retroenv/snesgen/internal/config"
	"github.com/retroenv/snesgen/internal/makefile"
	"github.com/retroenv/snesgen/internal/memmap"
	"github.com/retroenv/snesgen/internal/project"
	"github.com/retroenv/snesgen/internal/pvsneslib"
	"github.com/retroenv/snesgen/internal/resource"
	"github.com/retroenv/snesgen/internal/scheduler"
)

type optionFlags struct {
	output string
	font   string
	layout string
	debug  bool
	quiet  bool
}

func main() {
	opts := readArguments()
	logger := config.CreateLogger(opts.debug, opts.quiet)

	cfg, err := logicLoopsProject(opts)
	if err != nil {
		logger.Fatal("Creating project failed", log.Err(err))
	}

	if _, err := project.Build(app.Context(), logger, cfg); err != nil {
		logger.Fatal("Generating project failed", log.Err(err))
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := optionFlags{}

	flags.StringVar(&opts.output, "o", "output", "name of the output directory")
	flags.StringVar(&opts.font, "font", "data/pvsneslibfont.png", "font image that is copied into the output directory")
	flags.StringVar(&opts.layout, "layout", string(project.LayoutSingle), "layout of the generated C sources (single/split)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")

	if err := flags.Parse(os.Args[1:]); err != nil || flags.NArg() > 0 {
		fmt.Printf("usage: logicloops [options]\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	return opts
}

func logicLoopsProject(opts optionFlags) (project.Config, error) {
	mapping := memmap.Default()
	mapping.Name = "LogicLoopsExample    "

	registry := resource.NewRegistry(mapping.ROMBanks)
	for _, data := range []resource.Data{
		{Name: "tilfont", File: "pvsneslibfont.pic"},
		{Name: "palfont", File: "pvsneslibfont.pal"},
	} {
		if err := registry.Register(data, 2); err != nil {
			return project.Config{}, err
		}
	}

	fonts, err := registry.DeclareExtern([]string{"tilfont", "palfont"}, ast.Char)
	if err != nil {
		return project.Config{}, err
	}

	sequence, err := bootSequence()
	if err != nil {
		return project.Config{}, err
	}

	sched := scheduler.New()
	for _, routine := range []*scheduler.Routine{ifExample(), switchExample(), whileLoopExample()} {
		if err := sched.AddRoutine(routine, 0); err != nil {
			return project.Config{}, err
		}
	}

	mk, err := makefileRules()
	if err != nil {
		return project.Config{}, err
	}

	return project.Config{
		Destination: opts.output,
		Layout:      project.Layout(opts.layout),
		Globals: []ast.Instruction{
			fonts,
			ast.DeclareInit(ast.U32, "timer", ast.Num(0)),
		},
		Scheduler: sched,
		Boot:      sequence,
		Registry:  registry,
		Mapping:   mapping,
		Makefile:  mk,
		Assets:    []string{opts.font},
	}, nil
}

func bootSequence() (*boot.Sequence, error) {
	sequence := boot.New()
	if _, err := sequence.AddPhase(boot.PostLogo); err != nil {
		return nil, err
	}

	calls := []struct {
		name string
		args []string
	}{
		{"setScreenOff", nil},
		{"consoleSetTextMapPtr", []string{"0x6800"}},
		{"consoleSetTextGfxPtr", []string{"0x3000"}},
		{"consoleSetTextOffset", []string{"0x0100"}},
		{"consoleInitText", []string{"0", "16 * 2", "&tilfont", "&palfont"}},
		{"bgSetGfxPtr", []string{"0", "0x2000"}},
		{"bgSetMapPtr", []string{"0", "0x6800", "SC_32x32"}},
		{"setScreenOn", nil},
	}
	for _, call := range calls {
		if err := sequence.AddCall(boot.PostLogo, call.name, call.args); err != nil {
			return nil, err
		}
	}
	return sequence, nil
}

// ifExample prints whether num1 is greater than, less than or equal to num2.
func ifExample() *scheduler.Routine {
	num1 := ast.Cast(ast.Int, ast.Ref("num1"))
	num2 := ast.Cast(ast.Int, ast.Ref("num2"))

	compare := ast.If(ast.Binary(ast.OpGreater, ast.Ref("num1"), ast.Ref("num2")),
		pvsneslib.ConsoleDrawTextf(3, 3, "%d > %d", num1, num2),
	).ElseIf(ast.Binary(ast.OpLess, ast.Ref("num1"), ast.Ref("num2")),
		pvsneslib.ConsoleDrawTextf(3, 3, "%d < %d", num1, num2),
	).WithElse(
		pvsneslib.ConsoleDrawTextf(3, 3, "%d == %d", num1, num2),
	)

	return &scheduler.Routine{
		Name: "ifExample",
		Body: []ast.Instruction{
			ast.DeclareInit(ast.U8, "num1", ast.Num(4)),
			ast.DeclareInit(ast.U8, "num2", ast.Num(8)),
			compare,
		},
	}
}

// switchExample prints which case of the switch statement was taken.
func switchExample() *scheduler.Routine {
	selector := ast.Switch(ast.Ref("num")).
		AddCase(ast.Num(-8), pvsneslib.ConsoleDrawText(3, 6, "num = -8"), pvsneslib.Break()).
		AddCase(ast.Num(8), pvsneslib.ConsoleDrawText(3, 6, "num = 8"), pvsneslib.Break()).
		WithDefault(pvsneslib.ConsoleDrawText(3, 6, "num is not -8 or 8"), pvsneslib.Break())

	return &scheduler.Routine{
		Name: "switchExample",
		Body: []ast.Instruction{
			ast.DeclareInit(ast.S8, "num", ast.Num(-8)),
			selector,
		},
	}
}

// whileLoopExample prints the global timer until it reaches 200.
func whileLoopExample() *scheduler.Routine {
	loop := ast.While(ast.Binary(ast.OpLess, ast.Ref("timer"), ast.Num(200)),
		pvsneslib.ConsoleDrawTextf(3, 9, "timer: %d", ast.Cast(ast.Int, ast.Ref("timer"))),
		ast.Eval(ast.Unary(ast.OpPostInc, ast.Ref("timer"))),
		pvsneslib.WaitForVBlank(),
	)

	return &scheduler.Routine{
		Name: "whileLoopExample",
		Body: []ast.Instruction{loop},
	}
}

func makefileRules() (*makefile.Makefile, error) {
	mk, err := makefile.NewWithRules("JavaSnes_LogicLoopsExample",
		makefile.NewRule("pvsneslibfont.pic", "pvsneslibfont.png", "$(GFXCONV) -s 8 -o 16 -u 16 -p -e 0 -i $<"),
		makefile.NewRule("bitmaps", "pvsneslibfont.pic pvsneslibfont.pal", ""),
	)
	if err != nil {
		return nil, err
	}
	mk.AddPhonyTarget("bitmaps")

	all, err := mk.Rule(makefile.AllTarget)
	if err != nil {
		return nil, err
	}
	all.AppendPrerequisites("bitmaps $(ROMNAME).sfc")
	return mk, nil
}
