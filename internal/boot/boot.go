// Package boot implements the boot sequence of the generated program: the
// platform initialization in main() with named phases into which the author
// can insert calls, followed by the main loop.
package boot

import (
	"errors"
	"fmt"
	"slices"

	"github.com/retroenv/snesgen/internal/ast"
	"github.com/retroenv/snesgen/internal/pvsneslib"
)

// ErrUnknownPhase is returned for a phase name that is not a platform phase
// or that was not added to the sequence.
var ErrUnknownPhase = errors.New("unknown boot phase")

// Platform phases, listed in the order in which they run.
const (
	PreSPCBoot         = "preSPCBootCommands"
	BetweenSPCVRAMLoad = "betweenSPCVRAMLoadCommands"
	PreVideoInit       = "preVideoInitCommands"
	PreLogoWait        = "preLogoWaitCommands"
	PostLogo           = "postLogoCommands"
)

// PhaseOrder contains all platform phases in execution order.
var PhaseOrder = []string{
	PreSPCBoot,
	BetweenSPCVRAMLoad,
	PreVideoInit,
	PreLogoWait,
	PostLogo,
}

// ProcessorFunction is the name of the scheduler function that the main loop calls.
const ProcessorFunction = "processor"

// Phase is a named group of calls that run in insertion order.
type Phase struct {
	Name  string
	Calls []Call
}

// Call is a function call of a boot phase. Args nil and an empty slice both
// produce a call without arguments.
type Call struct {
	Name ast.Ident
	Args []string // argument source text, emitted verbatim
}

// Sequence is the boot sequence of a program.
type Sequence struct {
	phases []*Phase
	logo   *Logo
}

// New returns a new empty boot sequence.
func New() *Sequence {
	return &Sequence{}
}

// AddPhase adds the platform phase with the given name and returns it.
// Adding an existing phase returns the existing one.
func (s *Sequence) AddPhase(name string) (*Phase, error) {
	if !slices.Contains(PhaseOrder, name) {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownPhase, name)
	}
	if p, ok := s.Phase(name); ok {
		return p, nil
	}

	p := &Phase{Name: name}
	s.phases = append(s.phases, p)
	return p, nil
}

// Phase returns the added phase with the given name.
func (s *Sequence) Phase(name string) (*Phase, bool) {
	for _, p := range s.phases {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddCall appends a call to an added phase.
func (s *Sequence) AddCall(phase, name string, args []string) error {
	p, ok := s.Phase(phase)
	if !ok {
		return fmt.Errorf("%w: '%s' was not added", ErrUnknownPhase, phase)
	}

	id, err := ast.ParseIdent(name)
	if err != nil {
		return fmt.Errorf("adding call to phase '%s': %w", phase, err)
	}
	p.Calls = append(p.Calls, Call{Name: id, Args: args})
	return nil
}

// SetLogo enables the splash logo that is shown before the post logo phase.
func (s *Sequence) SetLogo(logo Logo) {
	s.logo = &logo
}

// Logo returns the splash logo settings or nil if no logo is shown.
func (s *Sequence) Logo() *Logo {
	return s.logo
}

// Instructions returns the body of main() as instruction list.
func (s *Sequence) Instructions() ([]ast.Instruction, error) {
	var body []ast.Instruction
	if s.logo != nil {
		body = append(body, ast.Declare(ast.U8, logoCounter))
	}

	phase := func(name string) error {
		p, ok := s.Phase(name)
		if !ok {
			return nil
		}
		for _, call := range p.Calls {
			instr, err := call.instruction()
			if err != nil {
				return fmt.Errorf("phase '%s': %w", name, err)
			}
			body = append(body, instr)
		}
		return nil
	}

	if err := phase(PreSPCBoot); err != nil {
		return nil, err
	}
	body = append(body, eval("spcBoot"))

	if err := phase(BetweenSPCVRAMLoad); err != nil {
		return nil, err
	}
	if s.logo != nil {
		body = append(body, s.logo.load()...)
	}

	if err := phase(PreVideoInit); err != nil {
		return nil, err
	}
	body = append(body,
		eval("setMode", ast.Ref("BG_MODE1"), ast.Num(0)),
		eval("bgSetDisable", ast.Num(1)),
		eval("bgSetDisable", ast.Num(2)),
		pvsneslib.SetScreenOn(),
	)

	if err := phase(PreLogoWait); err != nil {
		return nil, err
	}
	if s.logo != nil {
		body = append(body, s.logo.wait()...)
	}

	if err := phase(PostLogo); err != nil {
		return nil, err
	}

	body = append(body,
		ast.While(ast.Num(1),
			eval(ProcessorFunction),
			pvsneslib.WaitForVBlank(),
		),
		ast.Return(ast.Num(0)),
	)
	return body, nil
}

// Render returns the lines of the body of main() at the given indentation.
func (s *Sequence) Render(indent int) ([]string, error) {
	body, err := s.Instructions()
	if err != nil {
		return nil, fmt.Errorf("building boot sequence: %w", err)
	}
	lines, err := ast.RenderBlock(body, indent)
	if err != nil {
		return nil, fmt.Errorf("rendering boot sequence: %w", err)
	}
	return lines, nil
}

func (c Call) instruction() (ast.Instruction, error) {
	args := make([]*ast.Expr, 0, len(c.Args))
	for i, arg := range c.Args {
		if arg == "" {
			return ast.Instruction{}, fmt.Errorf("%w: argument %d of call '%s' is empty",
				ast.ErrInvalidOperand, i, c.Name)
		}
		args = append(args, ast.Lit(arg, ast.Type{}))
	}
	return ast.Eval(ast.Call(c.Name.String(), args...)), nil
}

func eval(name string, args ...*ast.Expr) ast.Instruction {
	return ast.Eval(ast.Call(name, args...))
}
