// Package scheduler implements the periodic routine dispatcher of the
// generated program, the processor function that the main loop calls once
// per frame.
package scheduler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/retroenv/snesgen/internal/ast"
)

var (
	// ErrDuplicateRoutine is returned when a routine name is added twice.
	ErrDuplicateRoutine = errors.New("duplicate routine")
	// ErrPeriodRange is returned when the periods of all routines have no
	// common multiple that fits into the tick counter.
	ErrPeriodRange = errors.New("period out of range")
)

const (
	// DispatchFunction is the name of the generated dispatch function.
	DispatchFunction = "processor"

	tickCounter = "processorTick"

	shortCounterRange = 1 << 16 // u16 tick counter
	longCounterRange  = 1 << 32 // u32 tick counter
)

// Routine is a generated function without parameters.
type Routine struct {
	Name       ast.Ident
	Body       []ast.Instruction
	ReturnType ast.Type // void if not set
}

// returnType returns the declared return type, defaulting to void.
func (r *Routine) returnType() ast.Type {
	if r.ReturnType.IsZero() {
		return ast.Void
	}
	return r.ReturnType
}

// Prototype returns the function prototype of the routine.
func (r *Routine) Prototype() string {
	return fmt.Sprintf("%s %s(void);", r.returnType(), r.Name)
}

// Render returns the function definition of the routine. Void routines end
// with an explicit return.
func (r *Routine) Render() ([]string, error) {
	if _, err := ast.ParseIdent(r.Name.String()); err != nil {
		return nil, fmt.Errorf("rendering routine: %w", err)
	}

	body, err := ast.RenderBlock(r.Body, 1)
	if err != nil {
		return nil, fmt.Errorf("rendering routine '%s': %w", r.Name, err)
	}

	lines := []string{fmt.Sprintf("%s %s(void) {", r.returnType(), r.Name)}
	lines = append(lines, body...)
	if r.returnType().IsVoid() {
		lines = append(lines, "\treturn;")
	}
	return append(lines, "}"), nil
}

type scheduled struct {
	routine *Routine
	period  uint
}

// Scheduler contains the routines that are called by the dispatch function,
// in registration order.
type Scheduler struct {
	routines []scheduled
	cycle    uint64 // least common multiple of all periods
}

// New returns a new empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// AddRoutine schedules the routine to run every period ticks. A period of
// 0 or 1 runs the routine on every tick. The tick counter restarts at the
// least common multiple of all periods, so every routine keeps its period
// when the counter wraps.
func (s *Scheduler) AddRoutine(routine *Routine, period uint) error {
	for _, sc := range s.routines {
		if sc.routine.Name == routine.Name {
			return fmt.Errorf("%w: '%s'", ErrDuplicateRoutine, routine.Name)
		}
	}

	cycle := s.cycle
	if period > 1 {
		var ok bool
		cycle, ok = leastCommonMultiple(max(cycle, 1), uint64(period))
		if !ok {
			return fmt.Errorf("%w: period %d of routine '%s'", ErrPeriodRange, period, routine.Name)
		}
	}

	s.routines = append(s.routines, scheduled{routine: routine, period: period})
	s.cycle = cycle
	return nil
}

// leastCommonMultiple returns the least common multiple of a and b, or false
// if it exceeds the range of the long tick counter.
func leastCommonMultiple(a, b uint64) (uint64, bool) {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	factor := a / x
	if factor > longCounterRange/b {
		return 0, false
	}
	return factor * b, true
}

// Routines returns all scheduled routines in registration order.
func (s *Scheduler) Routines() []*Routine {
	routines := make([]*Routine, len(s.routines))
	for i, sc := range s.routines {
		routines[i] = sc.routine
	}
	return routines
}

// Period returns the period of the named routine.
func (s *Scheduler) Period(name ast.Ident) (uint, bool) {
	for _, sc := range s.routines {
		if sc.routine.Name == name {
			return sc.period, true
		}
	}
	return 0, false
}

// RenderRoutine returns the function definition of a routine.
func (s *Scheduler) RenderRoutine(routine *Routine) ([]string, error) {
	return routine.Render()
}

// needsTick returns whether any routine runs less often than every tick.
func (s *Scheduler) needsTick() bool {
	return s.cycle > 1
}

// counterRange returns the type of the tick counter and the number of values
// it can hold.
func (s *Scheduler) counterRange() (ast.Type, uint64) {
	if s.cycle <= shortCounterRange {
		return ast.U16, shortCounterRange
	}
	return ast.U32, longCounterRange
}

// needsReset returns whether the tick counter has to restart before it wraps,
// which is the case if the wrap would break the cycle of the periods.
func (s *Scheduler) needsReset() bool {
	_, size := s.counterRange()
	return s.needsTick() && size%s.cycle != 0
}

// Globals returns the global declarations that the dispatch function needs.
func (s *Scheduler) Globals() []ast.Instruction {
	if !s.needsTick() {
		return nil
	}
	typ, _ := s.counterRange()
	return []ast.Instruction{ast.DeclareInit(typ, tickCounter, ast.Num(0))}
}

// Prototype returns the prototype of the dispatch function.
func (s *Scheduler) Prototype() string {
	return fmt.Sprintf("void %s(void);", DispatchFunction)
}

// RenderDispatch returns the definition of the dispatch function that calls
// every routine in registration order.
func (s *Scheduler) RenderDispatch() ([]string, error) {
	body := make([]ast.Instruction, 0, len(s.routines)+1)
	for _, sc := range s.routines {
		call := ast.Eval(ast.Call(sc.routine.Name.String()))
		if sc.period <= 1 {
			body = append(body, call)
			continue
		}

		cond := ast.Binary(ast.OpEqual,
			ast.Binary(ast.OpMod, ast.Ref(tickCounter), ast.Num(int(sc.period))),
			ast.Num(0))
		body = append(body, ast.If(cond, call))
	}
	if s.needsTick() {
		body = append(body, ast.Eval(ast.Unary(ast.OpPostInc, ast.Ref(tickCounter))))
	}
	if s.needsReset() {
		typ, _ := s.counterRange()
		restart := ast.Binary(ast.OpEqual, ast.Ref(tickCounter), ast.Lit(strconv.FormatUint(s.cycle, 10), typ))
		body = append(body, ast.If(restart, ast.Assign(tickCounter, ast.Num(0))))
	}
	body = append(body, ast.Return(nil))

	lines, err := ast.RenderBlock(body, 1)
	if err != nil {
		return nil, fmt.Errorf("rendering dispatch function: %w", err)
	}

	result := []string{fmt.Sprintf("void %s(void) {", DispatchFunction)}
	result = append(result, lines...)
	return append(result, "}"), nil
}
