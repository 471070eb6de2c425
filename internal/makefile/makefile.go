// Package makefile implements the build rule graph of the generated project
// and its rendering as a makefile that uses the PVSnesLib make rules.
package makefile

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/snesgen/internal/writer"
)

var (
	// ErrUnknownTarget is returned when a rule is requested that does not exist.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrDuplicateTarget is returned when two distinct rules share a target.
	ErrDuplicateTarget = errors.New("duplicate target")
)

// Names of the default rules.
const (
	AllTarget   = "all"
	CleanTarget = "clean"
)

// FileName is the name of the generated makefile.
const FileName = "Makefile"

const (
	defaultCleanPrerequisites = "cleanBuildRes cleanRom cleanGfx"

	homeGuard = `ifeq ($(strip $(PVSNESLIB_HOME)),)
$(error "Please create an environment variable PVSNESLIB_HOME with the path to the PVSnesLib installation")
endif`

	rulesInclude = "include ${PVSNESLIB_HOME}/devkitsnes/snes_rules"

	separator = "#---------------------------------------------------------------------------------"
)

// Rule is a make rule. The pointer returned by New, AddRule and Rule stays
// valid for the lifetime of the makefile.
type Rule struct {
	Target        string
	Prerequisites string
	Recipe        string // one command per line
}

// NewRule returns a new rule.
func NewRule(target, prerequisites, recipe string) *Rule {
	return &Rule{
		Target:        target,
		Prerequisites: prerequisites,
		Recipe:        recipe,
	}
}

// AppendPrerequisites appends the prerequisites separated by a space.
// Duplicates are not detected, callers that append from multiple places
// have to avoid adding the same prerequisite twice.
func (r *Rule) AppendPrerequisites(prerequisites string) {
	prerequisites = strings.TrimSpace(prerequisites)
	if prerequisites == "" {
		return
	}
	if r.Prerequisites == "" {
		r.Prerequisites = prerequisites
		return
	}
	r.Prerequisites += " " + prerequisites
}

// Variable is a makefile variable assignment.
type Variable struct {
	Name  string
	Value string
}

// Makefile is the build rule graph.
type Makefile struct {
	romName string

	rules []*Rule
	index map[string]*Rule

	phony    []string
	phonySet set.Set[string]

	headerLines []string
	variables   []Variable
}

// New returns a makefile with the default rules all and clean.
func New(romName string) *Makefile {
	m := &Makefile{
		romName:  romName,
		index:    make(map[string]*Rule),
		phonySet: set.New[string](),
	}
	m.AddRule(NewRule(AllTarget, "", ""))
	m.AddRule(NewRule(CleanTarget, defaultCleanPrerequisites, ""))
	m.AddPhonyTarget(AllTarget)
	m.AddPhonyTarget(CleanTarget)
	return m
}

// NewWithRules returns a makefile with the default rules and the given rules
// added in order. Passing two distinct rules with the same target fails.
func NewWithRules(romName string, rules ...*Rule) (*Makefile, error) {
	seen := make(map[string]*Rule, len(rules))
	for _, rule := range rules {
		if existing, ok := seen[rule.Target]; ok && existing != rule {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateTarget, rule.Target)
		}
		seen[rule.Target] = rule
	}

	m := New(romName)
	for _, rule := range rules {
		m.AddRule(rule)
	}
	return m, nil
}

// RomName returns the name of the ROM file without extension.
func (m *Makefile) RomName() string {
	return m.romName
}

// AddRule adds the rule. If a rule with the same target exists, it is updated
// in place with the values of the passed rule and keeps its position. The
// returned rule is the one stored in the makefile.
func (m *Makefile) AddRule(rule *Rule) *Rule {
	existing, ok := m.index[rule.Target]
	if !ok {
		m.rules = append(m.rules, rule)
		m.index[rule.Target] = rule
		return rule
	}

	if existing != rule {
		*existing = *rule
	}
	return existing
}

// Rule returns the rule for the given target.
func (m *Makefile) Rule(target string) (*Rule, error) {
	rule, ok := m.index[target]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownTarget, target)
	}
	return rule, nil
}

// Rules returns all rules in registration order.
func (m *Makefile) Rules() []*Rule {
	return m.rules
}

// AddPhonyTarget marks the target as phony. The rule for the target can be
// added before or after this call.
func (m *Makefile) AddPhonyTarget(target string) {
	if m.phonySet.Contains(target) {
		return
	}
	m.phonySet.Add(target)
	m.phony = append(m.phony, target)
}

// IsPhony returns whether the target is marked as phony.
func (m *Makefile) IsPhony(target string) bool {
	return m.phonySet.Contains(target)
}

// AddHeaderLine adds a line that is written before the PVSnesLib rules are
// included, for example HIROM=1. Adding an existing line again is ignored.
func (m *Makefile) AddHeaderLine(line string) {
	if slices.Contains(m.headerLines, line) {
		return
	}
	m.headerLines = append(m.headerLines, line)
}

// AddVariable sets a variable. Setting an existing variable again replaces
// its value and keeps its position.
func (m *Makefile) AddVariable(name, value string) {
	for i, v := range m.variables {
		if v.Name == name {
			m.variables[i].Value = value
			return
		}
	}
	m.variables = append(m.variables, Variable{Name: name, Value: value})
}

// Render writes the makefile.
func (m *Makefile) Render(w io.Writer) error {
	if m.romName == "" {
		return errors.New("rom name is not set")
	}

	out := writer.New(w, writer.Makefile)
	writes := []func() error{
		func() error { return out.Line(homeGuard) },
		out.EmptyLine,
		func() error { return m.writeHeaderLines(out) },
		func() error { return out.Line(rulesInclude) },
		out.EmptyLine,
		func() error { return out.Line(".PHONY: " + strings.Join(m.phony, " ")) },
		out.EmptyLine,
		func() error { return out.Line(separator) },
		func() error { return out.Comment("ROMNAME is used in snes_rules file") },
		func() error { return out.Line("export ROMNAME := " + m.romName) },
		func() error { return m.writeVariables(out) },
		out.EmptyLine,
	}
	for _, rule := range m.rules {
		writes = append(writes, func() error { return writeRule(out, rule) })
	}

	for _, write := range writes {
		if err := write(); err != nil {
			return fmt.Errorf("writing makefile: %w", err)
		}
	}
	return nil
}

func (m *Makefile) writeHeaderLines(out *writer.Writer) error {
	if len(m.headerLines) == 0 {
		return nil
	}
	if err := out.Lines(m.headerLines); err != nil {
		return err
	}
	return out.EmptyLine()
}

func (m *Makefile) writeVariables(out *writer.Writer) error {
	for _, v := range m.variables {
		if err := out.Linef("%s := %s", v.Name, v.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeRule(out *writer.Writer, rule *Rule) error {
	header := rule.Target + ":"
	if rule.Prerequisites != "" {
		header += " " + rule.Prerequisites
	}
	if err := out.Line(header); err != nil {
		return err
	}

	if rule.Recipe != "" {
		for _, line := range strings.Split(rule.Recipe, "\n") {
			if err := out.Line("\t" + line); err != nil {
				return err
			}
		}
	}
	return out.EmptyLine()
}
