package ast

import (
	"fmt"
	"strings"
)

// RenderBlock renders all instructions in order at the given indentation level.
func RenderBlock(instructions []Instruction, indent int) ([]string, error) {
	var lines []string
	for i, instr := range instructions {
		rendered, err := instr.Render(indent)
		if err != nil {
			return nil, fmt.Errorf("rendering instruction %d: %w", i, err)
		}
		lines = append(lines, rendered...)
	}
	return lines, nil
}

// Render returns the source lines of the instruction, indented with tabs.
// Rendering does not modify the instruction.
func (in Instruction) Render(indent int) ([]string, error) {
	prefix := strings.Repeat("\t", indent)

	switch in.Kind {
	case InstrDeclaration:
		return in.renderDeclaration(prefix)

	case InstrRaw:
		lines := strings.Split(in.Text, "\n")
		for i, line := range lines {
			if line != "" {
				lines[i] = prefix + line
			}
		}
		return lines, nil

	case InstrAssign:
		return in.renderAssign(prefix)

	case InstrIf:
		return in.renderIf(prefix, indent)

	case InstrSwitch:
		return in.renderSwitch(prefix, indent)

	case InstrWhile:
		cond, err := in.Expr.renderCondition()
		if err != nil {
			return nil, fmt.Errorf("rendering while condition: %w", err)
		}
		return renderBlockStatement(prefix+"while "+cond+" {", prefix+"}", in.Body, indent)

	case InstrEval:
		s, err := in.Expr.Render()
		if err != nil {
			return nil, fmt.Errorf("rendering expression statement: %w", err)
		}
		return []string{prefix + s + ";"}, nil

	case InstrReturn:
		if in.Expr == nil {
			return []string{prefix + "return;"}, nil
		}
		s, err := in.Expr.Render()
		if err != nil {
			return nil, fmt.Errorf("rendering return value: %w", err)
		}
		return []string{prefix + "return " + s + ";"}, nil

	case InstrExtern:
		return in.renderExtern(prefix)

	case InstrInclude:
		if in.Text == "" {
			return nil, fmt.Errorf("%w: empty include path", ErrInvalidOperand)
		}
		path := in.Text
		if !strings.HasPrefix(path, "<") {
			path = quote(path)
		}
		return []string{prefix + "#include " + path}, nil

	case InstrDefine:
		if err := checkName(in.Name); err != nil {
			return nil, err
		}
		if in.Text == "" {
			return []string{prefix + "#define " + in.Name.String()}, nil
		}
		return []string{fmt.Sprintf("%s#define %s %s", prefix, in.Name, in.Text)}, nil

	case InstrEnum:
		return in.renderEnum(prefix)

	case InstrStruct:
		return in.renderStruct(prefix)

	default:
		return nil, fmt.Errorf("%w: instruction kind %d", errUnknownKind, in.Kind)
	}
}

func (in Instruction) renderDeclaration(prefix string) ([]string, error) {
	decl, err := declarator(in.Type, in.Name, in.ArrayLen)
	if err != nil {
		return nil, err
	}
	if in.Expr == nil {
		return []string{prefix + decl + ";"}, nil
	}

	init, err := in.Expr.Render()
	if err != nil {
		return nil, fmt.Errorf("rendering initializer of '%s': %w", in.Name, err)
	}
	return []string{fmt.Sprintf("%s%s = %s;", prefix, decl, init)}, nil
}

func (in Instruction) renderAssign(prefix string) ([]string, error) {
	var target string
	if in.Target != nil {
		s, err := in.Target.Render()
		if err != nil {
			return nil, fmt.Errorf("rendering assignment target: %w", err)
		}
		target = s
	} else {
		if err := checkName(in.Name); err != nil {
			return nil, err
		}
		target = in.Name.String()
	}

	op := "="
	if in.Op != OpNone {
		if !in.Op.IsCompoundAssignable() {
			return nil, fmt.Errorf("%w: operator '%s' can not be used in an assignment", ErrInvalidOperand, in.Op)
		}
		op = in.Op.String() + "="
	}

	value, err := in.Expr.Render()
	if err != nil {
		return nil, fmt.Errorf("rendering value assigned to '%s': %w", target, err)
	}
	return []string{fmt.Sprintf("%s%s %s %s;", prefix, target, op, value)}, nil
}

func (in Instruction) renderIf(prefix string, indent int) ([]string, error) {
	cond, err := in.Expr.renderCondition()
	if err != nil {
		return nil, fmt.Errorf("rendering if condition: %w", err)
	}

	lines := []string{prefix + "if " + cond + " {"}
	body, err := RenderBlock(in.Body, indent+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, body...)

	for i, branch := range in.ElseIfs {
		cond, err := branch.Cond.renderCondition()
		if err != nil {
			return nil, fmt.Errorf("rendering condition of else if branch %d: %w", i, err)
		}
		lines = append(lines, prefix+"} else if "+cond+" {")

		body, err := RenderBlock(branch.Body, indent+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, body...)
	}

	if in.Else != nil {
		lines = append(lines, prefix+"} else {")
		body, err := RenderBlock(in.Else.Body, indent+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, body...)
	}

	lines = append(lines, prefix+"}")
	return lines, nil
}

func (in Instruction) renderSwitch(prefix string, indent int) ([]string, error) {
	selector, err := in.Expr.renderCondition()
	if err != nil {
		return nil, fmt.Errorf("rendering switch selector: %w", err)
	}

	lines := []string{prefix + "switch " + selector + " {"}
	for i, c := range in.Cases {
		label, err := c.Label.Render()
		if err != nil {
			return nil, fmt.Errorf("rendering label of case %d: %w", i, err)
		}
		lines = append(lines, prefix+"case "+label+":")

		body, err := RenderBlock(c.Body, indent+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, body...)
	}

	if in.Default != nil {
		lines = append(lines, prefix+"default:")
		body, err := RenderBlock(in.Default.Body, indent+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, body...)
	}

	lines = append(lines, prefix+"}")
	return lines, nil
}

func (in Instruction) renderExtern(prefix string) ([]string, error) {
	typ := in.Type.String()
	if typ == "" {
		return nil, fmt.Errorf("%w: extern declaration without type", ErrInvalidOperand)
	}
	if len(in.Names) == 0 {
		return nil, fmt.Errorf("%w: extern declaration without names", ErrInvalidOperand)
	}

	names := make([]string, len(in.Names))
	for i, name := range in.Names {
		if err := checkName(name); err != nil {
			return nil, err
		}
		names[i] = name.String()
	}
	if in.ArrayLen > 0 {
		if len(names) != 1 {
			return nil, fmt.Errorf("%w: extern array declaration of multiple names", ErrInvalidOperand)
		}
		return []string{fmt.Sprintf("%sextern %s %s[%d];", prefix, typ, names[0], in.ArrayLen)}, nil
	}
	return []string{fmt.Sprintf("%sextern %s %s;", prefix, typ, strings.Join(names, ", "))}, nil
}

func (in Instruction) renderEnum(prefix string) ([]string, error) {
	lines := []string{prefix + "enum {"}
	for i, member := range in.Members {
		if err := checkName(member.Name); err != nil {
			return nil, err
		}

		line := prefix + "\t" + member.Name.String()
		if member.Value != nil {
			value, err := member.Value.Render()
			if err != nil {
				return nil, fmt.Errorf("rendering value of enum member '%s': %w", member.Name, err)
			}
			line += " = " + value
		}
		if i < len(in.Members)-1 {
			line += ","
		}
		lines = append(lines, line)
	}
	lines = append(lines, prefix+"};")
	return lines, nil
}

func (in Instruction) renderStruct(prefix string) ([]string, error) {
	if err := checkName(in.Name); err != nil {
		return nil, err
	}

	lines := []string{prefix + "typedef struct {"}
	for _, field := range in.Members {
		decl, err := declarator(field.Type, field.Name, 0)
		if err != nil {
			return nil, fmt.Errorf("rendering field of struct '%s': %w", in.Name, err)
		}
		lines = append(lines, prefix+"\t"+decl+";")
	}
	lines = append(lines, prefix+"} "+in.Name.String()+";")
	return lines, nil
}

// renderBlockStatement renders a statement with a header line, an indented
// body and a closing line.
func renderBlockStatement(header, footer string, body []Instruction, indent int) ([]string, error) {
	lines := []string{header}
	rendered, err := RenderBlock(body, indent+1)
	if err != nil {
		return nil, err
	}
	lines = append(lines, rendered...)
	return append(lines, footer), nil
}

// declarator returns the type and name part of a declaration, like u8 buf[16].
func declarator(typ Type, name Ident, arrayLen int) (string, error) {
	t := typ.String()
	if t == "" {
		return "", fmt.Errorf("%w: declaration of '%s' without type", ErrInvalidOperand, name)
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	if arrayLen > 0 {
		return fmt.Sprintf("%s %s[%d]", t, name, arrayLen), nil
	}
	return t + " " + name.String(), nil
}

// checkName validates identifiers that were created by a type conversion
// instead of ParseIdent.
func checkName(name Ident) error {
	if !identPattern.MatchString(string(name)) {
		return fmt.Errorf("%w: '%s'", ErrInvalidIdent, name)
	}
	return nil
}
