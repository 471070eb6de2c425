package ast

// Walk calls fn for every instruction of the block in source order,
// including the instructions nested in if, while and switch bodies.
// Walking stops at the first error returned by fn.
func Walk(instructions []Instruction, fn func(Instruction) error) error {
	for _, in := range instructions {
		if err := fn(in); err != nil {
			return err
		}
		if err := in.walkNested(fn); err != nil {
			return err
		}
	}
	return nil
}

func (in Instruction) walkNested(fn func(Instruction) error) error {
	if err := Walk(in.Body, fn); err != nil {
		return err
	}
	for _, branch := range in.ElseIfs {
		if err := Walk(branch.Body, fn); err != nil {
			return err
		}
	}
	if in.Else != nil {
		if err := Walk(in.Else.Body, fn); err != nil {
			return err
		}
	}
	for _, c := range in.Cases {
		if err := Walk(c.Body, fn); err != nil {
			return err
		}
	}
	if in.Default != nil {
		return Walk(in.Default.Body, fn)
	}
	return nil
}
