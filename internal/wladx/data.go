package wladx

import (
	"fmt"
	"io"

	"github.com/retroenv/snesgen/internal/writer"
)

// File names of the generated assembler files.
const (
	HeaderFileName = "hdr.asm"
	DataFileName   = "data.asm"
)

// Section is a group of binary includes that are placed in the same ROM bank.
type Section struct {
	Bank    uint8
	Comment string // optional comment written after the section start
	Labels  []Label
}

// Label is a named binary include inside a section.
type Label struct {
	Name      string
	File      string
	EndMarker bool // write a <name>_end label after the included data
}

type includeWrite string

type sectionStartWrite Section

type labelWrite Label

type sectionEndWrite struct{}

type emptyLineWrite struct{}

// WriteData writes the data.asm content with one section per bank, in the
// order of the passed sections.
func WriteData(w io.Writer, sections []Section) error {
	out := writer.New(w, writer.Assembler)

	writes := []any{includeWrite(HeaderFileName)}
	for _, section := range sections {
		writes = append(writes, emptyLineWrite{}, sectionStartWrite(section))
		for _, label := range section.Labels {
			writes = append(writes, labelWrite(label))
		}
		writes = append(writes, sectionEndWrite{})
	}

	for _, write := range writes {
		var err error

		switch t := write.(type) {
		case includeWrite:
			err = out.Linef(`.include "%s"`, string(t))

		case emptyLineWrite:
			err = out.EmptyLine()

		case sectionStartWrite:
			err = writeSectionStart(out, t)

		case labelWrite:
			err = writeLabel(out, t)

		case sectionEndWrite:
			err = out.Line(".ends")
		}

		if err != nil {
			return fmt.Errorf("writing data file: %w", err)
		}
	}
	return nil
}

// SectionName returns the name of the read only data section of a bank.
func SectionName(bank uint8) string {
	return fmt.Sprintf(".rodata_bank%d", bank)
}

func writeSectionStart(out *writer.Writer, section sectionStartWrite) error {
	line := fmt.Sprintf(`.section "%s" superfree`, SectionName(section.Bank))
	if err := out.Line(line); err != nil {
		return err
	}
	if section.Comment != "" {
		if err := out.Comment(section.Comment); err != nil {
			return err
		}
	}
	return out.EmptyLine()
}

func writeLabel(out *writer.Writer, label labelWrite) error {
	if err := out.Label(label.Name, ""); err != nil {
		return err
	}
	if err := out.Linef(`.incbin "%s"`, label.File); err != nil {
		return err
	}
	if label.EndMarker {
		if err := out.Label(label.Name+"_end", ""); err != nil {
			return err
		}
	}
	return out.EmptyLine()
}
