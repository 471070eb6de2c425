// Package writer implements common generated file writing functionality.
package writer

import (
	"fmt"
	"io"
)

// Writer implements line based writing of generated source files.
type Writer struct {
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	CommentPrefix string // ";" for assembler files, "//" for C files, "#" for makefiles
}

// Comment prefixes of the supported output file types.
var (
	Assembler = Options{CommentPrefix: ";"}
	C         = Options{CommentPrefix: "//"}
	Makefile  = Options{CommentPrefix: "#"}
)

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// Line writes a single line.
func (w Writer) Line(line string) error {
	if _, err := fmt.Fprintln(w.writer, line); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// Linef writes a single formatted line.
func (w Writer) Linef(format string, args ...any) error {
	return w.Line(fmt.Sprintf(format, args...))
}

// Lines writes all lines in order.
func (w Writer) Lines(lines []string) error {
	for _, line := range lines {
		if err := w.Line(line); err != nil {
			return err
		}
	}
	return nil
}

// EmptyLine writes an empty line.
func (w Writer) EmptyLine() error {
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing empty line: %w", err)
	}
	return nil
}

// Comment writes a line that only contains a comment.
func (w Writer) Comment(text string) error {
	if _, err := fmt.Fprintf(w.writer, "%s %s\n", w.options.CommentPrefix, text); err != nil {
		return fmt.Errorf("writing comment: %w", err)
	}
	return nil
}

// Label writes a label with an optional comment aligned behind it.
func (w Writer) Label(label, comment string) error {
	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "%s:\n", label)
	} else {
		_, err = fmt.Fprintf(w.writer, "%-32s %s %s\n", label+":", w.options.CommentPrefix, comment)
	}
	if err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

// Code writes an indented code line with an optional comment aligned behind it.
func (w Writer) Code(code, comment string) error {
	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "  %s\n", code)
	} else {
		_, err = fmt.Fprintf(w.writer, "  %-30s %s %s\n", code, w.options.CommentPrefix, comment)
	}
	if err != nil {
		return fmt.Errorf("writing code line: %w", err)
	}
	return nil
}
