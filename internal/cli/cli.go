// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/snesgen/internal/options"
	"github.com/retroenv/snesgen/internal/project"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and all flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: snesgen [options] <project manifest>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after project manifest, please pass the manifest as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Layout = strings.ToLower(opts.Layout)
	if opts.Layout == "" {
		return nil
	}

	validLayouts := []string{string(project.LayoutSingle), string(project.LayoutSplit)}
	if slices.Contains(validLayouts, opts.Layout) {
		return nil
	}

	return fmt.Errorf("unsupported layout: %s. Valid options: %s",
		opts.Layout, strings.Join(validLayouts, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input project manifest")
	flags.StringVar(&opts.Destination, "o", "", "name of the output directory, overrides the destination of the manifest")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask, for example *.hcl")
	flags.StringVar(&opts.Layout, "layout", "", "layout of the generated C sources (single/split), overrides the layout of the manifest")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
