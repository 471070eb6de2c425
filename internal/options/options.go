// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input       string `flag:"i" usage:"input project manifest (.hcl)"`
	Destination string `flag:"o" usage:"output directory, overrides the manifest destination"`
	Batch       string `flag:"batch" usage:"batch process manifests matching pattern (e.g. *.hcl)"`
}

// Flags contains behavior options.
type Flags struct {
	Layout string `flag:"layout" usage:"source layout: single, split (default: manifest setting)"`
	Debug  bool   `flag:"debug" usage:"enable debug logging"`
	Quiet  bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the generator.
type Program struct {
	Parameters
	Flags
}
