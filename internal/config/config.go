// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/options"
	"github.com/retroenv/snesgen/internal/project"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ApplyOverrides applies the command line options that override settings of
// the project manifest.
func ApplyOverrides(cfg *project.Config, opts options.Program) {
	if opts.Destination != "" {
		cfg.Destination = opts.Destination
	}
	if opts.Layout != "" {
		cfg.Layout = project.Layout(opts.Layout)
	}
}
