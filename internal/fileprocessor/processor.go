// Package fileprocessor handles manifest file selection and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/options"
	"github.com/retroenv/snesgen/internal/pipeline"
)

// ProcessFile handles the complete manifest processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	pipe := pipeline.New(logger)
	if _, err := pipe.Execute(ctx, opts); err != nil {
		return fmt.Errorf("processing %s: %w", opts.Input, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateDestination returns the output directory for a manifest when
// multiple manifests are generated into a common output directory, which
// gets one sub directory per manifest.
func GenerateDestination(outputDir, inputFile string) string {
	name := filepath.Base(inputFile)
	ext := filepath.Ext(name)
	return filepath.Join(outputDir, name[:len(name)-len(ext)])
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("snesgen", log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
