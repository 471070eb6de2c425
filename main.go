// Package main implements the main entry point for the SNES project generator
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/cli"
	"github.com/retroenv/snesgen/internal/config"
	"github.com/retroenv/snesgen/internal/fileprocessor"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if len(files) == 0 {
		logger.Fatal("No project manifests found", log.String("pattern", opts.Batch))
	}

	outputDir := opts.Destination
	failed := false
	for _, file := range files {
		opts.Input = file
		if len(files) > 1 && outputDir != "" {
			opts.Destination = fileprocessor.GenerateDestination(outputDir, file)
		}

		if err := fileprocessor.ProcessFile(ctx, logger, opts); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return
			}
			logger.Error("Generating project failed", log.Err(err))
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
