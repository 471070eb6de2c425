// Package pipeline orchestrates the project generation workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/config"
	"github.com/retroenv/snesgen/internal/manifest"
	"github.com/retroenv/snesgen/internal/options"
	"github.com/retroenv/snesgen/internal/project"
)

// Pipeline orchestrates the complete generation workflow.
type Pipeline struct {
	logger *log.Logger
}

// New creates a new generation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
	}
}

// Execute runs the complete generation pipeline for the manifest file set
// in the options.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (*project.Result, error) {
	file, err := manifest.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	return p.ExecuteWithManifest(ctx, file, filepath.Dir(opts.Input), opts)
}

// ExecuteWithManifest runs the generation pipeline with an already decoded
// manifest. Relative paths of the manifest are resolved against baseDir.
func (p *Pipeline) ExecuteWithManifest(ctx context.Context, file *manifest.File, baseDir string,
	opts options.Program) (*project.Result, error) {

	cfg, err := file.Config(baseDir)
	if err != nil {
		return nil, fmt.Errorf("building project models: %w", err)
	}
	config.ApplyOverrides(&cfg, opts)
	if opts.Input != "" {
		cfg.Inputs = append(cfg.Inputs, opts.Input)
	}

	p.printInfo(opts, file, cfg)

	result, err := project.Build(ctx, p.logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("generating project: %w", err)
	}
	return result, nil
}

// printInfo prints information about the project being generated.
func (p *Pipeline) printInfo(opts options.Program, file *manifest.File, cfg project.Config) {
	if opts.Quiet {
		return
	}

	layout := cfg.Layout
	if layout == "" {
		layout = project.LayoutSingle
	}

	p.logger.Info("Processing project",
		log.String("file", opts.Input),
		log.String("project", file.Project.Name),
		log.String("rom", cfg.Makefile.RomName()),
		log.String("layout", string(layout)),
	)
	p.logger.Debug("Project models",
		log.Int("resources", cfg.Registry.Len()),
		log.Int("routines", len(cfg.Scheduler.Routines())),
		log.Int("functions", len(cfg.Functions)),
		log.Int("rules", len(cfg.Makefile.Rules())),
	)
	mapping := "LoROM"
	if cfg.Mapping.HiROM {
		mapping = "HiROM"
	}
	p.logger.Debug("Memory mapping",
		log.String("mapping", mapping),
		log.Int("banks", cfg.Mapping.ROMBanks),
		log.Hex("bank_size", cfg.Mapping.BankSize()),
	)
	for _, routine := range cfg.Scheduler.Routines() {
		period, _ := cfg.Scheduler.Period(routine.Name)
		p.logger.Debug("Scheduled routine",
			log.String("name", routine.Name.String()),
			log.Int("period", int(period)),
		)
	}
}
