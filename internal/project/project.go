// Package project implements the generation of a complete PVSnesLib project
// from the program models: it renders all source, assembler and make files
// and writes them together with the copied assets into a destination
// directory.
package project

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/ast"
	"github.com/retroenv/snesgen/internal/boot"
	"github.com/retroenv/snesgen/internal/makefile"
	"github.com/retroenv/snesgen/internal/memmap"
	"github.com/retroenv/snesgen/internal/resource"
	"github.com/retroenv/snesgen/internal/scheduler"
)

var (
	// ErrMissingAsset is returned when an asset to copy does not exist.
	ErrMissingAsset = errors.New("missing asset")
	// ErrAssetConflict is returned when two assets or an asset and a generated
	// file share the same file name in the destination.
	ErrAssetConflict = errors.New("asset conflict")
	// ErrUnsafeDestination is returned when cleaning the destination would
	// remove an input of the project or the working directory.
	ErrUnsafeDestination = errors.New("unsafe destination")
)

// Layout defines how the generated C code is split into files.
type Layout string

// Supported layouts.
const (
	// LayoutSingle writes all C code into main.c.
	LayoutSingle Layout = "single"
	// LayoutSplit writes a shared header, one file per routine, the dispatch
	// function and main() into separate files.
	LayoutSplit Layout = "split"
)

// Config contains all models of one generation run.
type Config struct {
	Destination string
	Layout      Layout // defaults to LayoutSingle

	Globals   []ast.Instruction   // global declarations, includes, externs and type definitions
	Functions []*scheduler.Routine // functions that are not scheduled

	Scheduler *scheduler.Scheduler
	Boot      *boot.Sequence
	Registry  *resource.Registry
	Mapping   memmap.Mapping
	Makefile  *makefile.Makefile

	Assets   []string // files that are copied into the destination
	AssetDir string   // optional sub directory of the destination for assets
	Inputs   []string // input files like the manifest, the destination must not contain them
}

// Result describes the written project.
type Result struct {
	Files           []string // generated files, relative to the destination
	Assets          []string // copied assets, relative to the destination
	UnusedResources []string // registered resources that no extern declaration references
}

// Build renders all models and writes the project to the destination. The
// destination is only modified if all models rendered successfully, all
// assets exist and it contains neither an asset, an input nor the working
// directory. It is removed and recreated before writing, so that it only
// contains the files of this run.
func Build(ctx context.Context, logger *log.Logger, cfg Config) (*Result, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	files, err := render(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering project: %w", err)
	}
	if count := privateGlobals(cfg); count > 0 {
		logger.Warn("Raw global statements are only visible in globals.c, declare them extern to use them in other files",
			log.Int("statements", count))
	}

	assets, err := collectAssets(cfg, files)
	if err != nil {
		return nil, err
	}

	unused := cfg.Registry.Unused()
	for _, name := range unused {
		logger.Warn("Resource is not referenced by any extern declaration", log.String("resource", name))
	}

	if err := checkDestination(cfg, assets); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building project: %w", err)
	}

	if err := cleanDestination(cfg.Destination); err != nil {
		return nil, err
	}
	logger.Debug("Cleaned destination", log.String("path", cfg.Destination))

	result := &Result{
		UnusedResources: unused,
	}
	if err := writeProject(ctx, logger, cfg, files, assets, result); err != nil {
		if cleanErr := cleanDestination(cfg.Destination); cleanErr != nil {
			return nil, errors.Join(err, cleanErr)
		}
		return nil, err
	}

	logger.Info("Project generated",
		log.String("path", cfg.Destination),
		log.Int("files", len(result.Files)),
		log.Int("assets", len(result.Assets)))
	return result, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Layout == "" {
		cfg.Layout = LayoutSingle
	}
	if cfg.Layout != LayoutSingle && cfg.Layout != LayoutSplit {
		return fmt.Errorf("unsupported layout '%s'", cfg.Layout)
	}

	dest := filepath.Clean(cfg.Destination)
	if cfg.Destination == "" || dest == "." || dest == string(filepath.Separator) {
		return fmt.Errorf("invalid destination '%s'", cfg.Destination)
	}
	if cfg.Makefile == nil {
		return errors.New("makefile is not set")
	}

	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.New()
	}
	if cfg.Boot == nil {
		cfg.Boot = boot.New()
	}
	if cfg.Registry == nil {
		cfg.Registry = resource.NewRegistry(cfg.Mapping.ROMBanks)
	}
	return nil
}

func writeProject(ctx context.Context, logger *log.Logger, cfg Config,
	files []generatedFile, assets []string, result *Result) error {

	assetDir := filepath.Join(cfg.Destination, cfg.AssetDir)
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("copying assets: %w", err)
		}

		name := filepath.Join(cfg.AssetDir, filepath.Base(asset))
		if err := copyFile(asset, filepath.Join(assetDir, filepath.Base(asset))); err != nil {
			return err
		}
		logger.Debug("Copied asset", log.String("source", asset), log.String("name", name))
		result.Assets = append(result.Assets, name)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("writing files: %w", err)
		}

		if err := writeFile(filepath.Join(cfg.Destination, file.name), file.content); err != nil {
			return err
		}
		logger.Debug("Wrote file", log.String("name", file.name), log.Int("size", len(file.content)))
		result.Files = append(result.Files, file.name)
	}
	return nil
}
