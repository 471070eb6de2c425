package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/retroenv/retrogolib/set"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// collectAssets checks that all assets exist and that their file names are
// unique in the destination, including the names of the generated files.
func collectAssets(cfg Config, files []generatedFile) ([]string, error) {
	names := set.New[string]()
	if cfg.AssetDir == "" {
		for _, file := range files {
			names.Add(file.name)
		}
	}

	assets := make([]string, 0, len(cfg.Assets))
	for _, asset := range cfg.Assets {
		info, err := os.Stat(asset)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: '%s'", ErrMissingAsset, asset)
			}
			return nil, fmt.Errorf("checking asset '%s': %w", asset, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: '%s' is a directory", ErrMissingAsset, asset)
		}

		name := filepath.Base(asset)
		if names.Contains(name) {
			return nil, fmt.Errorf("%w: file name '%s' of '%s' is already used", ErrAssetConflict, name, asset)
		}
		names.Add(name)
		assets = append(assets, asset)
	}
	return assets, nil
}

// checkDestination makes sure that cleaning the destination does not remove
// any input of the project or the working directory.
func checkDestination(cfg Config, assets []string) error {
	dest, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return fmt.Errorf("resolving destination '%s': %w", cfg.Destination, err)
	}

	protected := append(slices.Clone(assets), cfg.Inputs...)
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	protected = append(protected, wd)

	for _, path := range protected {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving path '%s': %w", path, err)
		}
		if isWithin(dest, abs) {
			return fmt.Errorf("%w: '%s' contains '%s'", ErrUnsafeDestination, cfg.Destination, path)
		}
	}
	return nil
}

// isWithin returns whether path equals dir or is located below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// cleanDestination removes the destination with all its content and creates
// it again as empty directory.
func cleanDestination(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing destination '%s': %w", path, err)
	}
	if err := os.MkdirAll(path, dirPermissions); err != nil {
		return fmt.Errorf("creating destination '%s': %w", path, err)
	}
	return nil
}

func copyFile(source, destination string) (err error) {
	if err := os.MkdirAll(filepath.Dir(destination), dirPermissions); err != nil {
		return fmt.Errorf("creating directory for '%s': %w", destination, err)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening asset '%s': %w", source, err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissions)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", destination, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing file '%s': %w", destination, closeErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying asset '%s': %w", source, err)
	}
	return nil
}

func writeFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, filePermissions); err != nil {
		return fmt.Errorf("writing file '%s': %w", path, err)
	}
	return nil
}
