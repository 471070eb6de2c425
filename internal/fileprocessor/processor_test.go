package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/snesgen/internal/options"
)

const minimalManifest = `
project "minimal" {
  rom_name = "minimal"
}

header {
  name = "SNESGEN MINIMAL      "
}
`

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.hcl", "b.hcl", "c.txt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(minimalManifest), 0o644))
	}

	opts := &options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.hcl")}}
	files, err := GetFilesToProcess(opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.hcl"), filepath.Join(dir, "b.hcl")}, files)

	opts = &options.Program{Parameters: options.Parameters{Input: "game.hcl"}}
	files, err = GetFilesToProcess(opts)
	assert.NoError(t, err)
	assert.Equal(t, []string{"game.hcl"}, files)

	opts = &options.Program{Parameters: options.Parameters{Batch: "[.hcl"}}
	_, err = GetFilesToProcess(opts)
	assert.ErrorContains(t, err, "globbing batch pattern")
}

func TestGenerateDestination(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "game"), GenerateDestination("out", filepath.Join("projects", "game.hcl")))
	assert.Equal(t, filepath.Join("out", "game"), GenerateDestination("out", "game"))
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "minimal.hcl")
	assert.NoError(t, os.WriteFile(input, []byte(minimalManifest), 0o644))

	dest := filepath.Join(dir, "build")
	opts := options.Program{Parameters: options.Parameters{Input: input, Destination: dest}}
	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))

	_, err := os.Stat(filepath.Join(dest, "main.c"))
	assert.NoError(t, err)

	opts.Input = filepath.Join(dir, "missing.hcl")
	assert.ErrorContains(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts), "missing.hcl")
}
