package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/snesgen/internal/options"
)

//nolint:funlen // test functions can be long
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		want  options.Program
		usage bool
		err   bool
	}{
		{
			name: "manifest only",
			args: []string{"prog", "game.hcl"},
			want: options.Program{Parameters: options.Parameters{Input: "game.hcl"}},
		},
		{
			name: "destination and layout",
			args: []string{"prog", "-o", "build", "-layout", "SPLIT", "game.hcl"},
			want: options.Program{
				Parameters: options.Parameters{Input: "game.hcl", Destination: "build"},
				Flags:      options.Flags{Layout: "split"},
			},
		},
		{
			name: "batch",
			args: []string{"prog", "-batch", "*.hcl", "-q"},
			want: options.Program{
				Parameters: options.Parameters{Batch: "*.hcl"},
				Flags:      options.Flags{Quiet: true},
			},
		},
		{
			name:  "no manifest",
			args:  []string{"prog", "-debug"},
			usage: true,
		},
		{
			name:  "flag after manifest",
			args:  []string{"prog", "game.hcl", "-q"},
			usage: true,
		},
		{
			name: "unsupported layout",
			args: []string{"prog", "-layout", "banked", "game.hcl"},
			err:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			var usageErr *UsageError
			switch {
			case tt.usage:
				assert.True(t, errors.As(err, &usageErr))
			case tt.err:
				assert.ErrorContains(t, err, "unsupported layout")
				assert.False(t, errors.As(err, &usageErr))
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
