package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/fragx/gles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fragx.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	opts := Default()
	require.NoError(t, opts.Validate())
	assert.Equal(t, 1, opts.SwapInterval)
	wrap, err := opts.WrapMode()
	require.NoError(t, err)
	assert.Equal(t, gles.Repeat, wrap)
	assert.Equal(t, 600, opts.Frames())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
shader = "scenes/tunnel.frag"
width = 1280
height = 720
wrap = "GL_CLAMP_TO_EDGE"
swap_interval = 0
fps = 30
duration = 2.5
`)
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "scenes/tunnel.frag", opts.Shader)
	assert.Equal(t, 1280, opts.Width)
	assert.Equal(t, 720, opts.Height)
	assert.Equal(t, 0, opts.SwapInterval)
	assert.Equal(t, 75, opts.Frames())

	// untouched keys keep their defaults
	assert.Equal(t, "fragx", opts.Title)
	assert.Equal(t, "h264", opts.Codec)
	assert.True(t, opts.Watch)

	wrap, err := opts.WrapMode()
	require.NoError(t, err)
	assert.Equal(t, gles.ClampToEdge, wrap)
	assert.NoError(t, opts.Validate())
}

func TestLoadUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "widht = 100\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widht")
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(writeConfig(t, "width = \n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ShaderOptions)
		want   string
	}{
		{"zero width", func(o *ShaderOptions) { o.Width = 0 }, "invalid size"},
		{"negative height", func(o *ShaderOptions) { o.Height = -4 }, "invalid size"},
		{"negative swap interval", func(o *ShaderOptions) { o.SwapInterval = -1 }, "swap interval"},
		{"bad wrap", func(o *ShaderOptions) { o.Wrap = "border" }, "unknown wrap mode"},
		{"zero fps", func(o *ShaderOptions) { o.FPS = 0 }, "fps"},
		{"negative duration", func(o *ShaderOptions) { o.Duration = -1 }, "duration"},
		{"bad codec", func(o *ShaderOptions) { o.Codec = "vp9" }, "unsupported codec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Default()
			tt.modify(opts)
			err := opts.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	opts := Default()
	opts.Width = 0
	opts.Codec = "vp9"
	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid size")
	assert.Contains(t, err.Error(), "unsupported codec")
}
