package options

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/richinsley/fragx/gles"
)

// ShaderOptions configures the window, the render target and recording. Values
// come from Default, optionally overlaid by a TOML file, then by CLI flags.
type ShaderOptions struct {
	Shader       string `toml:"shader"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	Title        string `toml:"title"`
	SwapInterval int    `toml:"swap_interval"` // 1 = vsync, 0 = unthrottled
	Wrap         string `toml:"wrap"`          // wrap mode of the off-screen target
	Watch        bool   `toml:"watch"`         // reload the shader when its files change
	LogLevel     string `toml:"log_level"`

	// Recording
	Duration   float64 `toml:"duration"`
	FPS        int     `toml:"fps"`
	OutputFile string  `toml:"output"`
	Codec      string  `toml:"codec"`
	FFMPEGPath string  `toml:"ffmpeg"`
	Headless   bool    `toml:"headless"`
}

// Default returns the options used when no config file or flag overrides them.
func Default() *ShaderOptions {
	return &ShaderOptions{
		Width:        800,
		Height:       600,
		Title:        "fragx",
		SwapInterval: 1,
		Wrap:         "repeat",
		Watch:        true,
		LogLevel:     "info",
		Duration:     10,
		FPS:          60,
		OutputFile:   "output.mp4",
		Codec:        "h264",
	}
}

// Load overlays the TOML file at path onto Default. Keys absent from the file
// keep their default values; unknown keys are an error.
func Load(path string) (*ShaderOptions, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	md, err := toml.Decode(string(data), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return opts, nil
}

// WrapMode returns the parsed wrap mode.
func (o *ShaderOptions) WrapMode() (gles.Wrap, error) {
	return gles.ParseWrap(o.Wrap)
}

// Frames is the number of frames a recording of Duration seconds at FPS holds.
func (o *ShaderOptions) Frames() int {
	return int(o.Duration * float64(o.FPS))
}

// Validate checks the options that the renderer and encoder depend on.
func (o *ShaderOptions) Validate() error {
	var errs []error
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", o.Width, o.Height))
	}
	if o.SwapInterval < 0 {
		errs = append(errs, fmt.Errorf("swap interval must not be negative, got %d", o.SwapInterval))
	}
	if _, err := o.WrapMode(); err != nil {
		errs = append(errs, err)
	}
	if o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", o.FPS))
	}
	if o.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must not be negative, got %g", o.Duration))
	}
	switch o.Codec {
	case "h264", "hevc":
	default:
		errs = append(errs, fmt.Errorf("unsupported codec %q", o.Codec))
	}
	return errors.Join(errs...)
}
