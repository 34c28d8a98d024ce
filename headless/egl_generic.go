//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/fragx/graphics"
	"github.com/richinsley/fragx/options"
)

// New is only implemented on linux.
func New(opts *options.ShaderOptions) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
