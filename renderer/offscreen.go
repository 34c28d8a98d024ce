package renderer

import (
	"fmt"
	"math"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/richinsley/fragx/gles"
)

// OffscreenTarget is a float color texture wrapped in a framebuffer.
type OffscreenTarget struct {
	texture gles.Texture
	fbo     gles.Framebuffer
	width   int
	height  int
	pixels  []float32
}

// NewOffscreenTarget allocates the texture and framebuffer. It fails when the
// driver cannot render to RGBA32F, which ES 3.0 only guarantees with
// EXT_color_buffer_float.
func NewOffscreenTarget(width, height int, wrap gles.Wrap) (*OffscreenTarget, error) {
	texture, err := gles.NewTexture(width, height, wrap)
	if err != nil {
		return nil, fmt.Errorf("failed to create target texture: %w", err)
	}
	fbo, err := gles.NewFramebuffer(texture)
	if err != nil {
		texture.Delete()
		return nil, fmt.Errorf("failed to create target framebuffer: %w", err)
	}
	fbo.Bind()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gles.Framebuffer(0).Bind()
	return &OffscreenTarget{texture: texture, fbo: fbo, width: width, height: height}, nil
}

// Texture returns the color attachment.
func (t *OffscreenTarget) Texture() gles.Texture { return t.texture }

// Size returns the target's dimensions in pixels.
func (t *OffscreenTarget) Size() (int, int) { return t.width, t.height }

// Resize reallocates the color attachment when the size changed.
func (t *OffscreenTarget) Resize(width, height int) {
	if width == t.width && height == t.height {
		return
	}
	t.texture.Resize(width, height)
	t.width, t.height = width, height
	t.pixels = nil
}

// Bind makes the target the current framebuffer.
func (t *OffscreenTarget) Bind() { t.fbo.Bind() }

// ReadRGBA8 reads the target back and converts it to RGBA8, top row first.
func (t *OffscreenTarget) ReadRGBA8(dst []byte) ([]byte, error) {
	if len(t.pixels) != t.width*t.height*4 {
		t.pixels = make([]float32, t.width*t.height*4)
	}
	t.fbo.Bind()
	err := gles.ReadPixels(t.width, t.height, t.pixels)
	gles.Framebuffer(0).Bind()
	if err != nil {
		return nil, err
	}
	return ToRGBA8(dst, t.pixels, t.width, t.height), nil
}

func (t *OffscreenTarget) Destroy() {
	t.fbo.Delete()
	t.texture.Delete()
}

// ToRGBA8 quantizes bottom-up RGBA float pixels, as GL returns them, into
// top-down RGBA8 bytes. Values are clamped to [0, 1]. dst is reused when it
// is large enough.
func ToRGBA8(dst []byte, src []float32, width, height int) []byte {
	n := width * height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	row := width * 4
	for y := 0; y < height; y++ {
		in := src[(height-1-y)*row : (height-y)*row]
		out := dst[y*row : (y+1)*row]
		for i, v := range in {
			out[i] = quantize(v)
		}
	}
	return dst
}

func quantize(v float32) byte {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(math.Round(float64(v) * 255))
}
