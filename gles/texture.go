package gles

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"
)

// Wrap is a texture coordinate wrap mode, applied to both axes.
type Wrap int32

const (
	Repeat         Wrap = gl.REPEAT
	ClampToEdge    Wrap = gl.CLAMP_TO_EDGE
	MirroredRepeat Wrap = gl.MIRRORED_REPEAT
)

func (w Wrap) String() string {
	switch w {
	case Repeat:
		return "repeat"
	case ClampToEdge:
		return "clamp"
	case MirroredRepeat:
		return "mirror"
	default:
		return fmt.Sprintf("Wrap(0x%04x)", int32(w))
	}
}

// ParseWrap accepts the short names used in config files as well as the
// GL_* spellings found in shader sources.
func ParseWrap(s string) (Wrap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "repeat", "gl_repeat":
		return Repeat, nil
	case "clamp", "clamp_to_edge", "gl_clamp_to_edge":
		return ClampToEdge, nil
	case "mirror", "mirrored_repeat", "gl_mirrored_repeat":
		return MirroredRepeat, nil
	default:
		return 0, fmt.Errorf("unknown wrap mode %q", s)
	}
}

// NewTexture allocates an uninitialized width x height RGBA32F texture with
// linear filtering and the given wrap mode on both axes.
func NewTexture(width, height int, wrap Wrap) (Texture, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", width, height)
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	if texture == 0 {
		return 0, fmt.Errorf("could not generate texture")
	}
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int32(wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, int32(wrap))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return Texture(texture), nil
}

// Resize reallocates the storage of t. Previous contents are lost.
func (t Texture) Resize(width, height int) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// UniformTexture binds texture to the given texture unit and points the
// sampler uniform at location to that unit.
func UniformTexture(location int32, unit int32, texture Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
	gl.Uniform1i(location, unit)
}
