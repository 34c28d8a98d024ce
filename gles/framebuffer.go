package gles

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
)

// NewFramebuffer creates a framebuffer with texture as color attachment 0.
// On success the framebuffer is left bound. An incomplete framebuffer is
// deleted and the default framebuffer is rebound.
func NewFramebuffer(texture Texture) (Framebuffer, error) {
	if texture == 0 {
		log.Error("Error creating framebuffer: no texture")
		return 0, fmt.Errorf("cannot attach texture 0 to a framebuffer")
	}

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	if fbo == 0 {
		return 0, fmt.Errorf("could not generate framebuffer")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(texture), 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		log.WithField("status", fmt.Sprintf("0x%04x", status)).Error("Error creating framebuffer")
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.DeleteFramebuffers(1, &fbo)
		return 0, &IncompleteError{Status: status}
	}
	return Framebuffer(fbo), nil
}

// ReadPixels reads a width x height RGBA float rectangle from the currently
// bound read framebuffer into dst, which must hold width*height*4 values.
func ReadPixels(width, height int, dst []float32) error {
	if len(dst) < width*height*4 {
		return fmt.Errorf("pixel buffer holds %d floats, need %d", len(dst), width*height*4)
	}
	if width == 0 || height == 0 {
		return nil
	}
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.FLOAT, unsafe.Pointer(&dst[0]))
	return nil
}
