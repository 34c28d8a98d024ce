package graphics

import "github.com/richinsley/fragx/gles"

// Context defines the interface for an OpenGL ES 3.0 context that owns a
// full-screen quad.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// Quad returns the full-screen quad uploaded when the context was created.
	Quad() *gles.Quad
}
