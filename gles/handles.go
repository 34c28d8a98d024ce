// Package gles wraps the handful of OpenGL ES 3.0 calls needed to draw a fragment
// shader over a full-screen quad: shader compilation, program linking against a
// fixed pass-through vertex stage, float render targets and texture uniforms.
//
// Every function must be called on the thread that owns the current context.
// A zero handle always means failure and is returned together with an error.
package gles

import (
	gl "github.com/go-gl/gl/v3.1/gles2"
)

// Stage selects the pipeline stage a shader is compiled for.
type Stage uint32

const (
	VertexStage   Stage = gl.VERTEX_SHADER
	FragmentStage Stage = gl.FRAGMENT_SHADER
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Shader is a compiled shader object name.
type Shader uint32

// Valid reports whether s names a shader object.
func (s Shader) Valid() bool { return s != 0 }

// Delete flags the shader for deletion. The driver keeps it alive while it is
// attached to a program.
func (s Shader) Delete() {
	if s != 0 {
		gl.DeleteShader(uint32(s))
	}
}

// Program is a linked program object name.
type Program uint32

func (p Program) Valid() bool { return p != 0 }

// Use makes p the current program.
func (p Program) Use() { gl.UseProgram(uint32(p)) }

// UniformLocation returns the location of the named uniform, or -1 if the
// program has no active uniform by that name.
func (p Program) UniformLocation(name string) int32 {
	if p == 0 {
		return -1
	}
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (p Program) Delete() {
	if p != 0 {
		gl.DeleteProgram(uint32(p))
	}
}

// Texture is a 2D texture object name.
type Texture uint32

func (t Texture) Valid() bool { return t != 0 }

func (t Texture) Delete() {
	if t != 0 {
		name := uint32(t)
		gl.DeleteTextures(1, &name)
	}
}

// Framebuffer is a framebuffer object name. It does not own the texture
// attached to it.
type Framebuffer uint32

func (f Framebuffer) Valid() bool { return f != 0 }

// Bind makes f the draw and read framebuffer. Binding the zero Framebuffer
// selects the window's default framebuffer.
func (f Framebuffer) Bind() { gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f)) }

func (f Framebuffer) Delete() {
	if f != 0 {
		name := uint32(f)
		gl.DeleteFramebuffers(1, &name)
	}
}
