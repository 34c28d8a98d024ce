package renderer

import (
	"errors"
	"fmt"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/richinsley/fragx/gles"
	"github.com/richinsley/fragx/graphics"
	"github.com/richinsley/fragx/options"
	"github.com/richinsley/fragx/shader"
	"github.com/sirupsen/logrus"
)

// ErrNoTarget is returned by Record when the driver cannot render to a float
// target.
var ErrNoTarget = errors.New("no floating-point render target available")

// Renderer draws one user fragment shader over the full-screen quad. When the
// driver supports float color buffers the shader renders into an off-screen
// RGBA32F target that is then presented with a blit program; otherwise it
// draws straight to the window.
type Renderer struct {
	context     graphics.Context
	log         logrus.FieldLogger
	pass        *RenderPass
	target      *OffscreenTarget
	blitProgram gles.Program
	blitTexLoc  int32
	blitResLoc  int32

	// recording size, independent of the window
	width  int
	height int
}

// New creates a renderer on ctx, which must be current.
func New(ctx graphics.Context, opts *options.ShaderOptions, log logrus.FieldLogger) (*Renderer, error) {
	wrap, err := opts.WrapMode()
	if err != nil {
		return nil, err
	}
	r := &Renderer{context: ctx, log: log, width: opts.Width, height: opts.Height}

	width, height := ctx.GetFramebufferSize()
	r.target, err = NewOffscreenTarget(width, height, wrap)
	if err != nil {
		log.Warnf("Rendering directly to the window: %v", err)
		r.target = nil
		return r, nil
	}

	r.blitProgram, err = gles.LoadProgram(shader.GetBlitFragmentShader())
	if err != nil {
		r.target.Destroy()
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	r.blitTexLoc = r.blitProgram.UniformLocation("u_texture")
	r.blitResLoc = r.blitProgram.UniformLocation("u_resolution")
	return r, nil
}

// Target returns the off-screen target, or nil when rendering to the window.
func (r *Renderer) Target() *OffscreenTarget { return r.target }

// Pass returns the current user pass, or nil before the first successful Load.
func (r *Renderer) Pass() *RenderPass { return r.pass }

// Load links code as the new user program. If linking fails the previous
// program stays in use.
func (r *Renderer) Load(code string) error {
	program, err := gles.LoadProgram(code)
	if err != nil {
		return err
	}
	if r.pass != nil {
		r.pass.Program.Delete()
	}
	r.pass = newRenderPass(program)
	r.log.WithField("program", uint32(program)).Info("Loaded shader")
	return nil
}

// RenderFrame draws the user program into the target, or into the window when
// there is no target.
func (r *Renderer) RenderFrame(width, height int, uniforms *Uniforms) {
	if r.target != nil {
		r.target.Resize(width, height)
		r.target.Bind()
	} else {
		gles.Framebuffer(0).Bind()
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if r.pass == nil {
		return
	}
	r.pass.Program.Use()
	updateUniforms(r.pass, width, height, uniforms)
	r.context.Quad().Draw()
}

// Present blits the target onto the window's framebuffer. It does nothing
// when rendering directly to the window.
func (r *Renderer) Present(width, height int) {
	gles.Framebuffer(0).Bind()
	if r.target == nil {
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	r.blitProgram.Use()
	gles.UniformTexture(r.blitTexLoc, 0, r.target.Texture())
	if r.blitResLoc != -1 {
		gl.Uniform2f(r.blitResLoc, float32(width), float32(height))
	}
	r.context.Quad().Draw()
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Shutdown releases the programs and the target. The context itself belongs
// to the caller.
func (r *Renderer) Shutdown() {
	if r.pass != nil {
		r.pass.Program.Delete()
		r.pass = nil
	}
	r.blitProgram.Delete()
	if r.target != nil {
		r.target.Destroy()
		r.target = nil
	}
}
