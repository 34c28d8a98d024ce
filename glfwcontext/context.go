package glfwcontext

import (
	"fmt"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/fragx/gles"
	options "github.com/richinsley/fragx/options"
)

// Context is a GLFW window with a current OpenGL ES 3.0 context.
type Context struct {
	window *glfw.Window
	quad   *gles.Quad
}

// New initializes GLFW, opens a width x height window with an OpenGL ES 3.0
// context, makes it current, uploads the full-screen quad to attribute 0 and
// sets the swap interval. It must be called from the main thread.
func New(opts *options.ShaderOptions, visible bool) (*Context, error) {
	log := gles.Logger()
	if err := glfw.Init(); err != nil {
		log.Errorf("Unable to initialize GLFW: %v", err)
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	if visible {
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		log.Errorf("Could not create window: %v", err)
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	win.MakeContextCurrent()

	quad, err := gles.Setup()
	if err != nil {
		win.Destroy()
		return nil, err
	}
	glfw.SwapInterval(opts.SwapInterval)

	return &Context{window: win, quad: quad}, nil
}

// MakeCurrent makes the context current for the calling thread.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown releases the quad and destroys the window.
func (c *Context) Shutdown() {
	c.quad.Delete()
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

func (c *Context) Quad() *gles.Quad {
	return c.quad
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// Terminate shuts down GLFW. Must be called from the main thread after every
// Context has been shut down.
func Terminate() {
	glfw.Terminate()
	gles.Logger().Debug("GLFW terminated")
}
