package gles

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v3.1/gles2"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the GL ES entry points. It needs a current context and only does
// work on the first call.
func Init() error {
	initOnce.Do(func() {
		initErr = gl.Init()
	})
	return initErr
}

// DriverInfo identifies the GL implementation behind the current context.
type DriverInfo struct {
	Renderer               string
	Version                string
	ShadingLanguageVersion string
}

// QueryDriverInfo reads the identification strings of the current context.
func QueryDriverInfo() DriverInfo {
	return DriverInfo{
		Renderer:               gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:                gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguageVersion: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
}

// Setup prepares a freshly current context: it loads the bindings, logs the
// driver identification strings and uploads the full-screen quad.
func Setup() (*Quad, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL ES: %w", err)
	}
	info := QueryDriverInfo()
	log.Infof("GL_RENDERER: %s", info.Renderer)
	log.Infof("GL_VERSION: %s", info.Version)
	log.Infof("GL_SHADING_LANGUAGE_VERSION: %s", info.ShadingLanguageVersion)
	return NewQuad(), nil
}
