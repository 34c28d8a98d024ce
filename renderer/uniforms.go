package renderer

import (
	gl "github.com/go-gl/gl/v3.1/gles2"
)

func updateUniforms(pass *RenderPass, width, height int, uniforms *Uniforms) {
	if pass.resolutionLoc != -1 {
		gl.Uniform3f(pass.resolutionLoc, float32(width), float32(height), 1)
	}
	if pass.timeLoc != -1 {
		gl.Uniform1f(pass.timeLoc, uniforms.Time)
	}
	if pass.timeDeltaLoc != -1 {
		gl.Uniform1f(pass.timeDeltaLoc, uniforms.TimeDelta)
	}
	if pass.frameLoc != -1 {
		gl.Uniform1i(pass.frameLoc, uniforms.Frame)
	}
}
