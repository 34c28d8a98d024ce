package renderer

import (
	"github.com/richinsley/fragx/gles"
)

// Uniforms holds the per-frame values every pass receives.
type Uniforms struct {
	Time      float32
	TimeDelta float32
	Frame     int32
}

// RenderPass is a linked user program with its uniform locations cached.
// Locations are -1 when the shader does not use the uniform.
type RenderPass struct {
	Program       gles.Program
	resolutionLoc int32
	timeLoc       int32
	timeDeltaLoc  int32
	frameLoc      int32
}

func newRenderPass(program gles.Program) *RenderPass {
	return &RenderPass{
		Program:       program,
		resolutionLoc: program.UniformLocation("iResolution"),
		timeLoc:       program.UniformLocation("iTime"),
		timeDeltaLoc:  program.UniformLocation("iTimeDelta"),
		frameLoc:      program.UniformLocation("iFrame"),
	}
}
