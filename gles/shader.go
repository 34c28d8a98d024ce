package gles

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/sirupsen/logrus"
)

// VertexAttrib is the attribute name of the fixed vertex stage. LoadProgram
// binds it to location 0, where the quad's positions live.
const VertexAttrib = "p"

// VertexSource is the pass-through vertex stage linked with every fragment
// shader. It forwards the quad position unchanged to clip space.
const VertexSource = `#version 300 es
in vec4 p;
void main() { gl_Position = p; }
`

// CompileShader compiles source for the given stage. On failure the info log is
// logged and returned inside a *CompileError, and the shader object is deleted.
// On success the caller owns the returned shader.
func CompileShader(source string, stage Stage) (Shader, error) {
	shader := gl.CreateShader(uint32(stage))
	if shader == 0 {
		return 0, fmt.Errorf("could not create %s shader", stage)
	}

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		infoLog := shaderInfoLog(shader)
		log.WithField("stage", stage.String()).Errorf("Error compiling shader: %s", infoLog)
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: infoLog}
	}
	return Shader(shader), nil
}

// LoadProgram links fragmentSource against VertexSource. The intermediate
// shaders are deleted on every path, so only the program survives; a failed
// link deletes the program too.
func LoadProgram(fragmentSource string) (Program, error) {
	vert, err := CompileShader(VertexSource, VertexStage)
	if err != nil {
		return 0, err
	}
	frag, err := CompileShader(fragmentSource, FragmentStage)
	if err != nil {
		log.WithField("vertex", uint32(vert)).Debug("Discarding vertex shader")
		vert.Delete()
		return 0, err
	}
	defer vert.Delete()
	defer frag.Delete()

	program := gl.CreateProgram()
	if program == 0 {
		return 0, fmt.Errorf("could not create program")
	}
	gl.AttachShader(program, uint32(vert))
	gl.AttachShader(program, uint32(frag))
	gl.BindAttribLocation(program, 0, gl.Str(VertexAttrib+"\x00"))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		infoLog := programInfoLog(program)
		log.WithFields(logrus.Fields{
			"vertex":   uint32(vert),
			"fragment": uint32(frag),
		}).Errorf("Error linking program: %s", infoLog)
		gl.DeleteProgram(program)
		return 0, &LinkError{Log: infoLog}
	}

	log.WithFields(logrus.Fields{
		"program":  program,
		"vertex":   uint32(vert),
		"fragment": uint32(frag),
	}).Debug("Linked program")
	return Program(program), nil
}

func shaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	text := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(text))
	return strings.TrimRight(text, "\x00\n")
}

func programInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 1 {
		return ""
	}
	text := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(text))
	return strings.TrimRight(text, "\x00\n")
}
