package gles

import (
	gl "github.com/go-gl/gl/v3.1/gles2"
)

// QuadVertices are two triangles covering clip space, three floats per vertex.
var QuadVertices = [...]float32{
	-1, -1, 0,
	+1, -1, 0,
	+1, +1, 0,
	+1, +1, 0,
	-1, +1, 0,
	-1, -1, 0,
}

const (
	quadComponents  = 3
	quadVertexCount = int32(len(QuadVertices) / quadComponents)
)

// Quad is the static full-screen quad, stored once in a vertex buffer and
// wired to attribute location 0 through a vertex array object.
type Quad struct {
	vao uint32
	vbo uint32
}

// NewQuad uploads QuadVertices and leaves the quad's vertex array bound.
func NewQuad() *Quad {
	q := &Quad{}
	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(QuadVertices)*4, gl.Ptr(&QuadVertices[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, quadComponents, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	return q
}

// Bind binds the quad's vertex array.
func (q *Quad) Bind() {
	gl.BindVertexArray(q.vao)
}

// Draw issues the six-vertex draw call with the current program.
func (q *Quad) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, quadVertexCount)
}

func (q *Quad) Delete() {
	gl.DeleteVertexArrays(1, &q.vao)
	gl.DeleteBuffers(1, &q.vbo)
	q.vao, q.vbo = 0, 0
}
