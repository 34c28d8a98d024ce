package shader

// Header is inserted in front of fragment sources that do not start with a
// #version directive.
const Header = `#version 300 es
precision highp float;
`

// blitFragmentSource presents the off-screen float target on the default
// framebuffer. It pairs with gles.VertexSource, which forwards no texture
// coordinates, so it samples by fragment position.
const blitFragmentSource = `#version 300 es
precision mediump float;
uniform sampler2D u_texture;
uniform vec2 u_resolution;
out vec4 fragColor;
void main() { fragColor = texture(u_texture, gl_FragCoord.xy / u_resolution); }
`

// GetBlitFragmentShader returns the presentation shader source.
func GetBlitFragmentShader() string {
	return blitFragmentSource
}
