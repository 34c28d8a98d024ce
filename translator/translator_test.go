package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validShader = `#version 300 es
precision highp float;
uniform float iTime;
uniform vec3 iResolution;
out vec4 fragColor;
void main() {
	vec2 uv = gl_FragCoord.xy / iResolution.xy;
	fragColor = vec4(uv, 0.5 + 0.5 * sin(iTime), 1.0);
}
`

func TestCheck(t *testing.T) {
	report, err := Check(context.Background(), validShader)
	require.NoError(t, err)
	assert.Contains(t, report.Variables, "iTime")
	assert.Contains(t, report.Variables, "iResolution")
	assert.IsIncreasing(t, report.Variables)
	assert.NotEmpty(t, report.Code)
}

func TestCheckInvalid(t *testing.T) {
	_, err := Check(context.Background(), "#version 300 es\nvoid main() { undefined_call(); }\n")
	assert.Error(t, err)
}

func TestGetTranslatorShared(t *testing.T) {
	a, err := GetTranslator(context.Background())
	require.NoError(t, err)
	b, err := GetTranslator(context.Background())
	require.NoError(t, err)
	assert.Same(t, a, b)
}
