package renderer_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/richinsley/fragx/gltest"
	"github.com/richinsley/fragx/graphics"
	"github.com/richinsley/fragx/options"
	"github.com/richinsley/fragx/renderer"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) { gltest.Main(m) }

// Red steps by a quarter per frame so every frame is distinguishable after
// 8-bit quantization.
const frameShader = `#version 300 es
precision highp float;
uniform int iFrame;
uniform vec3 iResolution;
out vec4 fragColor;
void main() { fragColor = vec4(float(iFrame) * 0.25, 0.5, iResolution.z, 1.0); }
`

type frameRecorder struct {
	frames [][]byte
	err    error
}

func (f *frameRecorder) WriteFrame(pixels []byte) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, append([]byte(nil), pixels...))
	return nil
}

// Recording size, deliberately different from the test window.
const (
	recordWidth  = 64
	recordHeight = 32
)

func recordOptions() *options.ShaderOptions {
	opts := options.Default()
	opts.Width, opts.Height = recordWidth, recordHeight
	return opts
}

// hiDPIContext reports a framebuffer twice the size of the window, the way a
// Retina display does.
type hiDPIContext struct {
	graphics.Context
}

func (c hiDPIContext) GetFramebufferSize() (int, int) {
	w, h := c.Context.GetFramebufferSize()
	return 2 * w, 2 * h
}

func newRenderer(t *testing.T) *renderer.Renderer {
	t.Helper()
	return newRendererOn(t, func() graphics.Context { return gltest.Context() })
}

func newRendererOn(t *testing.T, glctx func() graphics.Context) *renderer.Renderer {
	t.Helper()
	logger, _ := test.NewNullLogger()
	var r *renderer.Renderer
	var err error
	gltest.Do(t, func() {
		r, err = renderer.New(glctx(), recordOptions(), logger)
	})
	require.NoError(t, err)
	t.Cleanup(func() { gltest.Do(t, r.Shutdown) })
	return r
}

func TestRecord(t *testing.T) {
	r := newRenderer(t)
	out := &frameRecorder{}
	var loadErr, recordErr error
	gltest.Do(t, func() {
		loadErr = r.Load(frameShader)
		if loadErr == nil {
			recordErr = r.Record(context.Background(), out, 3, 30)
		}
	})
	require.NoError(t, loadErr)
	if errors.Is(recordErr, renderer.ErrNoTarget) {
		t.Skip("driver cannot render to RGBA32F")
	}
	require.NoError(t, recordErr)
	require.Len(t, out.frames, 3)

	for i, frame := range out.frames {
		require.Len(t, frame, recordWidth*recordHeight*4)
		want := []byte{[]byte{0, 64, 128}[i], 128, 255, 255}
		assert.Equal(t, want, frame[:4], "first pixel of frame %d", i)
		assert.Equal(t, want, frame[len(frame)-4:], "last pixel of frame %d", i)
	}
}

// sizeChecker rejects frames of the wrong size, as the ffmpeg encoder does.
type sizeChecker struct {
	size   int
	frames int
}

func (s *sizeChecker) WriteFrame(pixels []byte) error {
	if len(pixels) != s.size {
		return fmt.Errorf("frame is %d bytes, expected %d", len(pixels), s.size)
	}
	s.frames++
	return nil
}

func TestRecordIgnoresFramebufferSize(t *testing.T) {
	r := newRendererOn(t, func() graphics.Context {
		return hiDPIContext{Context: gltest.Context()}
	})
	out := &sizeChecker{size: recordWidth * recordHeight * 4}
	var recordErr error
	var width, height int
	gltest.Do(t, func() {
		if err := r.Load(frameShader); err != nil {
			recordErr = err
			return
		}
		recordErr = r.Record(context.Background(), out, 2, 30)
		if r.Target() != nil {
			width, height = r.Target().Size()
		}
	})
	if errors.Is(recordErr, renderer.ErrNoTarget) {
		t.Skip("driver cannot render to RGBA32F")
	}
	require.NoError(t, recordErr)
	assert.Equal(t, 2, out.frames)
	assert.Equal(t, recordWidth, width)
	assert.Equal(t, recordHeight, height)
}

func TestRecordWriterError(t *testing.T) {
	r := newRenderer(t)
	writeErr := errors.New("disk full")
	var recordErr error
	gltest.Do(t, func() {
		if err := r.Load(frameShader); err != nil {
			recordErr = err
			return
		}
		recordErr = r.Record(context.Background(), &frameRecorder{err: writeErr}, 5, 30)
	})
	if errors.Is(recordErr, renderer.ErrNoTarget) {
		t.Skip("driver cannot render to RGBA32F")
	}
	assert.ErrorIs(t, recordErr, writeErr)
}

func TestRecordCancelled(t *testing.T) {
	r := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := &frameRecorder{}
	var recordErr error
	gltest.Do(t, func() {
		recordErr = r.Record(ctx, out, 5, 30)
	})
	if errors.Is(recordErr, renderer.ErrNoTarget) {
		t.Skip("driver cannot render to RGBA32F")
	}
	assert.ErrorIs(t, recordErr, context.Canceled)
	assert.Empty(t, out.frames)
}

func TestLoadKeepsPreviousProgram(t *testing.T) {
	r := newRenderer(t)
	var firstErr, secondErr error
	var before, after *renderer.RenderPass
	gltest.Do(t, func() {
		firstErr = r.Load(frameShader)
		before = r.Pass()
		secondErr = r.Load("#version 300 es\nvoid main() { syntax error }\n")
		after = r.Pass()
	})
	require.NoError(t, firstErr)
	assert.Error(t, secondErr)
	assert.Same(t, before, after)
	assert.True(t, after.Program.Valid())
}

func TestToRGBA8(t *testing.T) {
	// 2x2, bottom row first as GL returns it.
	src := []float32{
		0, 0.5, 1, 1, 2, -1, float32(math.NaN()), 1, // bottom
		0.25, 0.25, 0.25, 1, 1, 1, 1, 0, // top
	}
	got := renderer.ToRGBA8(nil, src, 2, 2)
	want := []byte{
		64, 64, 64, 255, 255, 255, 255, 0, // top
		0, 128, 255, 255, 255, 0, 0, 255, // bottom
	}
	assert.Equal(t, want, got)
}

func TestToRGBA8ReusesBuffer(t *testing.T) {
	dst := make([]byte, 0, 64)
	got := renderer.ToRGBA8(dst, make([]float32, 16), 2, 2)
	assert.Len(t, got, 16)
	assert.Equal(t, &dst[:1][0], &got[0])
}

func TestLoadLogsToRendererLogger(t *testing.T) {
	// The renderer logs through the logger it is given, not the global one.
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	var err error
	gltest.Do(t, func() {
		var r *renderer.Renderer
		r, err = renderer.New(gltest.Context(), options.Default(), logger)
		if err != nil {
			return
		}
		defer r.Shutdown()
		err = r.Load(frameShader)
	})
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Loaded shader", hook.LastEntry().Message)
}
