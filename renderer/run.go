package renderer

import (
	"context"
	"fmt"

	"github.com/richinsley/fragx/shader"
)

// FrameWriter consumes RGBA8 frames, top row first.
type FrameWriter interface {
	WriteFrame(pixels []byte) error
}

// Reloader reports when the shader source should be read again.
type Reloader interface {
	Changes() <-chan struct{}
	Reset(files []string) error
}

// Run shows the shader until the window is closed or ctx is done. When
// reloader is non-nil the source is reloaded from src.Path on every change;
// a reload that fails to parse or link keeps the running program.
func (r *Renderer) Run(ctx context.Context, src *shader.Source, reloader Reloader) {
	startTime := r.context.Time()
	lastTime := 0.0
	var frame int32

	var changes <-chan struct{}
	if reloader != nil {
		changes = reloader.Changes()
	}

	for !r.context.ShouldClose() {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			r.reload(src.Path, reloader)
		default:
		}

		now := r.context.Time() - startTime
		uniforms := &Uniforms{
			Time:      float32(now),
			TimeDelta: float32(now - lastTime),
			Frame:     frame,
		}
		lastTime = now

		width, height := r.context.GetFramebufferSize()
		r.RenderFrame(width, height, uniforms)
		r.Present(width, height)
		r.context.EndFrame()
		frame++
	}
}

func (r *Renderer) reload(path string, reloader Reloader) {
	src, err := shader.Load(path)
	if err != nil {
		r.log.Errorf("Reload failed: %v", err)
		return
	}
	if err := reloader.Reset(src.Files); err != nil {
		r.log.Warnf("Could not update watched files: %v", err)
	}
	if err := r.Load(src.Code); err != nil {
		r.log.Errorf("Reload failed, keeping previous shader: %v", err)
	}
}

// Record renders frames frames at fps into the off-screen target and writes
// each to out. Frames have the configured width and height whatever the
// window's framebuffer size is. Time advances by exactly 1/fps per frame.
func (r *Renderer) Record(ctx context.Context, out FrameWriter, frames, fps int) error {
	if r.target == nil {
		return ErrNoTarget
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	r.target.Resize(r.width, r.height)
	width, height := r.target.Size()
	step := 1.0 / float64(fps)
	var pixels []byte

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		uniforms := &Uniforms{
			Time:      float32(float64(i) * step),
			TimeDelta: float32(step),
			Frame:     int32(i),
		}
		r.RenderFrame(width, height, uniforms)

		var err error
		pixels, err = r.target.ReadRGBA8(pixels)
		if err != nil {
			return fmt.Errorf("failed to read frame %d: %w", i, err)
		}
		if err := out.WriteFrame(pixels); err != nil {
			return err
		}
		if (i+1)%fps == 0 {
			r.log.Debugf("Recorded %d/%d frames", i+1, frames)
		}
	}
	return nil
}
