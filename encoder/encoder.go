// Package encoder pipes raw RGBA frames into an ffmpeg process.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richinsley/fragx/options"
	"github.com/sirupsen/logrus"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// BytesPerPixel is the size of one RGBA8 pixel as written by WriteFrame.
const BytesPerPixel = 4

var errNotStarted = errors.New("encoder not started")

// Encoder feeds frames to ffmpeg over a pipe. ffmpeg runs in its own
// goroutine; Start, WriteFrame and Close are meant to be called from a single
// goroutine.
type Encoder struct {
	opts      *options.ShaderOptions
	log       logrus.FieldLogger
	frameSize int

	pipeWriter *io.PipeWriter
	errc       chan error
	frames     int64
}

// New returns an encoder for opts.Width x opts.Height frames at opts.FPS.
func New(opts *options.ShaderOptions, log logrus.FieldLogger) *Encoder {
	return &Encoder{
		opts:      opts,
		log:       log,
		frameSize: opts.Width * opts.Height * BytesPerPixel,
	}
}

// Args returns the ffmpeg input and output arguments for opts.
func Args(opts *options.ShaderOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"framerate": opts.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	if opts.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(opts.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return
}

// Start launches ffmpeg.
func (e *Encoder) Start() error {
	if e.pipeWriter != nil {
		return fmt.Errorf("encoder already started")
	}
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := Args(e.opts)

	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(e.opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if e.opts.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(e.opts.FFMPEGPath)
	}

	e.errc = make(chan error, 1)
	go func() {
		err := cmd.Run()
		// Unblock a writer stuck on a dead ffmpeg.
		pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %v", err))
		e.errc <- err
	}()
	e.pipeWriter = pipeWriter
	e.log.WithField("output", e.opts.OutputFile).Info("Started ffmpeg encoder")
	return nil
}

// WriteFrame writes one RGBA8 frame, top row first.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if e.pipeWriter == nil {
		return errNotStarted
	}
	if len(pixels) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, expected %d", len(pixels), e.frameSize)
	}
	if _, err := e.pipeWriter.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to ffmpeg: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Close ends the stream and waits for ffmpeg to finish writing the output.
func (e *Encoder) Close() error {
	if e.pipeWriter == nil {
		return errNotStarted
	}
	e.pipeWriter.Close()
	err := <-e.errc
	e.pipeWriter = nil
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	e.log.WithField("frames", e.frames).Info("Encoder finished")
	return nil
}
