package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/richinsley/fragx/encoder"
	"github.com/richinsley/fragx/gles"
	"github.com/richinsley/fragx/glfwcontext"
	"github.com/richinsley/fragx/graphics"
	"github.com/richinsley/fragx/headless"
	"github.com/richinsley/fragx/options"
	"github.com/richinsley/fragx/renderer"
	"github.com/richinsley/fragx/shader"
	"github.com/richinsley/fragx/translator"
	"github.com/richinsley/fragx/watcher"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML config file",
		EnvVars: []string{"FRAGX_CONFIG"},
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "Width of the window or recording",
	}
	heightFlag = &cli.IntFlag{
		Name:  "height",
		Usage: "Height of the window or recording",
	}
	swapIntervalFlag = &cli.IntFlag{
		Name:  "swap-interval",
		Usage: "Buffer swap interval (1 = vsync, 0 = unthrottled)",
	}
	wrapFlag = &cli.StringFlag{
		Name:  "wrap",
		Usage: "Wrap mode of the off-screen target (repeat, clamp, mirror)",
	}
	watchFlag = &cli.BoolFlag{
		Name:  "watch",
		Usage: "Reload the shader when its files change",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
	}
	durationFlag = &cli.Float64Flag{
		Name:  "duration",
		Usage: "Duration to record in seconds",
	}
	fpsFlag = &cli.IntFlag{
		Name:  "fps",
		Usage: "Frames per second for recording",
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file for recording",
	}
	codecFlag = &cli.StringFlag{
		Name:  "codec",
		Usage: "Video codec (h264, hevc)",
	}
	ffmpegFlag = &cli.StringFlag{
		Name:  "ffmpeg",
		Usage: "Path to the ffmpeg executable",
	}
	headlessFlag = &cli.BoolFlag{
		Name:  "headless",
		Usage: "Record through an EGL pbuffer instead of a hidden window",
	}
)

func init() {
	runtime.LockOSThread()
}

func main() {
	app := &cli.App{
		Name:  "fragx",
		Usage: "render a fragment shader over a full-screen quad",
		Flags: []cli.Flag{configFlag, logLevelFlag},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Show a shader in a window",
				ArgsUsage: "<shader.frag>",
				Flags:     []cli.Flag{widthFlag, heightFlag, swapIntervalFlag, wrapFlag, watchFlag},
				Action:    runCommand,
			},
			{
				Name:      "record",
				Usage:     "Render a shader to a video file with ffmpeg",
				ArgsUsage: "<shader.frag>",
				Flags: []cli.Flag{widthFlag, heightFlag, wrapFlag, durationFlag, fpsFlag,
					outputFlag, codecFlag, ffmpegFlag, headlessFlag},
				Action: recordCommand,
			},
			{
				Name:      "check",
				Usage:     "Validate a shader without a GL context",
				ArgsUsage: "<shader.frag>",
				Action:    checkCommand,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadOptions builds the options from defaults, the config file and flags,
// in that order of precedence.
func loadOptions(c *cli.Context) (*options.ShaderOptions, error) {
	opts := options.Default()
	if path := c.String(configFlag.Name); path != "" {
		var err error
		if opts, err = options.Load(path); err != nil {
			return nil, err
		}
	}
	if c.Args().Len() > 0 {
		opts.Shader = c.Args().First()
	}
	if c.IsSet(widthFlag.Name) {
		opts.Width = c.Int(widthFlag.Name)
	}
	if c.IsSet(heightFlag.Name) {
		opts.Height = c.Int(heightFlag.Name)
	}
	if c.IsSet(swapIntervalFlag.Name) {
		opts.SwapInterval = c.Int(swapIntervalFlag.Name)
	}
	if c.IsSet(wrapFlag.Name) {
		opts.Wrap = c.String(wrapFlag.Name)
	}
	if c.IsSet(watchFlag.Name) {
		opts.Watch = c.Bool(watchFlag.Name)
	}
	if c.IsSet(logLevelFlag.Name) {
		opts.LogLevel = c.String(logLevelFlag.Name)
	}
	if c.IsSet(durationFlag.Name) {
		opts.Duration = c.Float64(durationFlag.Name)
	}
	if c.IsSet(fpsFlag.Name) {
		opts.FPS = c.Int(fpsFlag.Name)
	}
	if c.IsSet(outputFlag.Name) {
		opts.OutputFile = c.String(outputFlag.Name)
	}
	if c.IsSet(codecFlag.Name) {
		opts.Codec = c.String(codecFlag.Name)
	}
	if c.IsSet(ffmpegFlag.Name) {
		opts.FFMPEGPath = c.String(ffmpegFlag.Name)
	}
	if c.IsSet(headlessFlag.Name) {
		opts.Headless = c.Bool(headlessFlag.Name)
	}

	if opts.Shader == "" {
		return nil, fmt.Errorf("no shader given")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

func newLogger(level string) (*logrus.Logger, error) {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	gles.SetLogger(log)
	return log, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runCommand(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	log, err := newLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	src, err := shader.Load(opts.Shader)
	if err != nil {
		return err
	}

	glctx, err := glfwcontext.New(opts, true)
	if err != nil {
		return err
	}
	defer glfwcontext.Terminate()
	defer glctx.Shutdown()

	glctx.MakeCurrent()
	r, err := renderer.New(glctx, opts, log)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	// A broken shader at startup is not fatal when watching: the user can fix
	// it and the next save reloads it.
	if err := r.Load(src.Code); err != nil && !opts.Watch {
		return err
	}

	var reloader renderer.Reloader
	if opts.Watch {
		w, err := watcher.New(src.Files, 100*time.Millisecond, log)
		if err != nil {
			return err
		}
		defer w.Close()
		reloader = w
		log.WithField("files", len(src.Files)).Info("Watching shader for changes")
	}

	ctx, cancel := signalContext()
	defer cancel()
	log.Info("Starting interactive render loop...")
	r.Run(ctx, src, reloader)
	return nil
}

func recordCommand(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	log, err := newLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	src, err := shader.Load(opts.Shader)
	if err != nil {
		return err
	}

	var glctx graphics.Context
	if opts.Headless {
		glctx, err = headless.New(opts)
	} else {
		var win *glfwcontext.Context
		win, err = glfwcontext.New(opts, false)
		if err == nil {
			defer glfwcontext.Terminate()
			glctx = win
		}
	}
	if err != nil {
		return err
	}
	defer glctx.Shutdown()

	glctx.MakeCurrent()
	r, err := renderer.New(glctx, opts, log)
	if err != nil {
		return err
	}
	defer r.Shutdown()
	// Fail before ffmpeg creates an empty output file.
	if r.Target() == nil {
		return renderer.ErrNoTarget
	}
	if err := r.Load(src.Code); err != nil {
		return err
	}

	enc := encoder.New(opts, log)
	if err := enc.Start(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	log.WithField("frames", opts.Frames()).Info("Starting offscreen render loop...")
	recordErr := r.Record(ctx, enc, opts.Frames(), opts.FPS)
	if err := enc.Close(); err != nil && recordErr == nil {
		recordErr = err
	}
	if recordErr != nil {
		return fmt.Errorf("offscreen rendering failed: %w", recordErr)
	}
	log.Infof("Successfully rendered to %s", opts.OutputFile)
	return nil
}

func checkCommand(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("no shader given")
	}
	src, err := shader.Load(c.Args().First())
	if err != nil {
		return err
	}
	report, err := translator.Check(c.Context, src.Code)
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d files)\n", src.Path, len(src.Files))
	for _, name := range report.Variables {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
