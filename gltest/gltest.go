// Package gltest runs GL calls from tests on the thread that owns the
// context. Tests run on their own goroutines, but an OpenGL context is current
// on exactly one OS thread, so every GL call is funneled back to the main
// thread through Do.
//
// A test binary that uses it calls Main from TestMain:
//
//	func TestMain(m *testing.M) { gltest.Main(m) }
package gltest

import (
	"os"
	"runtime"
	"testing"

	"github.com/richinsley/fragx/glfwcontext"
	"github.com/richinsley/fragx/options"
)

// Width and Height are the size of the hidden test window.
const (
	Width  = 640
	Height = 480
)

var (
	calls   = make(chan func())
	ctx     *glfwcontext.Context
	initErr error
)

func init() {
	runtime.LockOSThread()
}

// Main creates a hidden OpenGL ES 3.0 window, runs the tests and serves GL
// calls on the main thread until they finish. When no context can be created
// the tests still run and Do skips.
func Main(m *testing.M) {
	opts := options.Default()
	opts.Width = Width
	opts.Height = Height
	opts.SwapInterval = 0
	ctx, initErr = glfwcontext.New(opts, false)

	done := make(chan int, 1)
	go func() { done <- m.Run() }()
	for {
		select {
		case f := <-calls:
			f()
		case code := <-done:
			if ctx != nil {
				ctx.Shutdown()
			}
			glfwcontext.Terminate()
			os.Exit(code)
		}
	}
}

// Do runs f on the GL thread and waits for it. It skips the test when no
// context is available. f must not call t.FailNow or its relatives; collect
// results and assert after Do returns.
func Do(t testing.TB, f func()) {
	t.Helper()
	if initErr != nil {
		t.Skipf("no OpenGL ES 3.0 context: %v", initErr)
	}
	finished := make(chan struct{})
	calls <- func() {
		defer close(finished)
		f()
	}
	<-finished
}

// Context returns the test window's context, or nil when none could be made.
func Context() *glfwcontext.Context {
	return ctx
}
