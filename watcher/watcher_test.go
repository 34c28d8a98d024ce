package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const debounce = 50 * time.Millisecond

func newTestWatcher(t *testing.T, files ...string) *Watcher {
	t.Helper()
	logger, _ := test.NewNullLogger()
	w, err := New(files, debounce, logger)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func received(w *Watcher, within time.Duration) bool {
	select {
	case <-w.Changes():
		return true
	case <-time.After(within):
		return false
	}
}

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.frag")
	write(t, path, "void main() {}\n")
	w := newTestWatcher(t, path)

	for i := 0; i < 5; i++ {
		write(t, path, "void main() { }\n")
	}
	assert.True(t, received(w, 2*time.Second), "expected a change notification")
	assert.False(t, received(w, 4*debounce), "burst should produce a single notification")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.frag")
	write(t, path, "void main() {}\n")
	w := newTestWatcher(t, path)

	write(t, filepath.Join(dir, "notes.txt"), "unrelated")
	assert.False(t, received(w, 6*debounce))
}

func TestWatcherReset(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	a := filepath.Join(dirA, "a.frag")
	b := filepath.Join(dirB, "b.glsl")
	write(t, a, "")
	write(t, b, "")
	w := newTestWatcher(t, a)

	require.NoError(t, w.Reset([]string{b}))
	write(t, a, "changed")
	assert.False(t, received(w, 6*debounce), "a is no longer watched")

	write(t, b, "changed")
	assert.True(t, received(w, 2*time.Second))
}

func TestWatcherMissingDirectory(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "main.frag")}, debounce, logger)
	assert.Error(t, err)
}

func TestWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.frag")
	write(t, path, "")
	logger, _ := test.NewNullLogger()
	w, err := New([]string{path}, debounce, logger)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestWatcherResetFailureKeepsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.frag")
	write(t, path, "")
	w := newTestWatcher(t, path)

	other := filepath.Join(t.TempDir(), "other.glsl")
	write(t, other, "")
	missing := filepath.Join(t.TempDir(), "gone", "lib.glsl")
	require.Error(t, w.Reset([]string{path, other, missing}))

	write(t, path, "changed")
	assert.True(t, received(w, 2*time.Second), "main.frag should still be watched")

	write(t, other, "changed")
	assert.False(t, received(w, 6*debounce), "a failed reset must not add files")
}

func TestWatcherResetSameDirectory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.frag")
	b := filepath.Join(dir, "b.glsl")
	write(t, a, "")
	write(t, b, "")
	w := newTestWatcher(t, a)

	require.NoError(t, w.Reset([]string{a, b}))
	write(t, b, "changed")
	assert.True(t, received(w, 2*time.Second))
}
