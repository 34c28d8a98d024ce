// Package watcher reports when any file of a shader source changes on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher coalesces file system events on a fixed set of files into single
// notifications on Changes.
//
// Directories are watched rather than the files themselves, because editors
// commonly save by writing a new file and renaming it over the old one.
type Watcher struct {
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]bool
	debounce time.Duration
	changes  chan struct{}
	quit     chan struct{}
	wg       sync.WaitGroup
	log      logrus.FieldLogger
}

// New starts watching files. Events closer together than debounce produce one
// notification.
func New(files []string, debounce time.Duration, log logrus.FieldLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		quit:     make(chan struct{}),
		log:      log,
	}
	if err := w.add(files); err != nil {
		fsw.Close()
		return nil, err
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) add(files []string) error {
	abs, dirs, err := resolve(files)
	if err != nil {
		return err
	}
	for dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.files = abs
	return nil
}

// resolve returns the absolute paths of files and their directories.
func resolve(files []string) (abs, dirs map[string]bool, err error) {
	abs = make(map[string]bool, len(files))
	dirs = make(map[string]bool)
	for _, f := range files {
		p, err := filepath.Abs(f)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		abs[p] = true
		dirs[filepath.Dir(p)] = true
	}
	return abs, dirs, nil
}

// Changes delivers one value per burst of changes. It is buffered by one, so a
// slow reader sees at most one pending notification.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	close(w.quit)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.quit:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.WithField("file", ev.Name).Debugf("Shader file changed: %s", ev.Op)
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnf("Watcher error: %v", err)
		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// Reset replaces the watched file set, e.g. after a reload discovered a new
// include. On error the previous set stays in effect.
func (w *Watcher) Reset(files []string) error {
	abs, dirs, err := resolve(files)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.dirs()
	var added []string
	for dir := range dirs {
		if old[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			for _, d := range added {
				w.fsw.Remove(d)
			}
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		added = append(added, dir)
	}

	w.files = abs
	for dir := range old {
		if dirs[dir] {
			continue
		}
		if err := w.fsw.Remove(dir); err != nil {
			w.log.WithField("dir", dir).Warnf("Failed to stop watching: %v", err)
		}
	}
	return nil
}

func (w *Watcher) dirs() map[string]bool {
	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	return dirs
}
