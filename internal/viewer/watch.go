package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchSettle is how long a file must stay quiet before a change is
// reported. Exporters often write a file in several steps.
const watchSettle = 200 * time.Millisecond

// Watcher reports changes to one model file on a channel read by the
// render loop.
type Watcher struct {
	Changes <-chan string

	watcher *fsnotify.Watcher
	path    string
	changes chan string
	done    chan struct{}
	log     *zap.Logger
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file by rename are still noticed.
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan string, 1)
	w := &Watcher{
		Changes: changes,
		watcher: fw,
		path:    abs,
		changes: changes,
		done:    make(chan struct{}),
		log:     log,
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var settle <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			settle = time.After(watchSettle)
		case <-settle:
			settle = nil
			select {
			case w.changes <- w.path:
			default: // A reload is already queued
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
