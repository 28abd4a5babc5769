package internal

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports photos that appear directly inside the watched directories.
// A path is only reported once it has seen no writes for the settle period,
// so cameras and copy tools get to finish the file first.
type Watcher struct {
	watcher *fsnotify.Watcher
	exts    []string
	settle  time.Duration
	ready   chan string
	errors  chan error
	done    chan struct{}
}

// NewWatcher watches each directory in dirs (not their subdirectories) for
// files ending in one of exts.
func NewWatcher(dirs []string, exts []string, settle time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if settle < 10*time.Millisecond {
		settle = 10 * time.Millisecond
	}

	w := &Watcher{
		watcher: fsWatcher,
		exts:    exts,
		settle:  settle,
		ready:   make(chan string, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}

	for _, dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}

	go w.processEvents()

	return w, nil
}

func (w *Watcher) processEvents() {
	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.settle / 2)
	defer tick.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !hasExtension(filepath.Base(event.Name), w.exts) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Error channel is full, drop error
			}

		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				select {
				case w.ready <- path:
				case <-w.done:
					return
				}
			}

		case <-w.done:
			return
		}
	}
}

// Ready returns the channel of settled file paths
func (w *Watcher) Ready() <-chan string {
	return w.ready
}

// Errors returns the channel of watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and cleans up resources
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
