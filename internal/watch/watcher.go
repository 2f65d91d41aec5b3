// Package watch reloads on-disk resources (prompt templates, TLS
// certificates) when their files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"careerfit/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls onChange, debounced, whenever one of its files is written,
// created or renamed. Parent directories are watched so that editors which
// replace files atomically are still seen.
type Watcher struct {
	files         []string
	debounceDelay time.Duration
	onChange      func()
	logger        *errors.Logger

	mu            sync.Mutex
	fsWatcher     *fsnotify.Watcher
	debounceTimer *time.Timer
	reloadChan    chan struct{}
	done          chan struct{}
}

// New creates a watcher for files. Empty paths are ignored.
func New(files []string, debounceDelay time.Duration, onChange func(), logger *errors.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("watch: onChange callback is required")
	}
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}

	var abs []string
	for _, f := range files {
		if f == "" {
			continue
		}
		p, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolving %s: %w", f, err)
		}
		if !slices.Contains(abs, p) {
			abs = append(abs, p)
		}
	}

	return &Watcher{
		files:         abs,
		debounceDelay: debounceDelay,
		onChange:      onChange,
		logger:        logger,
		reloadChan:    make(chan struct{}, 1),
	}, nil
}

// Files returns the absolute paths being watched.
func (w *Watcher) Files() []string {
	return append([]string(nil), w.files...)
}

// Start begins watching until ctx is cancelled or Stop is called. It is a
// no-op when there is nothing to watch.
func (w *Watcher) Start(ctx context.Context) error {
	if len(w.files) == 0 {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: creating file watcher: %w", err)
	}

	var dirs []string
	for _, f := range w.files {
		if d := filepath.Dir(f); !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			fsw.Close()
			return fmt.Errorf("watch: adding %s: %w", d, err)
		}
	}

	w.mu.Lock()
	w.fsWatcher = fsw
	w.done = make(chan struct{})
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Info("File watcher started", "files", w.files, "debounce_delay", w.debounceDelay)
	}

	go w.loop(ctx, fsw, w.done)
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	if w.done != nil {
		close(w.done)
		w.done = nil
	}
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.schedule()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "File watcher error")
			}
		case <-w.reloadChan:
			w.onChange()
		case <-ctx.Done():
			w.Stop()
			return
		case <-done:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return slices.Contains(w.files, name)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
