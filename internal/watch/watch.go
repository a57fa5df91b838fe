// Package watch notifies a callback when the workspace manifest
// changes on disk, so a long-running `reposync watch` process can
// re-sync without being re-invoked externally.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reposync/reposync/internal/logging"
)

const debounce = 250 * time.Millisecond

// Watcher watches a manifest file's parent directory for changes and
// invokes a callback, debounced, when the manifest itself is touched.
type Watcher struct {
	fsw          *fsnotify.Watcher
	manifestPath string
	logger       *log.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a Watcher for manifestPath. It must be watched with Run
// before it emits anything. A nil logger falls back to a stderr logger
// prefixed "[watch] ".
func New(manifestPath string, logger *log.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = logging.New("[watch] ", "")
	}
	return &Watcher{fsw: fsw, manifestPath: manifestPath, logger: logger}, nil
}

// Run watches the manifest's directory (fsnotify cannot watch a
// single file reliably across editors that replace-on-save) and calls
// onChange, debounced by ~250ms, whenever the manifest file itself is
// created, written, or renamed into place. It blocks until ctx is
// canceled or Stop is called.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watch: already running")
	}
	w.running = true
	w.done = make(chan struct{})
	w.mu.Unlock()

	dir := filepath.Dir(w.manifestPath)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch: watching %s: %w", dir, err)
	}

	w.wg.Add(1)
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.done:
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.manifestPath) {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watch: fsnotify error: %v", err)
		}
	}
}

// Stop unblocks a running Run call and releases the underlying
// fsnotify watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
