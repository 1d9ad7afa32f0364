// Package watch re-evaluates an expression file every time it changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/codefionn/yardcalc/internal/batch"
	"github.com/codefionn/yardcalc/internal/consts"
	"github.com/codefionn/yardcalc/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Watcher evaluates a file once and again after each write
type Watcher struct {
	path     string
	opts     batch.Options
	debounce time.Duration
	// OnRun, if set, is called after each evaluation pass
	OnRun func(batch.Summary, error)
}

// New creates a watcher for the file at path
func New(path string, opts batch.Options) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		opts:     opts,
		debounce: consts.WatchDebounce,
	}
}

// SetDebounce overrides the delay used to coalesce bursts of events
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is cancelled. The parent directory is watched rather
// than the file so editors that replace the file on save keep working.
func (w *Watcher) Run(ctx context.Context) error {
	log := logger.Global().WithPrefix("watch")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.evaluate(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("Change detected: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error: %v", err)

		case <-timer.C:
			w.evaluate(ctx)
		}
	}
}

func (w *Watcher) evaluate(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	summary, err := batch.RunFile(ctx, w.path, w.opts)
	if err != nil {
		logger.Global().WithPrefix("watch").Warn("Evaluation of %s failed: %v", w.path, err)
	}
	if w.OnRun != nil {
		w.OnRun(summary, err)
	}
}
