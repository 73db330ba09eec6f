package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs an export whenever the results database changes.
// cmonkey commits each iteration to the database, so watching the file
// turns the exporter into a live view of a running optimization.
type Watcher struct {
	watcher  *fsnotify.Watcher
	config   *Config
	logger   *slog.Logger
	debounce *Debouncer
}

// Config contains configuration for the database watcher.
type Config struct {
	// Path is the database file to watch.
	Path string

	// DebounceInterval is the quiet period after the last change
	// before onChange fires. cmonkey writes several tables per
	// iteration; debouncing avoids exporting half an iteration.
	// Default: 500ms
	DebounceInterval time.Duration
}

// New creates a watcher for the database file in config.Path.
// SQLite writes through -wal and -journal side files and may replace the
// main file, so the watch is registered on the containing directory.
func New(config *Config) (*Watcher, error) {
	if config.DebounceInterval == 0 {
		config.DebounceInterval = 500 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(config.Path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(config.Path), err)
	}

	return &Watcher{
		watcher:  fsw,
		config:   config,
		logger:   slog.Default().With("component", "watch"),
		debounce: NewDebouncer(config.DebounceInterval),
	}, nil
}

// Run blocks, invoking onChange (debounced) every time the watched
// database changes, until the context is canceled. An onChange error is
// logged and watching continues; only watcher failures end the loop.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	w.logger.Info("watching results database", "path", w.config.Path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("database change detected",
				"file", event.Name,
				"op", event.Op.String(),
			)
			w.debounce.Trigger(func() {
				if err := onChange(); err != nil {
					w.logger.Error("re-export failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// relevant reports whether an event concerns the watched database file
// or one of its SQLite side files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	base := filepath.Base(w.config.Path)
	name := filepath.Base(event.Name)
	return name == base || name == base+"-wal" || name == base+"-journal"
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.debounce.Stop()
	return w.watcher.Close()
}

// Debouncer collapses bursts of events into a single callback after a
// quiet interval. Callbacks never overlap: a trigger that fires while a
// previous callback is still running waits for it to finish.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	run      sync.Mutex
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback to run after the debounce interval,
// resetting the timer if a previous trigger is still pending.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.run.Lock()
		defer d.run.Unlock()
		callback()
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
