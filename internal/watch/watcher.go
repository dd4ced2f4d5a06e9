// Package watch re-triggers extraction when a transcript file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// DefaultDebounce is used when NewWatcher is given a zero debounce.
const DefaultDebounce = 2 * time.Second

// Event reports that the transcript settled after one or more writes.
type Event struct {
	Path      string
	Timestamp time.Time
}

// Watcher watches one transcript file. The parent directory is watched so
// that exports replaced by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	events   chan Event
	stop     chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving transcript path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		events:   make(chan Event, 1),
		stop:     make(chan struct{}),
		logger:   logger,
	}, nil
}

// Start begins watching in a background goroutine. Events arrive on
// Events(). Call Stop to release the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Info("watching transcript", zap.String("path", w.path), zap.Duration("debounce", w.debounce))
	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
}

// Events returns the channel of settled changes. Changes that arrive while
// an event is still unread are folded into it.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) processEvents(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("transcript changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			w.emit(Event{Path: w.path, Timestamp: time.Now()})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
	}
}

// Run calls fn for every event until ctx is cancelled or the watcher
// stops. Errors from fn are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context, Event) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev := <-w.events:
			if err := fn(ctx, ev); err != nil {
				w.logger.Error("handling transcript change", zap.String("path", ev.Path), zap.Error(err))
			}
		}
	}
}
