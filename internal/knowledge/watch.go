package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads a content directory when its documents change and
// publishes the new snapshot through a Holder. A reload that fails
// validation keeps the previous snapshot.
type Watcher struct {
	dir      string
	holder   *Holder
	watcher  *fsnotify.Watcher
	debounce time.Duration
	reloaded chan *Store
}

// NewWatcher starts watching dir. Call Run to process events.
func NewWatcher(dir string, holder *Holder) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		holder:   holder,
		watcher:  fw,
		debounce: defaultDebounce,
		reloaded: make(chan *Store, 1),
	}, nil
}

// Reloaded delivers successfully published snapshots. Slow readers only see
// the newest one.
func (w *Watcher) Reloaded() <-chan *Store {
	return w.reloaded
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if documentKind(event.Name) == "" {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Editors write in bursts; wait for the directory to settle.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("content watcher error", "dir", w.dir, "error", err)
		}
	}
}

func (w *Watcher) reload() {
	s, err := LoadDir(w.dir)
	if err != nil {
		slog.Warn("content reload failed, keeping previous snapshot", "dir", w.dir, "error", err)
		return
	}
	prev := w.holder.Swap(s)
	slog.Info("content reloaded", "dir", w.dir, "version", s.Version(), "previous", prev.Version())

	// Keep only the newest snapshot for readers.
	select {
	case <-w.reloaded:
	default:
	}
	w.reloaded <- s
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
