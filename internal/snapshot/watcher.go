package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change reports that a key was written or removed on disk.
type Change struct {
	Key     string
	Removed bool
	Time    time.Time
}

// Watcher reports snapshot files changed by any process, including this one.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches the directory of a FileBackend.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fsw,
		dir:      dir,
		debounce: 100 * time.Millisecond,
		logger:   logger,
	}, nil
}

// Watch returns a channel of changes, coalesced per key over the debounce
// window. The channel is closed when ctx is cancelled or the watcher closes.
func (w *Watcher) Watch(ctx context.Context) <-chan Change {
	out := make(chan Change, 16)

	go func() {
		defer close(out)

		var order []string
		pending := make(map[string]bool)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		flush := func() bool {
			for _, key := range order {
				select {
				case out <- Change{Key: key, Removed: pending[key], Time: time.Now()}:
				case <-ctx.Done():
					return false
				}
			}
			order = order[:0]
			clear(pending)
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				key, ok := keyFromFile(filepath.Base(ev.Name))
				if !ok {
					continue
				}
				if _, seen := pending[key]; !seen {
					order = append(order, key)
				}
				// The atomic rename shows up as Create; only a bare Remove
				// or Rename away means the key is gone.
				pending[key] = ev.Has(fsnotify.Remove) || (ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Create))
				timer.Reset(w.debounce)

			case <-timer.C:
				if len(order) > 0 && !flush() {
					return
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("snapshot watcher error", "dir", w.dir, "error", err)
			}
		}
	}()

	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
