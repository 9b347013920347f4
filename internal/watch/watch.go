// Package watch reports changes to a single file. Bursts of file system
// events, as produced by editors saving a file, are coalesced.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum time between two change notifications.
const DefaultInterval = 250 * time.Millisecond

// Watcher watches one file through its parent directory.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	limiter *rate.Limiter
	events  chan struct{}
}

// New starts watching path. Notifications are delivered at most once per
// interval; a non-positive interval selects DefaultInterval.
func New(path string, interval time.Duration) (*Watcher, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("error adding dir to fsnotify watcher: %w", err)
	}
	log.Debug("fsnotify watching dir", "dir", dir, "file", abs)

	return &Watcher{
		path:    abs,
		fsw:     fsw,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		events:  make(chan struct{}, 1),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events delivers a value whenever the file was written or re-created.
// Pending notifications are coalesced into one. The channel is closed when
// Run returns.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Run processes file system events until ctx is done or the watcher is
// closed. It must be called at most once.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)

			if pending != nil {
				// A notification is already scheduled.
				continue
			}
			r := w.limiter.Reserve()
			if d := r.Delay(); d > 0 {
				timer = time.NewTimer(d)
				pending = timer.C
				continue
			}
			w.notify()

		case <-pending:
			pending = nil
			w.notify()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "file", w.path, "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
