package marksite

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debouncer coalesces bursts of triggers into a single callback invocation
// after a quiet period. Editors tend to fire several fs events per save.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet-period timer. The callback runs once the
// timer expires without another trigger.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// WatchContent watches dir for post file changes and calls onChange after
// the debounce quiet period. It blocks until ctx is cancelled or the
// underlying watcher fails.
func WatchContent(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	deb := newDebouncer(debounce, onChange)
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isPostEvent(event) {
				continue
			}
			deb.Trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("marksite: watch %s: %v", dir, err)
		}
	}
}

// isPostEvent reports whether a fs event concerns a Markdown post file.
// Editor temp files and swap files are ignored.
func isPostEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}
