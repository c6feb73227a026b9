// Package watch re-runs generation when the inputs of a package change.
//
// Events are debounced: changes arriving within the debounce window are
// coalesced so the callback fires once with every changed path.
package watch

import (
	"context"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last event before the
// callback fires.
const defaultDebounce = 200 * time.Millisecond

// Config holds the parameters for a Watcher.
type Config struct {
	// Paths are watched directories or files. Directories are not watched
	// recursively; a package lives in one directory.
	Paths []string

	// Match selects the paths that trigger the callback. nil matches all.
	Match func(path string) bool

	// Debounce falls back to defaultDebounce when zero or negative.
	Debounce time.Duration

	// OnChange receives the sorted, deduplicated changed paths. Errors are
	// logged and watching continues.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher monitors paths and fires a debounced callback. Run must be called
// exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	debounce time.Duration
	started  atomic.Bool
}

// New creates a Watcher and registers cfg.Paths.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("watch: no paths to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch: create fsnotify watcher")
	}
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err == nil {
			err = fsw.Add(abs)
		}
		if err != nil {
			fsw.Close() //nolint:errcheck
			return nil, errors.Wrapf(err, "watch: add %s", p)
		}
		slog.Debug("watching", "path", abs)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{cfg: cfg, fsw: fsw, debounce: debounce}, nil
}

// Run blocks until ctx is cancelled. The callback runs on the event loop, so
// invocations never overlap; events arriving meanwhile are coalesced into the
// next invocation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Warn("watch: close fsnotify", "error", err)
		}
	}()

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("change", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch: fsnotify error", "error", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			if w.cfg.OnChange == nil {
				continue
			}
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				slog.Error("watch: callback failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return w.cfg.Match == nil || w.cfg.Match(ev.Name)
}
