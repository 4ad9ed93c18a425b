// Package watch reports changes inside the directories the panels show.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups bursts of events (an editor save, an unpacking
// archive) into one refresh per path.
const DefaultDebounce = 100 * time.Millisecond

// Watcher follows a changing set of directories. SetTargets may be called
// from any goroutine; Run owns the underlying fsnotify watcher.
type Watcher struct {
	fsw      *fsnotify.Watcher
	targets  chan []string
	events   chan string
	debounce time.Duration
	log      *zap.Logger
}

// New creates a watcher. Run must be called for it to deliver events.
func New(log *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		targets:  make(chan []string, 1),
		events:   make(chan string, 64),
		debounce: debounce,
		log:      log,
	}, nil
}

// Events yields the paths that changed, at most once per debounce window.
// It is closed when Run returns.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// SetTargets replaces the watched directories. It never blocks; if Run has
// not picked up an earlier set yet, that set is discarded.
func (w *Watcher) SetTargets(paths []string) {
	paths = append([]string(nil), paths...)
	for {
		select {
		case w.targets <- paths:
			return
		default:
		}
		select {
		case <-w.targets:
		default:
		}
	}
}

// Run applies target changes and forwards events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.log.Debug("close watcher", zap.Error(err))
		}
	}()

	watched := make(map[string]struct{})
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case paths := <-w.targets:
			w.retarget(watched, paths)

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			pending[filepath.Clean(ev.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}

		case <-fire:
			timer, fire = nil, nil
			if !w.flush(ctx, pending) {
				return nil
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) retarget(watched map[string]struct{}, paths []string) {
	want := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		want[filepath.Clean(path)] = struct{}{}
	}
	for path := range watched {
		if _, keep := want[path]; keep {
			continue
		}
		if err := w.fsw.Remove(path); err != nil {
			w.log.Debug("unwatch", zap.String("path", path), zap.Error(err))
		}
		delete(watched, path)
	}
	for path := range want {
		if _, ok := watched[path]; ok {
			continue
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Debug("watch", zap.String("path", path), zap.Error(err))
			continue
		}
		watched[path] = struct{}{}
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) bool {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
		delete(pending, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		select {
		case w.events <- path:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
