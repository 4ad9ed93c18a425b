package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(nil, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

// waitForPath reads events until want arrives or the deadline passes.
func waitForPath(t *testing.T, w *Watcher, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-w.Events():
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("no event for %s", want)
		}
	}
}

func TestWatcherReportsChangesInTargets(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t)
	w.SetTargets([]string{dir})

	target := filepath.Join(dir, "new.txt")
	// The target set is applied asynchronously; keep touching the file
	// until the first event shows up.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = os.WriteFile(target, []byte("x"), 0o644)
			}
		}
	}()

	waitForPath(t, w, target)
}

func TestSetTargetsNeverBlocks(t *testing.T) {
	w, err := New(nil, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.fsw.Close()

	dir := t.TempDir()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			w.SetTargets([]string{filepath.Join(dir, string(rune('a'+i)))})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("SetTargets blocked without a running watcher")
	}
	if len(w.targets) != 1 {
		t.Fatalf("expected only the latest target set to be queued")
	}
}

func TestEventsClosedAfterRun(t *testing.T) {
	w, err := New(nil, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Fatalf("expected Events to be closed")
	}
}
