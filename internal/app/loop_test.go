package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/config"
	"github.com/kk-code-lab/rpane/internal/content"
	fsutil "github.com/kk-code-lab/rpane/internal/fs"
)

func newIdleApp(t *testing.T) (*Application, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)
	cfg := config.Default()
	cfg.Watch = false
	return newApplication(screen, cfg, fsutil.Canonical(t.TempDir()), content.NewOSLoader()), screen
}

func TestHandleEventMapsKeys(t *testing.T) {
	app, _ := newIdleApp(t)

	out, redraw := app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !out.Quit || redraw {
		t.Fatalf("q: got %+v redraw=%v, want quit", out, redraw)
	}

	out, redraw = app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	if out.Changed || out.Quit || len(out.Requests) != 0 || redraw {
		t.Fatalf("unbound key produced %+v redraw=%v", out, redraw)
	}
}

func TestHandleEventResize(t *testing.T) {
	app, _ := newIdleApp(t)

	_, redraw := app.handleEvent(tcell.NewEventResize(120, 40))
	if !redraw {
		t.Fatal("resize should request a redraw")
	}
	if got := app.panels.PageSize(); got != 38 {
		t.Fatalf("PageSize() = %d after resize, want 38", got)
	}
}

func TestHandleEventReloadRequestsForcedReads(t *testing.T) {
	app, _ := newIdleApp(t)
	app.panels.Start()

	out, _ := app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if len(out.Requests) == 0 {
		t.Fatal("reload produced no requests")
	}
	for _, req := range out.Requests {
		if !req.Force {
			t.Fatalf("reload request %+v not forced", req)
		}
	}
}
