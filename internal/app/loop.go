package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/content"
	"github.com/kk-code-lab/rpane/internal/metrics"
	"github.com/kk-code-lab/rpane/internal/panel"
	"github.com/kk-code-lab/rpane/internal/ui/input"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run drives the browser until the user quits or ctx is cancelled. The
// content manager, the watcher and the metrics endpoint run alongside the UI
// loop and are stopped with it.
func (app *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go app.pollEvents(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.content.Run(gctx)
	})
	if app.watcher != nil {
		g.Go(func() error {
			if err := app.watcher.Run(gctx); err != nil {
				app.log.Warn("filesystem watcher stopped", zap.Error(err))
			}
			return nil
		})
	}
	if addr := app.cfg.MetricsAddr; addr != "" {
		g.Go(func() error {
			if err := metrics.Serve(gctx, addr); err != nil {
				app.log.Warn("metrics endpoint stopped", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		defer app.content.Close()
		return app.loop(gctx)
	})
	return g.Wait()
}

func (app *Application) pollEvents(ctx context.Context) {
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case app.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (app *Application) loop(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in ui loop: %v\n%s", r, debug.Stack())
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	app.panels.Resize(app.screen.Size())
	if _, err := app.apply(ctx, app.panels.Start()); err != nil {
		return err
	}

	notifications := app.content.Notifications()
	var changes <-chan string
	if app.watcher != nil {
		changes = app.watcher.Events()
	}

	for {
		var out panel.Outcome
		select {
		case <-ctx.Done():
			return nil
		case ev := <-app.events:
			var redraw bool
			out, redraw = app.handleEvent(ev)
			if redraw {
				if err := app.draw(); err != nil {
					return err
				}
			}
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			out = app.panels.Receive(n)
		case path, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			app.log.Debug("external change", zap.String("path", path))
			out = app.panels.Refresh(path)
		case <-sigContCh:
			if app.resumeAfterStop() {
				out.Changed = true
			}
		}

		quit, err := app.apply(ctx, out)
		if err != nil {
			return err
		}
		if quit {
			app.currentPath = app.panels.Current().Path()
			return nil
		}
	}
}

// apply submits the requests of out and redraws when it changed the view.
func (app *Application) apply(ctx context.Context, out panel.Outcome) (bool, error) {
	for _, req := range out.Requests {
		if err := app.content.Submit(ctx, req); err != nil {
			if errors.Is(err, content.ErrClosed) || ctx.Err() != nil {
				return true, nil
			}
			return false, fmt.Errorf("submit %s request for %s: %w", req.Kind, req.Path, err)
		}
	}
	if out.Changed {
		if app.watcher != nil {
			app.watcher.SetTargets(app.panels.WatchTargets())
		}
		if err := app.draw(); err != nil {
			return false, err
		}
	}
	return out.Quit, nil
}

func (app *Application) draw() error {
	if err := app.panels.Draw(app.screen); err != nil {
		return err
	}
	app.screen.Show()
	return nil
}

// handleEvent maps a terminal event to a panel outcome. redraw is set for
// events that need a repaint without changing the panels.
func (app *Application) handleEvent(ev tcell.Event) (out panel.Outcome, redraw bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if input.IsSuspend(ev) {
			app.suspendToShell()
			return panel.Outcome{Changed: app.resumeAfterStop()}, false
		}
		cmd, ok := app.input.Command(ev)
		if !ok {
			return panel.Outcome{}, false
		}
		return app.panels.Apply(cmd), false
	case *tcell.EventResize:
		app.panels.Resize(ev.Size())
		app.screen.Sync()
		return panel.Outcome{}, true
	case *tcell.EventInterrupt:
		return panel.Outcome{}, true
	}
	return panel.Outcome{}, false
}
