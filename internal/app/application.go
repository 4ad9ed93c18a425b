// Package app wires the terminal, the content pipeline and the panel set into
// the running browser.
package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpane/internal/config"
	"github.com/kk-code-lab/rpane/internal/content"
	"github.com/kk-code-lab/rpane/internal/logging"
	"github.com/kk-code-lab/rpane/internal/panel"
	"github.com/kk-code-lab/rpane/internal/ui/input"
	"github.com/kk-code-lab/rpane/internal/watch"
	"go.uber.org/zap"
)

// Application represents the running app.
type Application struct {
	screen  tcell.Screen
	cfg     config.Config
	cache   *content.Cache
	content *content.Manager
	panels  *panel.Manager
	input   *input.InputHandler
	watcher *watch.Watcher // nil when watching is off or unavailable
	log     *zap.Logger

	events      chan tcell.Event
	currentPath string
}

// NewApplication opens the terminal and prepares a browser rooted at start,
// which must be a canonical directory path.
func NewApplication(cfg config.Config, start string) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	return newApplication(screen, cfg, start, content.NewOSLoader()), nil
}

// newApplication takes an initialised screen.
func newApplication(screen tcell.Screen, cfg config.Config, start string, loader content.Loader) *Application {
	log := logging.Named("app")
	cache := content.NewCache(cfg.CacheCapacity)
	manager := content.NewManager(cache, loader, content.Options{
		QueueSize: cfg.RequestQueue,
		Workers:   cfg.Workers,
		Logger:    logging.Named("content"),
	})
	panels := panel.NewManager(cache, start, cfg.ShowHidden)

	app := &Application{
		screen:      screen,
		cfg:         cfg,
		cache:       cache,
		content:     manager,
		panels:      panels,
		input:       input.NewInputHandler(panels.PageSize),
		log:         log,
		events:      make(chan tcell.Event),
		currentPath: start,
	}

	if cfg.Watch {
		w, err := watch.New(logging.Named("watch"), watch.DefaultDebounce)
		if err != nil {
			log.Warn("filesystem watching disabled", zap.Error(err))
		} else {
			app.watcher = w
		}
	}
	return app
}

// Close restores the terminal.
func (app *Application) Close() error {
	app.screen.Fini()
	return nil
}

// CurrentPath returns the directory that was current when the app stopped.
func (app *Application) CurrentPath() string {
	return app.currentPath
}
