//go:build !windows

package app

import (
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

func (app *Application) suspendToShell() {
	_ = app.screen.Suspend()
	// Stop only this process; signalling the process group would also stop
	// the wrapper shell function and break `fg`.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

// resumeAfterStop retakes the terminal after SIGCONT. The size may have
// changed while the process was stopped.
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		app.log.Warn("resume terminal failed", zap.Error(err))
		return false
	}
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.panels.Resize(w, h)
	}
	return true
}
