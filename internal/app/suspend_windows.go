//go:build windows

package app

// Windows has no SIGTSTP; suspend is ignored.
func (app *Application) suspendToShell() {
}

func (app *Application) resumeAfterStop() bool {
	return false
}
