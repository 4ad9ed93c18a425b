//go:build windows

package app

import "os"

// Windows has no job-control signals.
func contSignals() []os.Signal {
	return nil
}
