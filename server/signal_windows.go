//go:build windows

package server

import "os"

// terminationSignals on Windows covers only Ctrl+C in console/direct
// mode; SCM control events are handled separately by run_windows.go's
// dispatcher, not through os/signal.
func terminationSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

func informationalSignals() []os.Signal { return nil }
