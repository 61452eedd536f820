//go:build !unix

package main

// notifyRunning is unsupported without user signals; a running TUI picks up the
// stored preference on its next start.
func notifyRunning(string, bool) (bool, error) {
	return false, nil
}
