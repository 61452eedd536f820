//go:build unix

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// notifyRunning signals the TUI recorded in pidPath, if it is still
// alive. SIGUSR1 enables the effect, SIGUSR2 disables it.
func notifyRunning(pidPath string, enabled bool) (bool, error) {
	raw, err := os.ReadFile(pidPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return false, fmt.Errorf("parsing pid file %s: %w", pidPath, err)
	}

	sig := syscall.SIGUSR2
	if enabled {
		sig = syscall.SIGUSR1
	}
	if err := syscall.Kill(pid, sig); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			// Stale pid file left by a crashed TUI.
			return false, nil
		}
		return false, fmt.Errorf("signalling pid %d: %w", pid, err)
	}
	return true, nil
}
