//go:build !unix

package main

import tea "github.com/charmbracelet/bubbletea"

// watchSignals is a no-op where user signals do not exist.
func watchSignals(*tea.Program) func() {
	return func() {}
}
