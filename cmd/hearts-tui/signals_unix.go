//go:build unix

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mr-Dark-debug/hearts/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

// watchSignals maps SIGUSR1 and SIGUSR2 onto enabling and disabling the
// effect. The returned function stops watching.
func watchSignals(p *tea.Program) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1, syscall.SIGUSR2)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-sigChan:
				enabled := sig == syscall.SIGUSR1
				log.Printf("[INFO] Received %v, hearts enabled=%v", sig, enabled)
				tui.ToggleHeartParticles(p, enabled)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
