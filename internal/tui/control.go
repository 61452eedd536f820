package tui

import tea "github.com/charmbracelet/bubbletea"

// toggleMsg requests a persisted enable/disable from outside the model.
type toggleMsg struct {
	enabled bool
}

// ToggleHeartParticles enables or disables the particle effect of a
// running program. It is safe to call from any goroutine; the change is
// applied, persisted and reflected on screen by the program's update loop.
func ToggleHeartParticles(p *tea.Program, enabled bool) {
	if p == nil {
		return
	}
	p.Send(toggleMsg{enabled: enabled})
}
