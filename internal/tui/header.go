package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	HEARTS  |  12/50 particles  |  constrained  |  paused
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("♥ HEARTS")
	sep := headerSepStyle.Render(" │ ")

	cfg := m.mgr.Config()
	parts := []string{
		brand,
		sep,
		headerMetaStyle.Render(fmt.Sprintf("%d/%d particles", m.mgr.Len(), cfg.MaxParticles)),
	}

	if m.opts.Constrained {
		parts = append(parts, sep, headerMetaStyle.Render("constrained"))
	}
	if m.mgr.Suspended() {
		parts = append(parts, sep, suspendedStyle.Render("paused"))
	}

	content := strings.Join(parts, "")

	return headerBarStyle.Width(m.width).Render(content)
}

// renderFooter produces the bottom status bar with keyboard hints and
// the toggle button pinned to the right edge.
func renderFooter(m *Model) string {
	var left string
	if m.statusMsg != "" {
		left = statusStyle.Render(m.statusMsg)
	}

	button := toggleButton(m.mgr.Enabled())
	hints := renderHints([]hint{
		{"click", "burst"},
		{"h", "toggle"},
		{"c", "clear"},
		{"q", "quit"},
	})
	right := hints + "  " + button

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		// Narrow terminal: keep the button reachable.
		right = button
		gap = maxInt(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

// toggleButton renders the on/off button.
func toggleButton(enabled bool) string {
	if enabled {
		return toggleOnStyle.Render("♥ on")
	}
	return toggleOffStyle.Render("♡ off")
}

// onToggleButton reports whether screen cell (x, y) hits the toggle button.
func (m *Model) onToggleButton(x, y int) bool {
	if y != m.height-1 {
		return false
	}
	w := lipgloss.Width(toggleButton(m.mgr.Enabled()))
	return x >= m.width-w && x < m.width
}

type hint struct {
	key  string
	desc string
}

func renderHints(hints []hint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts,
			hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
