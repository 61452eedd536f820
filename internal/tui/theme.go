package tui

import (
	"github.com/Mr-Dark-debug/hearts/internal/particles"
	"github.com/charmbracelet/lipgloss"
)

// ────────────────────────────────────────────────────────────
// Color Palette
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Hearts
	colorPink   = lipgloss.Color("#ff7eb6")
	colorRed    = lipgloss.Color("#f85149")
	colorPurple = lipgloss.Color("#bc8cff")
	colorBlue   = lipgloss.Color("#58a6ff")

	// Structural
	colorGreen = lipgloss.Color("#3fb950")
)

// heartColors is indexed by particles.Color.
var heartColors = [...]lipgloss.Color{
	particles.ColorPink:   colorPink,
	particles.ColorRed:    colorRed,
	particles.ColorPurple: colorPurple,
	particles.ColorBlue:   colorBlue,
}

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPink)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Toggle button
var (
	toggleOnStyle = lipgloss.NewStyle().
			Foreground(colorBg).
			Background(colorPink).
			Bold(true).
			Padding(0, 1)

	toggleOffStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Background(colorTextMuted).
			Padding(0, 1)
)

// Suspended indicator
var suspendedStyle = lipgloss.NewStyle().
	Foreground(colorGreen)

// heartStyle returns the glyph style for a particle. Large hearts are
// bold; fading hearts render faint.
func heartStyle(s particles.Style, fading bool) lipgloss.Style {
	c := colorText
	if int(s.Color) < len(heartColors) {
		c = heartColors[s.Color]
	}
	st := lipgloss.NewStyle().Foreground(c)
	if s.Size == particles.SizeLarge {
		st = st.Bold(true)
	}
	if fading {
		st = st.Faint(true)
	}
	return st
}

// heartGlyph returns the rune drawn for a particle size.
func heartGlyph(size particles.Size) string {
	if size == particles.SizeSmall {
		return "\u2661" // ♡
	}
	return "\u2665" // ♥
}
