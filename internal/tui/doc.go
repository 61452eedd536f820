// Package tui implements the Hearts terminal front end.
//
// It hosts a particles.Manager inside a BubbleTea program, turning
// terminal mouse and focus events into pointer, touch, click and
// visibility input, and drawing the live particles with Lipgloss and
// Harmonica springs.
//
// Component architecture:
//
//	model.go    : root model, message routing, Init/Update/View
//	scheduler.go: delayed tasks delivered back through Update
//	canvas.go   : particle display surface and spring animation
//	theme.go    : centralized color + style definitions
//	header.go   : top bar, footer, toggle button
//	control.go  : external toggle entry point
//	helpers.go  : cell/pixel conversion
package tui
