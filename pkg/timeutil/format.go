// Package timeutil provides clock and time formatting utilities for Hearts.
//
// Particle lifetimes, throttle gates and reaper ticks all read time
// through the Clock interface so that the same code runs against the
// wall clock in the TUI and against virtual time in tests and
// headless simulations.
package timeutil

import (
	"fmt"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Epoch is the fixed origin used by virtual clocks. It is arbitrary
// but stable so that formatted timestamps in reports are reproducible.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Millis returns d as whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// FormatOffset formats a point in time relative to origin as "+S.mmm".
// Used when printing virtual-time traces.
func FormatOffset(origin, t time.Time) string {
	d := t.Sub(origin)
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%d.%03ds", sign, int64(d/time.Second), d.Milliseconds()%1000)
}

// FormatDuration formats a duration to a human-readable string.
// Examples: "450ms", "1.2s", "2m 15.3s"
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds / 60)
	remaining := seconds - float64(minutes*60)
	return fmt.Sprintf("%dm %.1fs", minutes, remaining)
}
