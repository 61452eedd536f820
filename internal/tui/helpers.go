package tui

import "math"

// ────────────────────────────────────────────────────────────
// Coordinate conversion
// ────────────────────────────────────────────────────────────

// cellToPixel returns the pixel coordinate of the centre of cell i
// for cells size pixels wide.
func cellToPixel(i, size int) float64 {
	return float64(i*size) + float64(size)/2
}

// pixelToCell returns the cell containing pixel coordinate p.
func pixelToCell(p float64, size int) int {
	if size <= 0 {
		return 0
	}
	return int(math.Floor(p / float64(size)))
}

// roundInt rounds half away from zero.
func roundInt(v float64) int {
	return int(math.Round(v))
}

// ────────────────────────────────────────────────────────────
// Numeric helpers
// ────────────────────────────────────────────────────────────

// maxInt returns the larger of a and b.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
