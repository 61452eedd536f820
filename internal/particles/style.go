package particles

import (
	"fmt"
	"math/rand/v2"
)

// Size is the particle size category.
type Size uint8

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge

	numSizes = 3
)

// Color is the particle color category.
type Color uint8

const (
	ColorPink Color = iota
	ColorRed
	ColorPurple
	ColorBlue

	numColors = 4
)

// Variant selects one of the animation curves a particle follows.
type Variant uint8

const (
	Anim1 Variant = iota
	Anim2
	Anim3

	numVariants = 3
)

var (
	sizeNames    = [numSizes]string{"small", "medium", "large"}
	colorNames   = [numColors]string{"pink", "red", "purple", "blue"}
	variantNames = [numVariants]string{"anim1", "anim2", "anim3"}
)

func (s Size) String() string {
	if int(s) < len(sizeNames) {
		return sizeNames[s]
	}
	return fmt.Sprintf("size(%d)", uint8(s))
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("anim(%d)", uint8(v))
}

// Style is the categorical look of a particle: 3 sizes × 4 colors × 3
// animation variants.
type Style struct {
	Size    Size
	Color   Color
	Variant Variant
}

// Class renders the style as a space-separated class list,
// e.g. "heart-particle medium pink anim2".
func (s Style) Class() string {
	return fmt.Sprintf("heart-particle %s %s %s", s.Size, s.Color, s.Variant)
}

// RandomStyle draws each style component independently and uniformly.
func RandomStyle(r *rand.Rand) Style {
	return Style{
		Size:    Size(r.IntN(numSizes)),
		Color:   Color(r.IntN(numColors)),
		Variant: Variant(r.IntN(numVariants)),
	}
}

// AllStyles enumerates every style combination.
func AllStyles() []Style {
	out := make([]Style, 0, numSizes*numColors*numVariants)
	for s := Size(0); s < numSizes; s++ {
		for c := Color(0); c < numColors; c++ {
			for v := Variant(0); v < numVariants; v++ {
				out = append(out, Style{Size: s, Color: c, Variant: v})
			}
		}
	}
	return out
}
